package topology

// The caps of a cube grid are not a single ring sweep: their border belongs
// to the top (or bottom) side ring while their interior vertices were laid
// out afterwards, row by row. The cursor walkers below track the border
// with vMin (running down the x=0 edge), vMax (running up the x=max edge)
// and vTop (running back along the far z edge), and the interior with vMid.
// They need at least two cells along X and Z.

// CreateTopFace writes the quads of the y=max cap starting at offset t and
// returns the next offset.
func CreateTopFace(g CubeGrid, tris []uint32, t int) int {
	ring := g.Ring()

	// first row: border ring on z=0, interior (or x=0 border) on z=1
	v := ring * g.Y
	for x := 0; x < g.X-1; x++ {
		t = SetQuad(tris, t, v, v+1, v+ring-1, v+ring)
		v++
	}
	t = SetQuad(tris, t, v, v+1, v+ring-1, v+2)

	vMin := ring*(g.Y+1) - 1
	vMid := vMin + 1
	vMax := v + 2

	for z := 1; z < g.Z-1; z++ {
		t = SetQuad(tris, t, vMin, vMid, vMin-1, vMid+g.X-1)
		for x := 1; x < g.X-1; x++ {
			t = SetQuad(tris, t, vMid, vMid+1, vMid+g.X-1, vMid+g.X)
			vMid++
		}
		t = SetQuad(tris, t, vMid, vMax, vMid+g.X-1, vMax+1)
		vMin--
		vMid++
		vMax++
	}

	// last row closes against the border ring on z=max
	vTop := vMin - 2
	t = SetQuad(tris, t, vMin, vMid, vTop+1, vTop)
	for x := 1; x < g.X-1; x++ {
		t = SetQuad(tris, t, vMid, vMid+1, vTop, vTop-1)
		vTop--
		vMid++
	}
	return SetQuad(tris, t, vMid, vTop-2, vTop, vTop-1)
}

// CreateBottomFace writes the quads of the y=0 cap, mirrored so that they
// face down, starting at offset t.
func CreateBottomFace(g CubeGrid, tris []uint32, t int) int {
	ring := g.Ring()

	v := 1
	vMid := g.VertexCount() - (g.X-1)*(g.Z-1)
	t = SetQuad(tris, t, ring-1, vMid, 0, 1)
	for x := 1; x < g.X-1; x++ {
		t = SetQuad(tris, t, vMid, vMid+1, v, v+1)
		v++
		vMid++
	}
	t = SetQuad(tris, t, vMid, v+2, v, v+1)

	vMin := ring - 2
	vMid -= g.X - 2
	vMax := v + 2

	for z := 1; z < g.Z-1; z++ {
		t = SetQuad(tris, t, vMin, vMid+g.X-1, vMin+1, vMid)
		for x := 1; x < g.X-1; x++ {
			t = SetQuad(tris, t, vMid+g.X-1, vMid+g.X, vMid, vMid+1)
			vMid++
		}
		t = SetQuad(tris, t, vMid+g.X-1, vMax+1, vMid, vMax)
		vMin--
		vMid++
		vMax++
	}

	vTop := vMin - 1
	t = SetQuad(tris, t, vTop+1, vTop, vTop+2, vMid)
	for x := 1; x < g.X-1; x++ {
		t = SetQuad(tris, t, vTop, vTop-1, vMid, vMid+1)
		vTop--
		vMid++
	}
	return SetQuad(tris, t, vTop, vTop-1, vMid, vTop-2)
}

// ringOffset returns the position of border point (x, z) within a layer ring.
func ringOffset(g CubeGrid, x, z int) int {
	switch {
	case z == 0:
		return x
	case x == g.X:
		return g.X + z
	case z == g.Z:
		return g.X + g.Z + (g.X - x)
	default: // x == 0
		return 2*g.X + g.Z + (g.Z - z)
	}
}

// capVertexIndex resolves a cap lattice point (x, z) to its vertex index by
// lookup. top selects the y=max cap.
func capVertexIndex(g CubeGrid, top bool, x, z int) int {
	ring := g.Ring()
	if x == 0 || z == 0 || x == g.X || z == g.Z {
		if top {
			return ring*g.Y + ringOffset(g, x, z)
		}
		return ringOffset(g, x, z)
	}
	interior := (z-1)*(g.X-1) + (x - 1)
	topStart := ring * (g.Y + 1)
	if top {
		return topStart + interior
	}
	return topStart + (g.X-1)*(g.Z-1) + interior
}

// createTopFaceLattice emits the same quads as CreateTopFace by lattice
// lookup; it also covers grids with a single cell along X or Z.
func createTopFaceLattice(g CubeGrid, tris []uint32, t int) int {
	for z := 0; z < g.Z; z++ {
		for x := 0; x < g.X; x++ {
			t = SetQuad(tris, t,
				capVertexIndex(g, true, x, z),
				capVertexIndex(g, true, x+1, z),
				capVertexIndex(g, true, x, z+1),
				capVertexIndex(g, true, x+1, z+1))
		}
	}
	return t
}

// createBottomFaceLattice is the lookup counterpart of CreateBottomFace.
func createBottomFaceLattice(g CubeGrid, tris []uint32, t int) int {
	for z := 0; z < g.Z; z++ {
		for x := 0; x < g.X; x++ {
			t = SetQuad(tris, t,
				capVertexIndex(g, false, x, z+1),
				capVertexIndex(g, false, x+1, z+1),
				capVertexIndex(g, false, x, z),
				capVertexIndex(g, false, x+1, z))
		}
	}
	return t
}
