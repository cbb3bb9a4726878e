package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical viewer action, not a physical key
type Action int

// Action constants using iota
const (
	ActionOrbitLeft Action = iota
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown
	ActionZoomIn
	ActionZoomOut
	ActionMoreDetail
	ActionLessDetail
	ActionNextTopology
	ActionReseed
	ActionToggleTerrain
	ActionToggleWireframe
	ActionToggleColliders
	ActionCycleShading
	ActionToggleProfiling
	ActionExport
	ActionQuit
	ActionMouseDrag
	ActionModShift
	ActionCount // Sentinel value for array sizing
)

// InputManager manages keyboard and mouse input state and maps physical keys/buttons to logical actions
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Mouse button to action mapping
	mouseButtonToActions map[glfw.MouseButton][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Previous frame state (for edge detection)
	prevState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool

	// Cursor movement and scroll accumulated since the last PostUpdate
	cursorX, cursorY float64
	cursorValid      bool
	dragDX, dragDY   float64
	scroll           float64
}

// NewInputManager creates a new InputManager with default key bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[glfw.Key][]Action),
		mouseButtonToActions: make(map[glfw.MouseButton][]Action),
	}

	// Set default key bindings
	im.BindKey(glfw.KeyA, ActionOrbitLeft)
	im.BindKey(glfw.KeyLeft, ActionOrbitLeft)
	im.BindKey(glfw.KeyD, ActionOrbitRight)
	im.BindKey(glfw.KeyRight, ActionOrbitRight)
	im.BindKey(glfw.KeyW, ActionOrbitUp)
	im.BindKey(glfw.KeyUp, ActionOrbitUp)
	im.BindKey(glfw.KeyS, ActionOrbitDown)
	im.BindKey(glfw.KeyDown, ActionOrbitDown)
	im.BindKey(glfw.KeyE, ActionZoomIn)
	im.BindKey(glfw.KeyQ, ActionZoomOut)
	im.BindKey(glfw.KeyEqual, ActionMoreDetail)
	im.BindKey(glfw.KeyKPAdd, ActionMoreDetail)
	im.BindKey(glfw.KeyMinus, ActionLessDetail)
	im.BindKey(glfw.KeyKPSubtract, ActionLessDetail)
	im.BindKey(glfw.KeyT, ActionNextTopology)
	im.BindKey(glfw.KeyR, ActionReseed)
	im.BindKey(glfw.KeyN, ActionToggleTerrain)
	im.BindKey(glfw.KeyF, ActionToggleWireframe)
	im.BindKey(glfw.KeyC, ActionToggleColliders)
	im.BindKey(glfw.KeyM, ActionCycleShading)
	im.BindKey(glfw.KeyV, ActionToggleProfiling)
	im.BindKey(glfw.KeyX, ActionExport)
	im.BindKey(glfw.KeyEscape, ActionQuit)

	// Set default mouse button bindings
	im.BindMouseButton(glfw.MouseButtonLeft, ActionMouseDrag)

	// Set default modifier key bindings
	im.BindKey(glfw.KeyLeftShift, ActionModShift)
	im.BindKey(glfw.KeyRightShift, ActionModShift)

	return im
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action (e.g., WASD and arrow keys)
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key glfw.Key) {
	im.mu.Lock()
	defer im.mu.Unlock()

	delete(im.keyToActions, key)
}

// BindMouseButton binds a mouse button to a logical action
func (im *InputManager) BindMouseButton(button glfw.MouseButton, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

// UnbindMouseButton removes all action bindings for a mouse button
func (im *InputManager) UnbindMouseButton(button glfw.MouseButton) {
	im.mu.Lock()
	defer im.mu.Unlock()

	delete(im.mouseButtonToActions, button)
}

// HandleKeyEvent processes a key event and updates internal state
// This can be called from a custom key callback
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.RLock()
	actions, exists := im.keyToActions[key]
	im.mu.RUnlock()

	if !exists {
		return
	}

	isPressed := action == glfw.Press || action == glfw.Repeat

	im.mu.Lock()
	for _, act := range actions {
		if act >= 0 && act < ActionCount {
			// Detect edges immediately when event arrives
			if isPressed && !im.currentState[act] {
				im.justPressed[act] = true
			}
			if !isPressed && im.currentState[act] {
				im.justReleased[act] = true
			}
			im.currentState[act] = isPressed
		}
	}
	im.mu.Unlock()
}

// HandleMouseButtonEvent processes a mouse button event and updates internal state
// This can be called from a custom mouse button callback
func (im *InputManager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	im.mu.RLock()
	actions, exists := im.mouseButtonToActions[button]
	im.mu.RUnlock()

	if !exists {
		return
	}

	isPressed := action == glfw.Press

	im.mu.Lock()
	for _, act := range actions {
		if act >= 0 && act < ActionCount {
			// Detect edges immediately when event arrives
			if isPressed && !im.currentState[act] {
				im.justPressed[act] = true
			}
			if !isPressed && im.currentState[act] {
				im.justReleased[act] = true
			}
			im.currentState[act] = isPressed
		}
	}
	im.mu.Unlock()
}

// HandleCursorEvent records cursor motion. Motion only counts as a drag
// while ActionMouseDrag is held.
func (im *InputManager) HandleCursorEvent(x, y float64) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if im.cursorValid && im.currentState[ActionMouseDrag] {
		im.dragDX += x - im.cursorX
		im.dragDY += y - im.cursorY
	}
	im.cursorX, im.cursorY = x, y
	im.cursorValid = true
}

// HandleScrollEvent accumulates vertical scroll.
func (im *InputManager) HandleScrollEvent(yoff float64) {
	im.mu.Lock()
	defer im.mu.Unlock()

	im.scroll += yoff
}

// Drag returns the cursor movement while dragging during this frame.
func (im *InputManager) Drag() (dx, dy float64) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.dragDX, im.dragDY
}

// Scroll returns the scroll amount received during this frame.
func (im *InputManager) Scroll() float64 {
	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.scroll
}

// SetCallbacks installs key, mouse, cursor and scroll callbacks on window.
func (im *InputManager) SetCallbacks(window *glfw.Window) {
	im.SetKeyCallback(window)
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleMouseButtonEvent(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		im.HandleCursorEvent(xpos, ypos)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		im.HandleScrollEvent(yoff)
	})
}

// SetKeyCallback sets up the GLFW key callback for this input manager
// This should be called once during initialization
func (im *InputManager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
}

// PostUpdate must be called at the end of each frame to update edge detection states
// This should be called after all input checks are done
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	// Reset edge flags and update prev state
	for i := range ActionCount {
		im.justPressed[i] = false
		im.justReleased[i] = false
		im.prevState[i] = im.currentState[i]
	}
	im.dragDX, im.dragDY = 0, 0
	im.scroll = 0
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justReleased[action]
}
