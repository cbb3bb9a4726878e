package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"planetmesh/internal/config"
	"planetmesh/internal/pipeline"
	"planetmesh/internal/stream"
	"planetmesh/pkg/preset"
)

func main() {
	var (
		settingsPath = flag.String("settings", "planetmesh.json", "generation settings file")
		addr         = flag.String("addr", ":8080", "listen address")
		presetDir    = flag.String("presets", "presets", "directory of preset JSON files")
		builders     = flag.Int("builders", 2, "concurrent mesh builds")
		queue        = flag.Int("queue", 16, "pending build requests before clients see busy errors")
		maxSubdiv    = flag.Int("max-subdivisions", 6, "largest octahedron subdivision a client may request")
		maxGrid      = flag.Int("max-grid", 64, "largest cube sphere or box edge a client may request")
	)
	flag.Parse()

	if err := config.LoadSettings(*settingsPath); err != nil {
		log.Fatal(err)
	}

	loader := preset.NewLoader(*presetDir)
	names, err := loader.List()
	if err != nil {
		log.Printf("presets: %v", err)
	}
	log.Printf("serving %d presets from %s", len(names), *presetDir)

	pool := pipeline.NewWorkerPool(*builders, *queue)
	defer pool.Shutdown()

	h := stream.NewHandler(pool, loader)
	h.MaxSubdivisions = *maxSubdiv
	h.MaxGridSize = *maxGrid

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("listening on %s", *addr)
	if err := h.ListenAndServe(ctx, *addr); err != nil {
		log.Fatal(err)
	}
	log.Print("shut down")
}
