//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"gol-node/internal/app"
	"gol-node/internal/bus"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	bctx := bus.NewContext(bus.Options{Output: os.Stderr})
	viewer, err := app.NewViewer(bctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	spun := make(chan error, 1)
	go func() { spun <- bctx.Spin(ctx) }()

	w, h := viewer.Size()
	ebiten.SetWindowTitle("gol-node: game of life")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w*cfg.Scale, h*cfg.Scale)

	runErr := ebiten.RunGame(viewer)
	cancel()
	if err := <-spun; err != nil {
		log.Print(err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatal(runErr)
	}
}
