package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/surface-tension-go/internal/config"
	"github.com/olivierh59500/surface-tension-go/internal/headless"
	"github.com/olivierh59500/surface-tension-go/internal/preset"
	"github.com/olivierh59500/surface-tension-go/internal/stream"
	"github.com/olivierh59500/surface-tension-go/internal/term"
)

func main() {
	hc, err := config.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	sim, err := hc.NewSimulation()
	if err != nil {
		log.Fatal(err)
	}
	if hc.SavePreset != "" {
		if err := preset.Save(hc.SavePreset, sim.Config()); err != nil {
			log.Fatal(err)
		}
		log.Printf("preset written to %s", hc.SavePreset)
	}

	switch hc.Mode {
	case "window":
		game := NewGame(sim)
		ebiten.SetWindowSize(int(hc.Width), int(hc.Height))
		ebiten.SetWindowTitle("Surface Tension")
		ebiten.SetTPS(hc.TPS)
		if err := ebiten.RunGame(game); err != nil {
			log.Fatal(err)
		}

	case "term":
		p := tea.NewProgram(term.New(sim, hc.TPS), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatal(err)
		}

	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := stream.Serve(ctx, sim, hc.Addr, hc.TPS)
		stop()
		if err != nil {
			log.Fatal(err)
		}

	case "headless":
		report := headless.Run(sim, hc.Steps, hc.LogEvery)
		os.Stdout.WriteString(report.Plot() + "\n")
	}
}
