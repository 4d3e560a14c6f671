package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/esimov/ascii-fountain/config"
	"github.com/esimov/ascii-fountain/detector"
	"github.com/esimov/ascii-fountain/fountain"
	"github.com/esimov/ascii-fountain/terminal"
	"github.com/esimov/ascii-fountain/websocket"
)

// statsEvery is the number of frames between two log lines in headless mode.
const statsEvery = 100

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalln(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg)
	if err != nil && !errors.Is(err, fountain.ErrQuit) && !errors.Is(err, context.Canceled) {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sim := fountain.NewSimulation(cfg.Options(fountain.NewSource(cfg.Seed)))
	actions := make(chan fountain.Action, 16)
	errc := make(chan error, 2)

	var sinks []func(fountain.Frame)

	if cfg.Serve {
		// Left nil when no cascade is given, which disables face tracking.
		var tracker websocket.FaceTracker
		if cfg.Cascade != "" {
			det, err := detector.Load(cfg.Cascade)
			if err != nil {
				return err
			}
			tracker = det
			log.Printf("[DETECT] face tracking enabled with %s", cfg.Cascade)
		}

		hub := websocket.NewHub()
		srv, err := websocket.New(websocket.HttpParams{
			Address: cfg.Address,
			Prefix:  cfg.Prefix,
			Root:    cfg.Root,
		}, hub, actions, tracker)
		if err != nil {
			return err
		}
		sinks = append(sinks, hub.Publish)
		go func() { errc <- srv.Run(ctx) }()
	}

	if cfg.Headless {
		sinks = append(sinks, func(f fountain.Frame) {
			if f.Seq%statsEvery == 0 {
				log.Printf("[SIM] frame %d: %d/%d visible, emitter (%.1f, %.1f)",
					f.Seq, len(f.Points), f.Capacity, f.Emitter.X(), f.Emitter.Z())
			}
		})
	} else {
		logfile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logfile.Close()
		log.SetOutput(logfile)
		defer log.SetOutput(os.Stderr)

		term := terminal.New(actions)
		if err := term.Open(); err != nil {
			return err
		}
		defer term.Close()
		defer term.Interrupt()

		sinks = append(sinks, term.Draw)
		go func() { errc <- term.Listen(ctx) }()
	}

	loop := &fountain.Loop{
		Sim:      sim,
		Interval: cfg.Tick,
		Actions:  actions,
		Frames:   cfg.Frames,
		OnFrame: func(f fountain.Frame) {
			for _, sink := range sinks {
				sink(f)
			}
		},
	}

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case err := <-done:
		return err
	case err := <-errc:
		cancel()
		<-done
		return err
	}
}
