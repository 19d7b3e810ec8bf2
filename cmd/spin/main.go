// Command spin runs one spin of the weapon wheel in the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"weaponwheel/internal/lib/logger"
	"weaponwheel/internal/wheel"
	"weaponwheel/pkg/realtime"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "spin:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("spin", flag.ContinueOnError)
	fs.SetOutput(out)
	seed := fs.Uint64("seed", 0, "seed for a reproducible start offset (0 = random)")
	optionsPath := fs.String("options", "", "YAML option table (default: built-in weapons)")
	instant := fs.Bool("instant", false, "skip the animation delays")
	quiet := fs.Bool("quiet", false, "print only the winner")
	logLevel := fs.String("log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logger.New(logger.Config{Env: logger.EnvLocal, Level: *logLevel, App: "spin"})
	defer func() { _ = log.Sync() }()

	options, err := wheel.LoadOptions(*optionsPath)
	if err != nil {
		return err
	}
	engine, err := wheel.New(options)
	if err != nil {
		return err
	}

	rng := wheel.DefaultRNG()
	if *seed != 0 {
		rng = wheel.NewSeededRNG(*seed)
	}

	var sched realtime.Scheduler = realtime.TimerScheduler{}
	manual := realtime.NewManualScheduler()
	if *instant {
		sched = manual
	}

	done := make(chan wheel.Result, 1)
	sp := wheel.NewSpinner(engine,
		wheel.WithScheduler(sched),
		wheel.WithRandomSource(rng),
		wheel.WithLogger(log),
		wheel.WithRenderer(func(f wheel.Frame) {
			if *quiet {
				return
			}
			under, _ := wheel.ResolveWinner(wheel.State{Rotation: f.Rotation}, options)
			fmt.Fprintf(out, "\r[%2d/%d] %6.1f° %-4s", f.Step+1, f.Total, f.Rotation, under.Label)
		}),
		wheel.WithCompletion(func(r wheel.Result) { done <- r }),
	)

	if !*quiet {
		fmt.Fprintln(out, "Spinning...")
	}
	if _, err := sp.Spin(); err != nil {
		return err
	}
	if *instant {
		manual.RunAll()
	}
	res := <-done

	log.Debug("spin result", zap.String("winner", res.Option.Label), zap.Float64("rotation", res.Rotation))
	if !*quiet {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Your Weapon: %s\n", res.Option.Label)
	if res.Option.Message != "" {
		fmt.Fprintln(out, res.Option.Message)
	}
	return nil
}
