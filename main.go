package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lost-woods/dice/src/config"
	"github.com/lost-woods/dice/src/dice"
	"github.com/lost-woods/dice/src/history"
	"github.com/lost-woods/dice/src/logging"
	"github.com/lost-woods/dice/src/metrics"
	"github.com/lost-woods/dice/src/rng"
	"github.com/lost-woods/dice/src/roller"
	"github.com/lost-woods/dice/src/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("DICE_CONFIG"), "path to an optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) error {
	src, err := rng.Open(cfg.RNGOptions())
	if err != nil {
		return fmt.Errorf("opening %s entropy source: %w", cfg.RNG.Source, err)
	}
	defer src.Close()

	m, err := metrics.New(cfg.Metrics.StatsdAddr, cfg.Metrics.Namespace)
	if err != nil {
		return err
	}
	defer m.Close()

	specs := cfg.Dice.Initial
	if cfg.Server.Mode == config.ModeDemo && len(specs) == 0 {
		specs = config.DemoDice
	}
	dr, err := buildRoller(cfg, specs, src.Reader, m, log)
	if err != nil {
		return err
	}

	if cfg.Server.Mode == config.ModeDemo {
		return demo(dr)
	}

	if src.Kind == rng.KindSerial {
		go rng.PeriodicHealthCheck(ctx, src.Reader, src.Health, cfg.RNG.HealthInterval)
	}

	s := server.New(server.Options{Addr: cfg.Server.Addr(), APIKey: cfg.Server.APIKey},
		roller.NewHandle(dr), src.Reader, src.Health, log)
	return s.Run(ctx)
}

func buildRoller(cfg config.Config, specs []string, src rng.Reader, m metrics.Client, log *zap.SugaredLogger) (*roller.DiceRoller, error) {
	ds := make([]dice.Die, 0, len(specs))
	for _, spec := range specs {
		d, err := dice.Parse(spec)
		if err != nil {
			return nil, err
		}
		ds = append(ds, d)
	}

	return roller.New(ds, history.New(cfg.History.Capacity),
		roller.WithSource(src),
		roller.WithLogger(log),
		roller.WithMetrics(m),
		roller.WithDir(cfg.History.Dir),
	), nil
}

// demo loads the saved rolls, rolls three times, saves and shows the last ten.
func demo(dr *roller.DiceRoller) error {
	if _, err := dr.LoadRollsFromFile(roller.DefaultFileName); err != nil {
		return err
	}
	if _, err := dr.RollMultipleTimes(3); err != nil {
		return err
	}
	if err := dr.SaveRollsToFile(roller.DefaultFileName); err != nil {
		return err
	}
	dr.DisplayLastRolls(10)
	return nil
}
