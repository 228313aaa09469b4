// Package cmd implements the joltsat command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crillab/joltsat/cache"
	"github.com/crillab/joltsat/events"
	"github.com/crillab/joltsat/lights"
	"github.com/crillab/joltsat/machine"
	"github.com/crillab/joltsat/metrics"
	"github.com/crillab/joltsat/press"
)

type config struct {
	part        string
	strategy    string
	workers     int
	maxModels   int
	timeout     time.Duration
	cacheDir    string
	metricsFile string
	natsURL     string
	natsSubject string
	verbose     bool
	logFormat   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfg config
	root := &cobra.Command{
		Use:   "joltsat [input file]",
		Short: "Computes the minimal number of button presses configuring factory machines",
		Long: `joltsat reads one machine per line, such as

  [.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}

and prints the minimal total number of presses bringing every machine to its
joltage requirements (part 2), or turning on its indicator lights (part 1).`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return errMissingInput
			case len(args) > 1:
				return invalidInvocationf("expected a single input file, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cfg.run(cmd.Context(), args[0], stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return invalidInvocationf("%v", err)
	})
	flags := root.Flags()
	flags.StringVar(&cfg.part, "part", "2", "part of the puzzle to solve: 1, 2 or all")
	flags.StringVar(&cfg.strategy, "strategy", press.Minimize.String(), "how to find the minimal number of presses: minimize or enumerate")
	flags.IntVar(&cfg.workers, "workers", 1, "number of machines solved concurrently")
	flags.IntVar(&cfg.maxModels, "max-models", 0, "maximal number of assignments visited per machine by the enumerate strategy (0: no limit)")
	flags.DurationVar(&cfg.timeout, "timeout", 0, "maximal duration of the run (0: no limit)")
	flags.StringVar(&cfg.cacheDir, "cache-dir", "", "directory of the result cache (disabled if empty)")
	flags.StringVar(&cfg.metricsFile, "metrics-file", "", "file the metrics are written to after the run, in the node exporter textfile format")
	flags.StringVar(&cfg.natsURL, "nats-url", "", "NATS server results are published to (disabled if empty)")
	flags.StringVar(&cfg.natsSubject, "nats-subject", events.DefaultSubject, "subject results are published on")
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "sets verbose mode on")
	flags.StringVar(&cfg.logFormat, "log-format", "console", "format of the logs: console or json")
	return root
}

// Run executes the command line args and returns the exit code of the process.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	var inv *InvocationError
	if errors.As(err, &inv) {
		if inv == errMissingInput {
			fmt.Fprintln(stdout, inv.Message)
		} else {
			fmt.Fprintf(stderr, "%s\n%s", inv.Message, root.UsageString())
		}
		return inv.ExitCode
	}
	fmt.Fprintf(stderr, "joltsat: %v\n", err)
	return ExitFailure
}

func (cfg *config) run(ctx context.Context, path string, stdout, stderr io.Writer) error {
	part1, part2, err := parts(cfg.part)
	if err != nil {
		return err
	}
	strategy, err := press.ParseStrategy(cfg.strategy)
	if err != nil {
		return invalidInvocationf("%v", err)
	}
	log, err := newLogger(cfg.logFormat, cfg.verbose, stderr)
	if err != nil {
		return err
	}
	defer log.Sync()
	run := uuid.NewString()
	log = log.With(zap.String("run", run))
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	machines, err := machine.ParseFile(path)
	if err != nil {
		return err
	}
	log.Debug("input parsed", zap.String("path", path), zap.Int("machines", len(machines)))
	if part1 {
		total, err := lights.Total(ctx, machines, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Part 1: %d\n", total)
	}
	if !part2 {
		return nil
	}
	var store cache.Store = cache.NopStore{}
	if cfg.cacheDir != "" {
		bs, err := cache.Open(cfg.cacheDir)
		if err != nil {
			return err
		}
		store = bs
	}
	defer store.Close()
	pub := events.Dial(cfg.natsURL, log)
	defer pub.Close()
	rec := metrics.New()
	s := press.Solver{
		Strategy:  strategy,
		MaxModels: cfg.maxModels,
		Workers:   cfg.workers,
		Cache:     store,
		Metrics:   rec,
		Events:    pub,
		Subject:   cfg.natsSubject,
		Run:       run,
		Log:       log,
	}
	sum, err := s.Total(ctx, machines)
	if cfg.metricsFile != "" {
		if err := rec.WriteTextfile(cfg.metricsFile); err != nil {
			log.Warn("metrics not written", zap.Error(err))
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Part 2: %d\n", sum.Total)
	return nil
}

// parts tells which parts of the puzzle the --part flag selects.
func parts(flag string) (part1, part2 bool, err error) {
	switch flag {
	case "1":
		return true, false, nil
	case "2":
		return false, true, nil
	case "all":
		return true, true, nil
	default:
		return false, false, invalidInvocationf("invalid part %q, expected 1, 2 or all", flag)
	}
}
