package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/surveyctl/internal/comm"
	"github.com/danmuck/surveyctl/internal/config"
	"github.com/danmuck/surveyctl/internal/logging"
	"github.com/danmuck/surveyctl/internal/mockjoin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	configPath string
	flags      mockjoin.Flags
}

type joinerFactory func(command []string) mockjoin.Joiner

func defaultJoiner(command []string) mockjoin.Joiner {
	return mockjoin.NewCommandJoiner(command)
}

func newRootCmd(newJoiner joinerFactory, newLogger func() zerolog.Logger) *cobra.Command {
	opts := &cliOptions{}
	cmd := &cobra.Command{
		Use:   "mockjoin",
		Short: "Join per-pixel mock target and truth tables into summary tables",
		Long: `Resolves the mock directory, output directory and overwrite policy and
hands them to the external join command. With --mpi the launcher's
communicator is picked up before anything else is initialized.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, newJoiner, newLogger)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.flags.MockDir, "mockdir", "", "input mock directory")
	f.StringVar(&opts.flags.OutDir, "outdir", "", "output directory (default: --mockdir)")
	f.BoolVar(&opts.flags.Force, "force", false, "deprecated alias for --overwrite")
	f.BoolVar(&opts.flags.Overwrite, "overwrite", false, "overwrite existing outputs")
	f.BoolVar(&opts.flags.MPI, "mpi", false, "run under the launcher's communicator")
	f.StringVar(&opts.configPath, "config", "", "optional mockjoin TOML config")
	_ = cmd.MarkFlagRequired("mockdir")
	return cmd
}

func run(cmd *cobra.Command, opts *cliOptions, newJoiner joinerFactory, newLogger func() zerolog.Logger) error {
	// The communicator comes first so the launcher sees this rank as live
	// before config and joiner setup.
	var world *comm.World
	if opts.flags.MPI {
		w, err := comm.Init()
		if err != nil {
			return err
		}
		world = w
	}

	logger := newLogger()
	if world.Distributed() {
		logger = logger.With().Int("rank", world.Rank).Logger()
	}

	cfg, err := config.LoadMockJoinConfig(opts.configPath)
	if err != nil {
		return err
	}
	flags := opts.flags
	if !cmd.Flags().Changed("outdir") {
		flags.OutDir = cfg.OutDir
	}
	if !cmd.Flags().Changed("overwrite") {
		flags.Overwrite = cfg.Overwrite
	}

	resolved, err := mockjoin.Resolve(flags, world, logger)
	if err != nil {
		return err
	}
	return mockjoin.Run(cmd.Context(), newJoiner(cfg.JoinCommand), resolved, logger)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newLogger := func() zerolog.Logger {
		logging.ConfigureRuntime()
		return logging.New("mockjoin")
	}
	if err := newRootCmd(defaultJoiner, newLogger).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mockjoin: %v\n", err)
		stop()
		os.Exit(1)
	}
}
