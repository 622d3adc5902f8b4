package main

import (
	"fmt"
	"io"
	"os"

	"github.com/danmuck/surveyctl/internal/catload"
	"github.com/danmuck/surveyctl/internal/config"
	"github.com/danmuck/surveyctl/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	configPath string
	cfg        config.CatalogsConfig
}

func newRootCmd(stdout io.Writer, logger zerolog.Logger) *cobra.Command {
	opts := &cliOptions{cfg: config.DefaultCatalogsConfig()}
	cmd := &cobra.Command{
		Use:   "remainingcats",
		Short: "List catalogs not yet committed to the database",
		Long: `Scans the loader job logs named in --jobids for committed catalogs,
caching each job's list next to its log as <log>_cats, and writes the
catalogs of --all_cats that no job reported to --remain.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cfg, stdout, logger)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.cfg.JobIDs, "jobids", config.DefaultJobIDsFile, "file of loader job ids, one key=value per line")
	f.StringVar(&opts.cfg.AllCats, "all_cats", config.DefaultAllCatsFile, "master list of catalog files")
	f.StringVar(&opts.cfg.Remain, "remain", config.DefaultRemainFile, "output list of catalogs still to load")
	f.StringVar(&opts.cfg.LogDir, "logdir", config.DefaultLogDir, "directory holding the job logs")
	f.StringVar(&opts.cfg.Marker, "marker", config.DefaultMarker, "log token marking a committed catalog")
	f.StringVar(&opts.cfg.MetricsFile, "metrics-file", "", "write prometheus textfile metrics to this path")
	f.StringVar(&opts.configPath, "config", "", "optional remainingcats TOML config")
	return cmd
}

// resolveConfig layers explicitly set flags over the config file.
func resolveConfig(cmd *cobra.Command, opts *cliOptions) (config.CatalogsConfig, error) {
	cfg, err := config.LoadCatalogsConfig(opts.configPath)
	if err != nil {
		return config.CatalogsConfig{}, err
	}
	f := cmd.Flags()
	overrides := []struct {
		flag string
		dst  *string
		src  string
	}{
		{"jobids", &cfg.JobIDs, opts.cfg.JobIDs},
		{"all_cats", &cfg.AllCats, opts.cfg.AllCats},
		{"remain", &cfg.Remain, opts.cfg.Remain},
		{"logdir", &cfg.LogDir, opts.cfg.LogDir},
		{"marker", &cfg.Marker, opts.cfg.Marker},
		{"metrics-file", &cfg.MetricsFile, opts.cfg.MetricsFile},
	}
	for _, o := range overrides {
		if f.Changed(o.flag) {
			*o.dst = o.src
		}
	}
	if err := config.ValidateCatalogsConfig(cfg); err != nil {
		return config.CatalogsConfig{}, err
	}
	return cfg, nil
}

func run(cfg config.CatalogsConfig, stdout io.Writer, logger zerolog.Logger) error {
	r := &catload.Reconciler{
		Locate: catload.DirLocator(cfg.LogDir),
		Marker: cfg.Marker,
		Stdout: stdout,
		Logger: logger,
	}
	res, err := r.Run(cfg.JobIDs, cfg.AllCats, cfg.Remain)
	if err != nil {
		return err
	}
	if cfg.MetricsFile != "" {
		if err := catload.WriteMetrics(cfg.MetricsFile, res); err != nil {
			return err
		}
		logger.Debug().Str("path", cfg.MetricsFile).Msg("wrote metrics")
	}
	return nil
}

func main() {
	logging.ConfigureRuntime()
	logger := logging.New("remainingcats")
	if err := newRootCmd(os.Stdout, logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "remainingcats: %v\n", err)
		os.Exit(1)
	}
}
