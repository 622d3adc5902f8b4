package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultJoinCommand = "join_mock_targets"

	DefaultJobIDsFile  = "jobids_loaddb.txt"
	DefaultAllCatsFile = "all_dr3_cats.out"
	DefaultRemainFile  = "remaining_cats.txt"
	DefaultLogDir      = "."
	DefaultMarker      = "Commitedload"
)

// MockJoinConfig configures the mock target/truth joiner.
type MockJoinConfig struct {
	JoinCommand []string
	OutDir      string
	Overwrite   bool
}

// CatalogsConfig configures the remaining-catalog finder.
type CatalogsConfig struct {
	JobIDs      string
	AllCats     string
	Remain      string
	LogDir      string
	Marker      string
	MetricsFile string
}

type fileMockJoin struct {
	JoinCommand []string `toml:"join_command"`
	OutDir      string   `toml:"outdir"`
	Overwrite   bool     `toml:"overwrite"`
}

type fileCatalogs struct {
	JobIDs      string `toml:"jobids"`
	AllCats     string `toml:"all_cats"`
	Remain      string `toml:"remain"`
	LogDir      string `toml:"logdir"`
	Marker      string `toml:"marker"`
	MetricsFile string `toml:"metrics_file"`
}

func DefaultMockJoinConfig() MockJoinConfig {
	return MockJoinConfig{JoinCommand: []string{DefaultJoinCommand}}
}

func DefaultCatalogsConfig() CatalogsConfig {
	return CatalogsConfig{
		JobIDs:  DefaultJobIDsFile,
		AllCats: DefaultAllCatsFile,
		Remain:  DefaultRemainFile,
		LogDir:  DefaultLogDir,
		Marker:  DefaultMarker,
	}
}

// LoadMockJoinConfig applies the keys defined in path over the defaults.
// An empty path returns the defaults.
func LoadMockJoinConfig(path string) (MockJoinConfig, error) {
	cfg := DefaultMockJoinConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileMockJoin
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return MockJoinConfig{}, fmt.Errorf("load mockjoin config (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return MockJoinConfig{}, fmt.Errorf("mockjoin config (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("join_command") {
		cfg.JoinCommand = normalizeCommand(raw.JoinCommand)
	}
	if meta.IsDefined("outdir") {
		cfg.OutDir = strings.TrimSpace(raw.OutDir)
	}
	if meta.IsDefined("overwrite") {
		cfg.Overwrite = raw.Overwrite
	}

	if err := ValidateMockJoinConfig(cfg); err != nil {
		return MockJoinConfig{}, err
	}
	return cfg, nil
}

// LoadCatalogsConfig applies the keys defined in path over the defaults.
// An empty path returns the defaults.
func LoadCatalogsConfig(path string) (CatalogsConfig, error) {
	cfg := DefaultCatalogsConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileCatalogs
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return CatalogsConfig{}, fmt.Errorf("load remainingcats config (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return CatalogsConfig{}, fmt.Errorf("remainingcats config (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("jobids") {
		cfg.JobIDs = strings.TrimSpace(raw.JobIDs)
	}
	if meta.IsDefined("all_cats") {
		cfg.AllCats = strings.TrimSpace(raw.AllCats)
	}
	if meta.IsDefined("remain") {
		cfg.Remain = strings.TrimSpace(raw.Remain)
	}
	if meta.IsDefined("logdir") {
		cfg.LogDir = strings.TrimSpace(raw.LogDir)
	}
	if meta.IsDefined("marker") {
		cfg.Marker = raw.Marker
	}
	if meta.IsDefined("metrics_file") {
		cfg.MetricsFile = strings.TrimSpace(raw.MetricsFile)
	}

	if err := ValidateCatalogsConfig(cfg); err != nil {
		return CatalogsConfig{}, err
	}
	return cfg, nil
}

func ValidateMockJoinConfig(cfg MockJoinConfig) error {
	if len(cfg.JoinCommand) == 0 {
		return fmt.Errorf("mockjoin config missing join_command")
	}
	return nil
}

func ValidateCatalogsConfig(cfg CatalogsConfig) error {
	if cfg.JobIDs == "" {
		return fmt.Errorf("remainingcats config missing jobids")
	}
	if cfg.AllCats == "" {
		return fmt.Errorf("remainingcats config missing all_cats")
	}
	if cfg.Remain == "" {
		return fmt.Errorf("remainingcats config missing remain")
	}
	if cfg.LogDir == "" {
		return fmt.Errorf("remainingcats config missing logdir")
	}
	if cfg.Marker == "" {
		return fmt.Errorf("remainingcats config missing marker")
	}
	return nil
}

func normalizeCommand(in []string) []string {
	out := make([]string, 0, len(in))
	for _, part := range in {
		v := strings.TrimSpace(part)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
