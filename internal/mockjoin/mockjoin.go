package mockjoin

import (
	"context"
	"errors"
	"strings"

	"github.com/danmuck/surveyctl/internal/comm"
	"github.com/rs/zerolog"
)

var ErrMissingMockDir = errors.New("mockjoin: mockdir is required")

const forceDeprecation = "--force is deprecated, use --overwrite"

// Flags are the user-facing switches before resolution.
type Flags struct {
	MockDir   string
	OutDir    string
	Force     bool
	Overwrite bool
	MPI       bool
}

// Options is the resolved configuration passed to the join.
type Options struct {
	MockDir   string
	OutDir    string
	Overwrite bool
	// World is nil when the run is not distributed.
	World *comm.World
}

// Joiner performs the target/truth join.
type Joiner interface {
	Join(ctx context.Context, opts Options) error
}

type JoinerFunc func(ctx context.Context, opts Options) error

func (f JoinerFunc) Join(ctx context.Context, opts Options) error {
	return f(ctx, opts)
}

// Resolve turns flags into join options. A deprecated --force emits one
// warning, from the primary rank only.
func Resolve(flags Flags, world *comm.World, logger zerolog.Logger) (Options, error) {
	mockDir := strings.TrimSpace(flags.MockDir)
	if mockDir == "" {
		return Options{}, ErrMissingMockDir
	}
	outDir := strings.TrimSpace(flags.OutDir)
	if outDir == "" {
		outDir = mockDir
	}
	if flags.Force && world.IsPrimary() {
		logger.Warn().Msg(forceDeprecation)
	}
	return Options{
		MockDir:   mockDir,
		OutDir:    outDir,
		Overwrite: flags.Force || flags.Overwrite,
		World:     world,
	}, nil
}

// Run delegates to joiner. Failures are returned unchanged.
func Run(ctx context.Context, joiner Joiner, opts Options, logger zerolog.Logger) error {
	if opts.World.IsPrimary() {
		logger.Info().
			Str("mockdir", opts.MockDir).
			Str("outdir", opts.OutDir).
			Bool("overwrite", opts.Overwrite).
			Stringer("world", opts.World).
			Msg("joining mock targets and truth")
	}
	return joiner.Join(ctx, opts)
}
