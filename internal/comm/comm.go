// Package comm owns the distributed coordination context handed to
// delegated work.
//
// A nil *World means the run is not distributed. Every method accepts a
// nil receiver so callers never branch on it.
package comm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvRank = "SURVEYCTL_RANK"
	EnvSize = "SURVEYCTL_SIZE"
)

// World is the process view of the launcher's communicator.
type World struct {
	Rank   int
	Size   int
	Source string
}

type envPair struct {
	rank string
	size string
}

// Launchers in lookup order. The first pair whose rank variable is set wins.
var launcherEnv = []envPair{
	{rank: EnvRank, size: EnvSize},
	{rank: "OMPI_COMM_WORLD_RANK", size: "OMPI_COMM_WORLD_SIZE"},
	{rank: "PMIX_RANK", size: "PMIX_SIZE"},
	{rank: "PMI_RANK", size: "PMI_SIZE"},
	{rank: "SLURM_PROCID", size: "SLURM_NTASKS"},
}

// Init establishes the world from the process environment.
func Init() (*World, error) {
	return FromLookup(os.LookupEnv)
}

// FromLookup establishes the world using lookup for environment access.
// With no launcher variables present the process is a singleton world.
func FromLookup(lookup func(string) (string, bool)) (*World, error) {
	for _, pair := range launcherEnv {
		rawRank, ok := lookup(pair.rank)
		if !ok || strings.TrimSpace(rawRank) == "" {
			continue
		}
		rank, err := parseNonNegative(pair.rank, rawRank)
		if err != nil {
			return nil, err
		}
		size := rank + 1
		if rawSize, ok := lookup(pair.size); ok && strings.TrimSpace(rawSize) != "" {
			size, err = parseNonNegative(pair.size, rawSize)
			if err != nil {
				return nil, err
			}
		}
		if size < 1 || rank >= size {
			return nil, fmt.Errorf("comm: rank %d out of range for size %d (%s)", rank, size, pair.rank)
		}
		return &World{Rank: rank, Size: size, Source: pair.rank}, nil
	}
	return &World{Rank: 0, Size: 1, Source: "singleton"}, nil
}

func parseNonNegative(name, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("comm: parse %s: %w", name, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("comm: %s must be non-negative, got %d", name, v)
	}
	return v, nil
}

// IsPrimary reports whether this process coordinates the run.
func (w *World) IsPrimary() bool {
	return w == nil || w.Rank == 0
}

// Distributed reports whether a coordination context exists.
func (w *World) Distributed() bool {
	return w != nil
}

// Env returns the variables that describe the world to a child process.
func (w *World) Env() []string {
	if w == nil {
		return nil
	}
	return []string{
		EnvRank + "=" + strconv.Itoa(w.Rank),
		EnvSize + "=" + strconv.Itoa(w.Size),
	}
}

func (w *World) String() string {
	if w == nil {
		return "none"
	}
	return fmt.Sprintf("%d/%d", w.Rank, w.Size)
}
