package catload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// Reconciler computes the catalogs still to be loaded.
type Reconciler struct {
	Locate Locator
	Marker string
	Stdout io.Writer
	Logger zerolog.Logger
}

// Result summarizes one reconciliation.
type Result struct {
	JobIDs      []string
	CacheFiles  []string
	CacheReused int
	All         int
	Loaded      int
	// Remaining holds the stripped output lines in master list order.
	Remaining []string
}

// Run reads the job ids, extracts or reuses each job's committed catalog
// list, and writes allCatsPath minus the loaded catalogs to remainPath.
func (r *Reconciler) Run(jobIDsPath, allCatsPath, remainPath string) (Result, error) {
	var res Result
	out := r.Stdout
	if out == nil {
		out = io.Discard
	}

	ids, err := ReadJobIDsFile(jobIDsPath)
	if err != nil {
		return res, err
	}
	res.JobIDs = ids

	for _, id := range ids {
		logPath, err := r.Locate(id)
		if err != nil {
			return res, err
		}
		cachePath, reused, n, err := ensureCache(logPath, r.Marker)
		if err != nil {
			return res, err
		}
		if reused {
			res.CacheReused++
			r.Logger.Info().Str("job", id).Str("cache", cachePath).Msg("previously wrote loaded catalog list")
		} else {
			r.Logger.Info().Str("job", id).Str("cache", cachePath).Int("catalogs", n).Msg("wrote loaded catalog list")
		}
		res.CacheFiles = append(res.CacheFiles, cachePath)
	}

	loaded := make(map[string]struct{})
	for _, path := range res.CacheFiles {
		lines, err := readRawLinesFile(path)
		if err != nil {
			return res, err
		}
		for _, line := range lines {
			loaded[line] = struct{}{}
		}
	}

	all, err := readRawLinesFile(allCatsPath)
	if err != nil {
		return res, err
	}

	// Comparison is on raw lines, terminators included. Stripping happens
	// only on output.
	seen := make(map[string]struct{}, len(all))
	var remain []string
	for _, line := range all {
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		if _, ok := loaded[line]; !ok {
			remain = append(remain, line)
		}
	}
	res.All = len(seen)
	res.Loaded = len(loaded)

	fmt.Fprintf(out, "all=%d, loaded=%d, remain=%d\n", res.All, res.Loaded, len(remain))

	if err := os.Remove(remainPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("catload: remove %s: %w", remainPath, err)
	}
	res.Remaining = make([]string, 0, len(remain))
	for _, line := range remain {
		res.Remaining = append(res.Remaining, strings.TrimRightFunc(line, unicode.IsSpace))
	}
	if err := writeLines(remainPath, res.Remaining); err != nil {
		return res, fmt.Errorf("catload: write %s: %w", remainPath, err)
	}
	fmt.Fprintf(out, "wrote %d remaining catalogs to %s\n", len(res.Remaining), remainPath)
	return res, nil
}

// readRawLines returns every line of r with its terminator kept.
func readRawLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func readRawLinesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catload: open %s: %w", path, err)
	}
	defer f.Close()
	lines, err := readRawLines(f)
	if err != nil {
		return nil, fmt.Errorf("catload: read %s: %w", path, err)
	}
	return lines, nil
}

func writeLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
