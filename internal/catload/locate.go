package catload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNoLogFile        = errors.New("catload: no log file for job id")
	ErrTooManyLogFiles  = errors.New("catload: too many files for job id")
	ErrAmbiguousLogFile = errors.New("catload: cannot tell log file from catalog list")
)

// catListMarker marks files derived from a log rather than the log itself.
const catListMarker = "_cat"

// Locator maps a job id to its log file.
type Locator func(jobID string) (string, error)

// DirLocator finds the log file among the non-hidden entries of dir whose
// name contains the job id.
func DirLocator(dir string) Locator {
	return func(jobID string) (string, error) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf("catload: list %s: %w", dir, err)
		}
		var matches []string
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, ".") || !strings.Contains(name, jobID) {
				continue
			}
			matches = append(matches, filepath.Join(dir, name))
		}
		path, err := SelectLogFile(matches)
		if err != nil {
			return "", fmt.Errorf("job %s: %w", jobID, err)
		}
		return path, nil
	}
}

// SelectLogFile picks the log file from the files matching one job id.
// With two matches the one carrying the _cat marker is skipped.
func SelectLogFile(matches []string) (string, error) {
	switch len(matches) {
	case 0:
		return "", ErrNoLogFile
	case 1:
		return matches[0], nil
	case 2:
		first := strings.Contains(filepath.Base(matches[0]), catListMarker)
		second := strings.Contains(filepath.Base(matches[1]), catListMarker)
		switch {
		case first && !second:
			return matches[1], nil
		case second && !first:
			return matches[0], nil
		default:
			return "", fmt.Errorf("%w: %s", ErrAmbiguousLogFile, strings.Join(matches, ", "))
		}
	default:
		return "", fmt.Errorf("%w: %d matches", ErrTooManyLogFiles, len(matches))
	}
}
