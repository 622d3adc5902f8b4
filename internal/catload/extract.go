package catload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CacheSuffix is appended to a log file name to name its extracted list.
const CacheSuffix = "_cats"

// catalogField is the 1-based space-delimited field holding the catalog path
// on a marker line.
const catalogField = 4

const maxLogLine = 4 * 1024 * 1024

func CachePath(logPath string) string {
	return logPath + CacheSuffix
}

// ExtractCatalogs writes the catalog field of every line in r containing
// marker to w, one per line, and returns the count.
func ExtractCatalogs(r io.Reader, w io.Writer, marker string) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLine)
	bw := bufio.NewWriter(w)
	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, marker) {
			continue
		}
		if _, err := bw.WriteString(cutField(line, catalogField) + "\n"); err != nil {
			return n, err
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

// cutField returns the nth single-space-delimited field. A line without the
// delimiter is returned whole; a missing field is empty.
func cutField(line string, n int) string {
	if !strings.Contains(line, " ") {
		return line
	}
	fields := strings.Split(line, " ")
	if len(fields) < n {
		return ""
	}
	return fields[n-1]
}

// ensureCache extracts logPath into its cache file unless one already
// exists. It reports whether an existing cache was reused.
func ensureCache(logPath, marker string) (string, bool, int, error) {
	cachePath := CachePath(logPath)
	_, err := os.Stat(cachePath)
	if err == nil {
		return cachePath, true, 0, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", false, 0, fmt.Errorf("catload: stat cache: %w", err)
	}

	in, err := os.Open(logPath)
	if err != nil {
		return "", false, 0, fmt.Errorf("catload: open log: %w", err)
	}
	defer in.Close()

	var n int
	err = writeFileAtomic(cachePath, func(w io.Writer) error {
		var extractErr error
		n, extractErr = ExtractCatalogs(in, w, marker)
		return extractErr
	})
	if err != nil {
		return "", false, 0, fmt.Errorf("catload: extract %s: %w", logPath, err)
	}
	return cachePath, false, n, nil
}

// writeFileAtomic renames a fully written hidden temp file onto path.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".catload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
