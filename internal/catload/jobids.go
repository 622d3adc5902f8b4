package catload

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadJobIDs returns the value after the last '=' of each non-blank line.
func ReadJobIDs(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ids = append(ids, line[strings.LastIndex(line, "=")+1:])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("catload: read job ids: %w", err)
	}
	return ids, nil
}

func ReadJobIDsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catload: open job ids: %w", err)
	}
	defer f.Close()
	return ReadJobIDs(f)
}
