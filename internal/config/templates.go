package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "mockjoin":
		return mockJoinTemplate, nil
	case "remainingcats":
		return catalogsTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o644)
}

// Validate loads path as a config of the given kind.
func Validate(path, kind string) error {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "mockjoin":
		_, err := LoadMockJoinConfig(path)
		return err
	case "remainingcats":
		_, err := LoadCatalogsConfig(path)
		return err
	default:
		return fmt.Errorf("unknown config kind: %s", kind)
	}
}

const mockJoinTemplate = `# external command performing the target/truth join
join_command = ["join_mock_targets"]

# outdir defaults to --mockdir when empty
outdir = ""
overwrite = false
`

const catalogsTemplate = `jobids = "jobids_loaddb.txt"
all_cats = "all_dr3_cats.out"
remain = "remaining_cats.txt"
logdir = "."
marker = "Commitedload"

# prometheus textfile output, disabled when empty
metrics_file = ""
`
