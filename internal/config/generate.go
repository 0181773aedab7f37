package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrConfigExists is returned by Generate when the target file is already present.
var ErrConfigExists = errors.New("config file already exists")

const referenceConfig = `# Time of day (HH:MM:SS, local to timezone) before which no notifications go out.
earliest_notification_time: 07:00:00

# IANA timezone for the notification window and "today"; defaults to the host zone.
# timezone: America/Toronto

# Team ids come from the stats feed's /teams endpoint. Numbers are E.164.
subscriptions:
  - team: 10
    numbers:
      - "+15555555555"
  - team: 8
    numbers:
      - "+15555555555"
      - "+15555555556"
`

// Generate writes a reference config file into dir and returns its path.
func Generate(dir string) (string, error) {
	path := filepath.Join(dir, DefaultConfigFile)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteString(referenceConfig); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
