package trainer

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/lowaak/tabata-timer/internal/interval"
)

const settingsFileName = "settings.yaml"

// SettingsStore keeps the last applied workout settings on disk
type SettingsStore struct {
	filePath string
	logger   *log.Logger
}

// DefaultSettingsPath is settings.yaml under the user config directory
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate user config directory")
	}
	return filepath.Join(dir, "tabata-timer", settingsFileName), nil
}

func NewSettingsStore(filePath string, logger *log.Logger) *SettingsStore {
	if logger == nil {
		panic("SettingsStore: logger cannot be nil")
	}
	if filePath == "" {
		panic("SettingsStore: filePath cannot be empty")
	}
	return &SettingsStore{filePath: filePath, logger: logger}
}

// Path returns the backing file
func (p *SettingsStore) Path() string {
	return p.filePath
}

// Load reads the stored settings. A missing file yields the defaults; fields
// absent from the file keep their default value.
func (p *SettingsStore) Load() (interval.Settings, error) {
	settings := interval.DefaultSettings()
	raw, err := os.ReadFile(p.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Printf("SettingsStore: load %s (no existing file)", p.filePath)
		return settings, nil
	}
	if err != nil {
		return settings, errors.Wrapf(err, "failed to read %s", p.filePath)
	}
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return interval.DefaultSettings(), errors.Wrapf(err, "failed to parse %s", p.filePath)
	}
	if err := settings.Validate(); err != nil {
		return interval.DefaultSettings(), errors.Wrapf(err, "stored settings in %s", p.filePath)
	}
	p.logger.Printf("SettingsStore: load %s -> %+v", p.filePath, settings)
	return settings, nil
}

// Save writes settings, creating the directory if needed
func (p *SettingsStore) Save(settings interval.Settings) error {
	if err := os.MkdirAll(filepath.Dir(p.filePath), 0755); err != nil {
		return errors.Wrap(err, "failed to create settings directory")
	}
	raw, err := yaml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "failed to marshal settings")
	}
	if err := os.WriteFile(p.filePath, raw, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", p.filePath)
	}
	p.logger.Printf("SettingsStore: save %s -> %+v", p.filePath, settings)
	return nil
}
