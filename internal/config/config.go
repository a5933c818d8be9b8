// Package config loads application configuration from flags, environment
// variables, an optional .env file and an optional YAML config file.
package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. TABATA_LOG_FILE
const EnvPrefix = "TABATA"

// Flag names double as viper keys and YAML keys
const (
	KeyConfigFile    = "config"
	KeySettingsFile  = "settings-file"
	KeyLogFile       = "log-file"
	KeyLogMaxSizeMB  = "log-max-size-mb"
	KeyLogMaxBackups = "log-max-backups"
	KeyListenAddr    = "listen-addr"
	KeyWarningWindow = "warning-window"
	KeyTickInterval  = "tick-interval"
	KeyAudio         = "audio"
	KeyVolume        = "volume"
	KeySampleRate    = "sample-rate"
)

// Config represents the application configuration.
type Config struct {
	SettingsFile  string        `mapstructure:"settings-file"`
	LogFile       string        `mapstructure:"log-file" default:"tabata.log" validate:"required"`
	LogMaxSizeMB  int           `mapstructure:"log-max-size-mb" default:"10" validate:"gt=0"`
	LogMaxBackups int           `mapstructure:"log-max-backups" default:"3" validate:"gte=0"`
	ListenAddr    string        `mapstructure:"listen-addr" default:":8080" validate:"required"`
	WarningWindow int           `mapstructure:"warning-window" default:"3" validate:"gte=1,lte=10"`
	TickInterval  time.Duration `mapstructure:"tick-interval" default:"1s" validate:"gt=0"`
	Audio         bool          `mapstructure:"audio" default:"true"`
	Volume        float64       `mapstructure:"volume" default:"0" validate:"gte=-10,lte=2"`
	SampleRate    int           `mapstructure:"sample-rate" default:"44100" validate:"gte=8000,lte=192000"`
}

var configValidator = validator.New()

// Default returns the configuration used when nothing overrides it
func Default() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks field bounds
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return errors.Wrap(err, "config validation failed")
	}
	return nil
}

// RegisterFlags adds every configuration flag to flags
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String(KeyConfigFile, "", "path to a YAML config file")
	flags.String(KeySettingsFile, d.SettingsFile, "workout settings file (default: user config dir)")
	flags.String(KeyLogFile, d.LogFile, "log file path")
	flags.Int(KeyLogMaxSizeMB, d.LogMaxSizeMB, "rotate the log file after this many megabytes")
	flags.Int(KeyLogMaxBackups, d.LogMaxBackups, "number of rotated log files to keep")
	flags.String(KeyListenAddr, d.ListenAddr, "HTTP listen address")
	flags.Int(KeyWarningWindow, d.WarningWindow, "seconds before a phase ends that get a warning beep")
	flags.Duration(KeyTickInterval, d.TickInterval, "length of one timer second")
	flags.Bool(KeyAudio, d.Audio, "play audio cues")
	flags.Float64(KeyVolume, d.Volume, "volume adjustment, base 2 (0 = unchanged, -1 = half)")
	flags.Int(KeySampleRate, d.SampleRate, "audio sample rate")
}

// Load resolves the configuration. Precedence, highest first: flags set on
// the command line, environment variables (a .env file in the working
// directory is loaded first, without overriding the real environment),
// the config file, and defaults.
func Load(flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrap(err, "failed to load .env")
	}
	return load(flags)
}

func load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, errors.Wrap(err, "failed to bind flags")
	}

	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
