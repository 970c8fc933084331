package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides, e.g.
// GENWEAVE_SCHEDULER_WORKERS=4.
const envPrefix = "GENWEAVE"

// FileSystem abstracts file operations so loading is testable.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit settings file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// defaultConfigPaths are searched in order when no explicit file is given.
var defaultConfigPaths = []string{
	"./genweave.settings.yml",
	"./config/genweave.yml",
	"./config.yml",
}

// Load reads settings from file and environment, applies defaults and
// validates the result.
func Load(opts ...LoaderOption) (*Settings, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	configFile := lc.ConfigFile
	if configFile == "" {
		for _, path := range defaultConfigPaths {
			if lc.FileSystem.Exists(path) {
				configFile = path
				break
			}
		}
	}

	envFile := lc.EnvFile
	if envFile == "" && lc.FileSystem.Exists(".env") {
		envFile = ".env"
	}
	if envFile != "" && lc.FileSystem.Exists(envFile) {
		if err := lc.FileSystem.LoadEnv(envFile); err != nil {
			return nil, fmt.Errorf("config: loading env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &s, nil
}

// bindEnvKeys registers every settings key with viper so AutomaticEnv picks
// it up even when the key is absent from the config file.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"name", "environment", "debug",
		"logging.level", "logging.format", "logging.output",
		"scheduler.workers", "scheduler.transitive", "scheduler.target",
		"scheduler.skip", "scheduler.block_on_failure",
		"generator.batch_file", "generator.templates_dir",
		"manifest.path",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
