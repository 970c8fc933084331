package config

import (
	"fmt"

	"github.com/genweave/genweave/logger"
)

// SchedulerConfig is the configuration surface consumed by the scheduler.
type SchedulerConfig struct {
	// Workers bounds concurrent task execution. Absent or zero means
	// strictly sequential.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// Transitive selects the prerequisite closure of Target instead of the
	// full batch.
	Transitive bool `yaml:"transitive" mapstructure:"transitive"`
	// Target roots the transitive slice.
	Target string `yaml:"target" mapstructure:"target"`
	// Skip drops a prefix of the computed order before dispatch.
	Skip int `yaml:"skip" mapstructure:"skip"`
	// BlockOnFailure skips dependents of failed tasks instead of running
	// them against missing upstream artifacts.
	BlockOnFailure bool `yaml:"block_on_failure" mapstructure:"block_on_failure"`
}

// Validate validates scheduler configuration.
func (c *SchedulerConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("scheduler.workers must be >= 0 (got: %d)", c.Workers)
	}
	if c.Skip < 0 {
		return fmt.Errorf("scheduler.skip must be >= 0 (got: %d)", c.Skip)
	}
	if c.Transitive && c.Target == "" {
		return fmt.Errorf("scheduler.target is required when scheduler.transitive is set")
	}
	return nil
}

// GeneratorConfig locates the batch definition and template sources.
type GeneratorConfig struct {
	// BatchFile is the YAML batch definition.
	BatchFile string `yaml:"batch_file" mapstructure:"batch_file"`
	// TemplatesDir is the root directory for template lookup.
	TemplatesDir string `yaml:"templates_dir" mapstructure:"templates_dir"`
}

// ApplyDefaults applies default values to generator configuration.
func (c *GeneratorConfig) ApplyDefaults() {
	if c.BatchFile == "" {
		c.BatchFile = "genweave.yml"
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = "templates"
	}
}

// ManifestConfig configures the audit sink.
type ManifestConfig struct {
	// Path is the JSON-lines manifest file. Empty disables the sink.
	Path string `yaml:"path" mapstructure:"path"`
}

// Settings is the root configuration for a genweave run.
type Settings struct {
	Name        string          `yaml:"name" mapstructure:"name"`
	Environment string          `yaml:"environment" mapstructure:"environment"`
	Debug       bool            `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config   `yaml:"logging" mapstructure:"logging"`
	Scheduler   SchedulerConfig `yaml:"scheduler" mapstructure:"scheduler"`
	Generator   GeneratorConfig `yaml:"generator" mapstructure:"generator"`
	Manifest    ManifestConfig  `yaml:"manifest" mapstructure:"manifest"`
}

// ApplyDefaults applies default values to the settings.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = "genweave"
	}
	if s.Environment == "" {
		s.Environment = "development"
	}
	if s.Environment == "development" {
		s.Debug = true
	}
	s.Logging.ApplyDefaults()
	s.Generator.ApplyDefaults()
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if s.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("environment must be one of [development, staging, production] (got: %s)", s.Environment)
	}
	if err := s.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := s.Scheduler.Validate(); err != nil {
		return err
	}
	return nil
}
