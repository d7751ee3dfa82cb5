package config

import (
	"classscan/pkg/classpath"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains the logging setup, the classpath to scan, the filter rules
// applied to discovered names and the metrics output.
type Config struct {
	// Environment specifies the current running environment (development, production)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// Log contains logger related configurations
	Log struct {
		// Level overrides the environment's default log level (debug, info, warn, error)
		Level string `env:"LOG_LEVEL" yaml:"level"`
	} `yaml:"log"`

	// Classpath lists the directories and jar archives namespaces are resolved against, in lookup order.
	// The env form is split on the host list separator (':' or ';'), like a Java classpath.
	Classpath PathList `env:"SCANNER_CLASSPATH" yaml:"classpath"`

	// Filter contains the include/exclude rules applied to discovered names
	Filter struct {
		// Include holds regular expressions a name must fully match to be accepted
		Include []string `env:"SCANNER_INCLUDE" env-separator:";" yaml:"include"`
		// Exclude holds regular expressions that reject every name they fully match
		Exclude []string `env:"SCANNER_EXCLUDE" env-separator:";" yaml:"exclude"`
		// NoDefault drops the default include rule that accepts every name
		NoDefault bool `env:"SCANNER_NO_DEFAULT_FILTER" env-default:"false" yaml:"noDefault"`
	} `yaml:"filter"`

	// Metrics contains the scan metrics output configuration
	Metrics struct {
		// Enabled writes scanner metrics in Prometheus text format after each command
		Enabled bool `env:"METRICS_ENABLED" env-default:"false" yaml:"enabled"`
		// Output is the file metrics are written to; "-" means standard error
		Output string `env:"METRICS_OUTPUT" env-default:"-" yaml:"output"`
	} `yaml:"metrics"`
}

// PathList is a classpath read from a yaml list or from a single string
// joined by the host list separator.
type PathList []string

// SetValue implements cleanenv.Setter.
func (p *PathList) SetValue(s string) error {
	*p = classpath.Split(s)

	return nil
}

// Load receives the path for yaml config file and returns a filled Config struct.
// Environment variables override file values. An empty path reads the
// environment only.
func Load(configPath string) (*Config, error) {
	var cfg Config

	var err error
	if configPath == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(configPath, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
