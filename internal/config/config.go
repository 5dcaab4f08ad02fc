// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
)

// Configuration holds all configuration for mortgage-calculator.
type Configuration struct {
	Scenarios []Scenario    `yaml:"scenarios"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// Scenario is one named mortgage to calculate, in the units a borrower uses.
type Scenario struct {
	Name         string  `yaml:"name"`
	Active       bool    `yaml:"active"`
	Amount       float64 `yaml:"amount"`
	Term         int     `yaml:"term"`         // years
	InterestRate float64 `yaml:"interestRate"` // annual percentage, 5.25 = 5.25%
	Type         string  `yaml:"type"`         // repayment, interest only
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Problems that make a scenario impossible to calculate are
// reported as errors by the calculator instead.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(conf.Scenarios) == 0 {
		return append(warnings, "No scenarios configured")
	}

	active := 0
	seen := make(map[string]bool)
	for _, scenario := range conf.Scenarios {
		name := strings.TrimSpace(scenario.Name)
		if name != "" {
			if seen[name] {
				warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", name))
			}
			seen[name] = true
		}

		if !scenario.Active {
			continue
		}
		active++

		// Rates are annual percentages; a value like 0.0525 was probably meant
		// as 5.25 and silently yields a near interest-free loan.
		if scenario.InterestRate > 0 && scenario.InterestRate < 1 {
			warnings = append(warnings, fmt.Sprintf(
				"Scenario '%s' interest rate %.4f%% is below 1%%; rates are annual percentages (5.25 means 5.25%%)",
				scenario.Name, scenario.InterestRate))
		}
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios configured")
	}

	return warnings
}
