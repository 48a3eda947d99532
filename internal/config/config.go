// Package config loads run settings from an optional YAML file plus
// environment variables. Credentials only ever come from the environment;
// a .env file is honored when present.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultTrackerHost = "https://dev.azure.com"

// Config is the full run configuration.
type Config struct {
	Tracker  TrackerConfig  `yaml:"tracker"`
	Run      RunConfig      `yaml:"run"`
	Advisory AdvisoryConfig `yaml:"advisory"`
	Output   OutputConfig   `yaml:"output"`
}

// TrackerConfig locates the work item tracker. PAT is environment-only and
// never read from YAML.
type TrackerConfig struct {
	Host         string `yaml:"host"`
	Organization string `yaml:"organization"`
	Project      string `yaml:"project"`
	PAT          string `yaml:"-"`
}

// RunConfig controls batch assessment behavior.
type RunConfig struct {
	Workers     int `yaml:"workers"`
	TrendWindow int `yaml:"trend_window"`
}

// AdvisoryConfig controls the LLM advisory gate.
type AdvisoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"-"`
}

// OutputConfig controls persistence and export targets.
type OutputConfig struct {
	DBPath  string `yaml:"db_path"`
	CSVPath string `yaml:"csv_path"`
}

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then environment variables on top. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Tracker: TrackerConfig{Host: defaultTrackerHost},
		Run:     RunConfig{Workers: 4, TrendWindow: 3},
		Output:  OutputConfig{DBPath: "data/storyscope.db"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.Run.Workers < 1 {
		cfg.Run.Workers = 1
	}
	if cfg.Tracker.Host == "" {
		cfg.Tracker.Host = defaultTrackerHost
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("AZURE_ORG")); v != "" {
		cfg.Tracker.Organization = v
	}
	if v := strings.TrimSpace(os.Getenv("AZURE_PROJECT")); v != "" {
		cfg.Tracker.Project = v
	}
	cfg.Tracker.PAT = strings.TrimSpace(os.Getenv("AZURE_PAT"))
	cfg.Advisory.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
}

// TrackerBaseURL returns the project-scoped tracker root.
func (c *Config) TrackerBaseURL() string {
	return fmt.Sprintf("%s/%s/%s",
		strings.TrimSuffix(c.Tracker.Host, "/"),
		c.Tracker.Organization, c.Tracker.Project)
}

// ValidateTracker reports the missing tracker settings a fetch run needs.
func (c *Config) ValidateTracker() error {
	var missing []string
	if c.Tracker.Organization == "" {
		missing = append(missing, "organization (AZURE_ORG)")
	}
	if c.Tracker.Project == "" {
		missing = append(missing, "project (AZURE_PROJECT)")
	}
	if c.Tracker.PAT == "" {
		missing = append(missing, "PAT (AZURE_PAT)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tracker settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
