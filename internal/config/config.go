package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ts2427/breachstudy/internal/dataset"
)

type Config struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Validation ValidationConfig `yaml:"validation"`
	Dataset    DatasetConfig    `yaml:"dataset"`
	Database   DatabaseConfig   `yaml:"database"`
}

type ClassifierConfig struct {
	// TaxonomyPath points to a yaml keyword taxonomy; empty means the
	// built-in study taxonomy.
	TaxonomyPath          string `yaml:"taxonomy_path"`
	HighSeverityThreshold int    `yaml:"high_severity_threshold"`
	Workers               int    `yaml:"workers"`
}

type ValidationConfig struct {
	ExcellentF1 float64 `yaml:"excellent_f1"`
	GoodF1      float64 `yaml:"good_f1"`
	SampleSize  int     `yaml:"sample_size"`
	SampleSeed  int64   `yaml:"sample_seed"`
}

type DatasetConfig struct {
	Columns dataset.Columns `yaml:"columns"`
}

type DatabaseConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {

		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {

	if c.Classifier.HighSeverityThreshold == 0 {
		c.Classifier.HighSeverityThreshold = 7
	}
	if c.Classifier.Workers == 0 {
		c.Classifier.Workers = 1
	}

	if c.Validation.ExcellentF1 == 0 {
		c.Validation.ExcellentF1 = 0.85
	}
	if c.Validation.GoodF1 == 0 {
		c.Validation.GoodF1 = 0.75
	}
	if c.Validation.SampleSize == 0 {
		c.Validation.SampleSize = 100
	}
	if c.Validation.SampleSeed == 0 {
		c.Validation.SampleSeed = 42
	}

	def := dataset.DefaultColumns()
	if c.Dataset.Columns.ID == "" {
		c.Dataset.Columns.ID = def.ID
	}
	if c.Dataset.Columns.IncidentDetails == "" {
		c.Dataset.Columns.IncidentDetails = def.IncidentDetails
	}
	if c.Dataset.Columns.InformationTypes == "" {
		c.Dataset.Columns.InformationTypes = def.InformationTypes
	}
	if c.Dataset.Columns.OrgName == "" {
		c.Dataset.Columns.OrgName = def.OrgName
	}
	if c.Dataset.Columns.OrgType == "" {
		c.Dataset.Columns.OrgType = def.OrgType
	}
	if c.Dataset.Columns.TotalAffected == "" {
		c.Dataset.Columns.TotalAffected = def.TotalAffected
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
}
