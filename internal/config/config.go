package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DeletePolicy selects what happens when a folder with children is deleted.
type DeletePolicy string

const (
	// DeletePolicyRestrict refuses to delete a folder that still has children.
	DeletePolicyRestrict DeletePolicy = "restrict"
	// DeletePolicyOrphan deletes only the folder, leaving children pointing
	// at a nonexistent parent.
	DeletePolicyOrphan DeletePolicy = "orphan"
	// DeletePolicyCascade deletes the folder and its whole subtree.
	DeletePolicyCascade DeletePolicy = "cascade"
)

// ParseDeletePolicy validates a policy string.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case DeletePolicyRestrict, DeletePolicyOrphan, DeletePolicyCascade:
		return DeletePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown delete policy %q (want restrict, orphan, or cascade)", s)
	}
}

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string

	// Folder subsystem settings, overridable via the settings file
	DeletePolicy        DeletePolicy
	StoreTimeout        time.Duration
	MaxTitleLength      int
	MaxSearchTermLength int
}

// Settings is the optional YAML overlay (ARBOR_SETTINGS file). Only the
// fields present in the file override the environment defaults.
type Settings struct {
	DeletePolicy        string `yaml:"delete_policy"`
	StoreTimeout        string `yaml:"store_timeout"`
	MaxTitleLength      int    `yaml:"max_title_length"`
	MaxSearchTermLength int    `yaml:"max_search_term_length"`
	CORSOrigins         string `yaml:"cors_origins"`
}

// Load builds the configuration from environment variables, then applies the
// YAML settings file named by ARBOR_SETTINGS if one is set.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "dev"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWKSURL:             getEnv("JWKS_URL", ""),
		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:3000"),
		DeletePolicy:        DeletePolicyRestrict,
		StoreTimeout:        5 * time.Second,
		MaxTitleLength:      255,
		MaxSearchTermLength: 128,
	}

	if policy := os.Getenv("DELETE_POLICY"); policy != "" {
		parsed, err := ParseDeletePolicy(policy)
		if err != nil {
			return nil, err
		}
		cfg.DeletePolicy = parsed
	}

	if path := os.Getenv("ARBOR_SETTINGS"); path != "" {
		if err := cfg.applySettingsFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applySettingsFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return fmt.Errorf("parse settings file: %w", err)
	}

	if settings.DeletePolicy != "" {
		policy, err := ParseDeletePolicy(settings.DeletePolicy)
		if err != nil {
			return err
		}
		c.DeletePolicy = policy
	}
	if settings.StoreTimeout != "" {
		timeout, err := time.ParseDuration(settings.StoreTimeout)
		if err != nil {
			return fmt.Errorf("parse store_timeout: %w", err)
		}
		c.StoreTimeout = timeout
	}
	if settings.MaxTitleLength > 0 {
		c.MaxTitleLength = settings.MaxTitleLength
	}
	if settings.MaxSearchTermLength > 0 {
		c.MaxSearchTermLength = settings.MaxSearchTermLength
	}
	if settings.CORSOrigins != "" {
		c.CORSOrigins = settings.CORSOrigins
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
