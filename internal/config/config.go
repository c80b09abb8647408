package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// ClubSlug is the club identifier in ZweefApp URLs (e.g. "zcnk").
	ClubSlug string `yaml:"clubSlug" validate:"required"`
	// ClubName appears in member-facing email subjects.
	ClubName     string `yaml:"clubName" validate:"required"`
	AdminBaseURL string `yaml:"adminBaseURL" validate:"required,url"`
	ClubAppURL   string `yaml:"clubAppURL" validate:"required,url"`
	// AppVersion is sent as the Version header on internal API requests.
	AppVersion string `yaml:"appVersion" validate:"required"`
	// StatusURL is the public day-status page referenced in broadcast messages.
	StatusURL string `yaml:"statusURL" validate:"required"`

	// SupersaasCalendarID is the passenger booking schedule on SuperSaaS.
	SupersaasCalendarID int `yaml:"supersaasCalendarID" validate:"required,min=1"`

	GmailUserID string `yaml:"gmailUserID" validate:"required"`
	GmailSender string `yaml:"gmailSender,omitempty"`

	// LookaheadDays bounds how far into the future days are processed.
	// Zero means no bound.
	LookaheadDays int `yaml:"lookaheadDays,omitempty" validate:"omitempty,min=1"`

	// PaceSeconds is the pause between per-day fetches in production mode,
	// to keep load off the shared upstream servers.
	PaceSeconds int `yaml:"paceSeconds,omitempty" validate:"omitempty,min=0"`

	// SkipRules are RRULE expressions for recurring days the bot must leave
	// alone entirely (e.g. winter closure weekends).
	SkipRules []string `yaml:"skipRules,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from zweefbot_config.yaml,
// looking in the current directory first, then in the user's home directory.
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment. env="test" looks
// for "zweefbot_config.test.yaml"; an empty env uses the plain file name.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.SkipRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in skipRules[%d]: %w", i, err)
		}
	}

	return nil
}

// SkipRRules parses the configured skip rules. Validation already ran at
// load time, so errors here mean the config was mutated after loading.
func (c *Config) SkipRRules() ([]*rrule.RRule, error) {
	rules := make([]*rrule.RRule, 0, len(c.SkipRules))
	for i, rule := range c.SkipRules {
		parsed, err := rrule.StrToRRule(rule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in skipRules[%d]: %w", i, err)
		}
		rules = append(rules, parsed)
	}
	return rules, nil
}

// Pace returns the configured inter-day pause as a duration.
func (c *Config) Pace() time.Duration {
	return time.Duration(c.PaceSeconds) * time.Second
}

// findConfigFile searches for the config file in the current directory and
// the home directory.
func findConfigFile(env string) (string, error) {
	configFileName := "zweefbot_config.yaml"
	if env != "" {
		configFileName = "zweefbot_config." + env + ".yaml"
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}

// Secrets holds the credentials read from the environment. A .env file in
// the working directory is honored when present.
type Secrets struct {
	ZweefAPIKey       string
	AdminEmail        string
	AdminPassword     string
	AdminClientSecret string
	SupersaasAPIKey   string
}

// LoadSecrets reads secrets from environment variables, loading .env first
// if one exists.
func LoadSecrets() (*Secrets, error) {
	// Missing .env is fine; the variables may come from the real environment.
	_ = godotenv.Load()

	secrets := &Secrets{
		ZweefAPIKey:       os.Getenv("AUTH_API_KEY"),
		AdminEmail:        os.Getenv("AUTH_ADMIN_EMAIL"),
		AdminPassword:     os.Getenv("AUTH_ADMIN_PASS"),
		AdminClientSecret: os.Getenv("AUTH_ADMIN_SECRET"),
		SupersaasAPIKey:   os.Getenv("SUPERSAAS_PAX_API_KEY"),
	}

	missing := []string{}
	for name, value := range map[string]string{
		"AUTH_API_KEY":          secrets.ZweefAPIKey,
		"AUTH_ADMIN_EMAIL":      secrets.AdminEmail,
		"AUTH_ADMIN_PASS":       secrets.AdminPassword,
		"AUTH_ADMIN_SECRET":     secrets.AdminClientSecret,
		"SUPERSAAS_PAX_API_KEY": secrets.SupersaasAPIKey,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	return secrets, nil
}
