package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"netflix-pin-relay/internal/models"

	"gopkg.in/yaml.v2"
)

// Environment variables carrying the credentials. The config file holds only
// non-secret tunables; all three of these are required at startup.
const (
	EnvToken    = "TOKEN"
	EnvLogin    = "EMAIL"
	EnvPassword = "PASSWORD"
)

const (
	defaultImap          = "imap.gmail.com:993"
	defaultMailBox       = "INBOX"
	defaultTargetFrom    = "info@account.netflix.com"
	defaultVerifySubject = "temporary access code"
	defaultSignInSubject = "sign-in code"
	defaultSearchWindow  = 24 * time.Hour
)

// Load reads the optional YAML file, applies environment overrides for the
// credentials and validates that nothing required is missing. A non-existent
// file is not an error; defaults cover everything except the credentials.
func Load(filepath string) (*models.Config, error) {
	config := defaults()

	raw, err := os.ReadFile(filepath)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(raw, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath, err)
		}
	}

	if v := os.Getenv(EnvToken); v != "" {
		config.Discord.Token = v
	}
	if v := os.Getenv(EnvLogin); v != "" {
		config.Email.Login = v
	}
	if v := os.Getenv(EnvPassword); v != "" {
		config.Email.Password = v
	}

	if missing := missingCredentials(config); len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return config, nil
}

func defaults() *models.Config {
	return &models.Config{
		Email: models.EmailConfig{
			Imap:    defaultImap,
			MailBox: defaultMailBox,
		},
		TargetFrom:    defaultTargetFrom,
		VerifySubject: defaultVerifySubject,
		SignInSubject: defaultSignInSubject,
		SearchWindow:  defaultSearchWindow,
	}
}

func missingCredentials(config *models.Config) []string {
	var missing []string
	if config.Discord.Token == "" {
		missing = append(missing, EnvToken)
	}
	if config.Email.Login == "" {
		missing = append(missing, EnvLogin)
	}
	if config.Email.Password == "" {
		missing = append(missing, EnvPassword)
	}
	return missing
}
