package models

import "time"

// Config represents the application configuration
type Config struct {
	Discord       DiscordConfig `yaml:"discord"`
	Email         EmailConfig   `yaml:"email"`
	TargetFrom    string        `yaml:"targetFrom"`
	VerifySubject string        `yaml:"verifySubject"`
	SignInSubject string        `yaml:"signinSubject"`
	SearchWindow  time.Duration `yaml:"searchWindow"`
}

// DiscordConfig represents the Discord bot credentials
type DiscordConfig struct {
	Token string `yaml:"token"`
}

// EmailConfig represents IMAP email configuration
type EmailConfig struct {
	Imap     string `yaml:"imap"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	MailBox  string `yaml:"mailbox"`
}
