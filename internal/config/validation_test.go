package config

import (
	"strings"
	"testing"
)

func TestValidateConfigurationEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		config   Configuration
		expected []string
	}{
		{
			name: "Clean configuration",
			config: Configuration{
				Output: OutputConfig{Format: "pretty"},
			},
			expected: nil,
		},
		{
			name: "Email enabled without recipients",
			config: Configuration{
				Output: OutputConfig{Format: "pretty"},
				Email:  EmailConfig{Enabled: true, SMTPHost: "smtp", From: "a@example.com"},
			},
			expected: []string{"Email is enabled but has no recipients"},
		},
		{
			name: "Charts without a directory",
			config: Configuration{
				Output: OutputConfig{Format: "pretty", Charts: true},
			},
			expected: []string{"Charts are enabled but no output directory is set"},
		},
		{
			name: "Username without password",
			config: Configuration{
				Output: OutputConfig{Format: "pretty"},
				Email: EmailConfig{
					Enabled:     true,
					SMTPHost:    "smtp",
					From:        "a@example.com",
					To:          []string{"b@example.com"},
					Username:    "reports",
					PasswordEnv: "RATIOS_UNSET_PASSWORD_FOR_TEST",
				},
			},
			expected: []string{"Email username is set but RATIOS_UNSET_PASSWORD_FOR_TEST is empty"},
		},
		{
			name: "Schedule without store",
			config: Configuration{
				Output:   OutputConfig{Format: "pretty"},
				Schedule: ScheduleConfig{Cron: "@daily"},
			},
			expected: []string{"Scheduled runs keep results only in memory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.config.ValidateConfiguration()
			if len(warnings) != len(tt.expected) {
				t.Fatalf("ValidateConfiguration() = %v, expected %d warnings", warnings, len(tt.expected))
			}
			for i, prefix := range tt.expected {
				if !strings.HasPrefix(warnings[i], prefix) {
					t.Errorf("warning %d = %q, expected prefix %q", i, warnings[i], prefix)
				}
			}
		})
	}
}

func TestValidateConfigurationValid(t *testing.T) {
	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	t.Setenv("RATIOS_TEST_PASSWORD", "secret")

	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("ValidateConfiguration() = %v, expected no warnings", warnings)
	}
}

func TestEmailConfigDefaults(t *testing.T) {
	t.Setenv("SMTP_PASSWORD", "from-default-env")
	email := EmailConfig{SMTPHost: "mail.example.com"}

	if got := email.Address(); got != "mail.example.com:587" {
		t.Errorf("Address() = %s, expected mail.example.com:587", got)
	}
	if got := email.Password(); got != "from-default-env" {
		t.Errorf("Password() = %s, expected from-default-env", got)
	}
}
