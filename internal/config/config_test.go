package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finance-ratios/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Full config file",
			configPath: "testdata/config.yaml",
			wantError:  false,
		},
		{
			name:       "Example config file",
			configPath: filepath.Join("..", "..", constants.ExampleConfigFile),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Data.Path != "data/financial_statements.csv" || !config.Data.Clean {
		t.Errorf("Data = %+v, expected path and clean set", config.Data)
	}
	if config.Benchmarks.Path != "data/industry_benchmarks.json" {
		t.Errorf("Benchmarks.Path = %s, expected data/industry_benchmarks.json", config.Benchmarks.Path)
	}
	if config.Analysis.PeriodScale != "quarterly" || !config.Analysis.ExtendedRatios {
		t.Errorf("Analysis = %+v, expected quarterly with extended ratios", config.Analysis)
	}
	if len(config.Analysis.Companies) != 2 {
		t.Errorf("Analysis.Companies = %v, expected 2 entries", config.Analysis.Companies)
	}
	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("Logging = %+v, expected debug console", config.Logging)
	}
	if config.Output.Format != "markdown" || config.Output.Directory != "reports" || !config.Output.Charts {
		t.Errorf("Output = %+v, expected markdown to reports with charts", config.Output)
	}
	if len(config.Output.Formats) != 2 || config.Output.DecimalPlaces != 2 {
		t.Errorf("Output = %+v, expected two extra formats and 2 decimals", config.Output)
	}
	if config.Report.Title != "Quarterly Review" || config.Report.IncludeWarnings {
		t.Errorf("Report = %+v, expected custom title without warnings", config.Report)
	}
	if !config.Email.Enabled || config.Email.Address() != "smtp.example.com:2525" {
		t.Errorf("Email = %+v, expected enabled on smtp.example.com:2525", config.Email)
	}
	if len(config.Email.To) != 2 {
		t.Errorf("Email.To = %v, expected 2 recipients", config.Email.To)
	}
	if config.Schedule.Cron != "0 6 * * 1" {
		t.Errorf("Schedule.Cron = %q, expected \"0 6 * * 1\"", config.Schedule.Cron)
	}
	if config.Store.Path != "data/store" {
		t.Errorf("Store.Path = %s, expected data/store", config.Store.Path)
	}
}

func TestLoadConfigurationFromReaderDefaults(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(`
data:
  path: statements.csv
benchmarks:
  path: benchmarks.json
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if config.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %s, expected %s", config.Output.Format, constants.OutputFormatPretty)
	}
	if config.Output.DecimalPlaces != constants.DefaultDecimalPlaces {
		t.Errorf("Output.DecimalPlaces = %d, expected %d", config.Output.DecimalPlaces, constants.DefaultDecimalPlaces)
	}
	if config.Analysis.PeriodScale != "annual" {
		t.Errorf("Analysis.PeriodScale = %s, expected annual", config.Analysis.PeriodScale)
	}
	if config.Report.Title != constants.DefaultReportTitle || !config.Report.IncludeWarnings {
		t.Errorf("Report = %+v, expected default title with warnings", config.Report)
	}
	if config.Email.SMTPPort != constants.DefaultSMTPPort || config.Email.PasswordEnv != constants.DefaultPasswordEnv {
		t.Errorf("Email = %+v, expected default port and password variable", config.Email)
	}
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		errPart string
	}{
		{
			name:    "Missing data path",
			yaml:    "benchmarks:\n  path: b.json\n",
			errPart: "Path",
		},
		{
			name:    "Unknown output format",
			yaml:    "data:\n  path: d.csv\nbenchmarks:\n  path: b.json\noutput:\n  format: docx\n",
			errPart: "Format",
		},
		{
			name:    "Unknown period scale",
			yaml:    "data:\n  path: d.csv\nbenchmarks:\n  path: b.json\nanalysis:\n  periodScale: monthly\n",
			errPart: "PeriodScale",
		},
		{
			name:    "Email enabled without host",
			yaml:    "data:\n  path: d.csv\nbenchmarks:\n  path: b.json\nemail:\n  enabled: true\n  from: a@example.com\n",
			errPart: "SMTPHost",
		},
		{
			name:    "Invalid recipient",
			yaml:    "data:\n  path: d.csv\nbenchmarks:\n  path: b.json\nemail:\n  to: [not-an-address]\n",
			errPart: "To",
		},
		{
			name:    "Malformed YAML",
			yaml:    "data: [\n",
			errPart: "error reading config data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigurationFromReader(strings.NewReader(tt.yaml))
			if err == nil {
				t.Fatal("LoadConfigurationFromReader() expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("LoadConfigurationFromReader() error = %v, expected mention of %s", err, tt.errPart)
			}
		})
	}
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	t.Setenv("FINANCE_RATIOS_OUTPUT_FORMAT", "json")

	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Output.Format != "json" {
		t.Errorf("Output.Format = %s, expected the environment override json", config.Output.Format)
	}
}

func TestLoadConfigurationDotEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	contents := "data:\n  path: d.csv\nbenchmarks:\n  path: b.json\nemail:\n  passwordEnv: RATIOS_DOTENV_PASSWORD\n"
	if err := os.WriteFile(configPath, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("RATIOS_DOTENV_PASSWORD=s3cret\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("RATIOS_DOTENV_PASSWORD") })

	config, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if got := config.Email.Password(); got != "s3cret" {
		t.Errorf("Password() = %q, expected the value from .env", got)
	}
}

func TestSelectsCompany(t *testing.T) {
	all := AnalysisConfig{}
	some := AnalysisConfig{Companies: []string{"1", "3"}}

	if !all.SelectsCompany("7") {
		t.Error("SelectsCompany() with no list should select every company")
	}
	if !some.SelectsCompany("3") || some.SelectsCompany("2") {
		t.Error("SelectsCompany() should select only listed companies")
	}
}
