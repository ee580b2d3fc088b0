// Package config defines the configuration of a ratio analysis run and
// loads it from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/finance-ratios/pkg/constants"
	"github.com/iwvelando/finance-ratios/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that override configuration
// keys, e.g. FINANCE_RATIOS_OUTPUT_FORMAT.
const EnvPrefix = "FINANCE_RATIOS"

// Configuration holds all configuration for finance-ratios.
type Configuration struct {
	Data       DataConfig       `yaml:"data"`
	Benchmarks BenchmarksConfig `yaml:"benchmarks"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
	Output     OutputConfig     `yaml:"output,omitempty"`
	Report     ReportConfig     `yaml:"report,omitempty"`
	Email      EmailConfig      `yaml:"email,omitempty"`
	Schedule   ScheduleConfig   `yaml:"schedule,omitempty"`
	Store      StoreConfig      `yaml:"store,omitempty"`
}

// DataConfig locates the financial statements CSV.
type DataConfig struct {
	Path  string `yaml:"path" validate:"required"`
	Clean bool   `yaml:"clean,omitempty"` // fill gaps and fix signs before analysis
}

// BenchmarksConfig locates the industry benchmark file.
type BenchmarksConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// AnalysisConfig tunes the ratio engine.
type AnalysisConfig struct {
	PeriodScale    string   `yaml:"periodScale,omitempty" validate:"omitempty,oneof=annual quarterly"`
	ExtendedRatios bool     `yaml:"extendedRatios,omitempty"`
	Companies      []string `yaml:"companies,omitempty"` // empty means all
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"` // debug, info, warn, error
	Format     string `yaml:"format,omitempty" validate:"omitempty,oneof=json console"`                 // json, console
	OutputFile string `yaml:"outputFile,omitempty"`                                                     // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format        string   `yaml:"format,omitempty" validate:"omitempty,oneof=pretty csv json markdown html pdf xlsx"`
	Directory     string   `yaml:"directory,omitempty"`
	Formats       []string `yaml:"formats,omitempty"` // extra formats written to Directory
	Charts        bool     `yaml:"charts,omitempty"`
	DecimalPlaces int      `yaml:"decimalPlaces,omitempty" validate:"min=0,max=10"`
}

// ReportConfig controls report content.
type ReportConfig struct {
	Title           string `yaml:"title,omitempty"`
	IncludeWarnings bool   `yaml:"includeWarnings,omitempty"`
}

// EmailConfig holds SMTP delivery settings. The password is never stored
// in the file; it is read from the environment variable PasswordEnv.
type EmailConfig struct {
	Enabled     bool     `yaml:"enabled,omitempty"`
	SMTPHost    string   `yaml:"smtpHost,omitempty" validate:"required_if=Enabled true"`
	SMTPPort    int      `yaml:"smtpPort,omitempty" validate:"min=0,max=65535"`
	Username    string   `yaml:"username,omitempty"`
	PasswordEnv string   `yaml:"passwordEnv,omitempty"`
	From        string   `yaml:"from,omitempty" validate:"required_if=Enabled true"`
	To          []string `yaml:"to,omitempty" validate:"dive,email"`
}

// ScheduleConfig enables repeated runs.
type ScheduleConfig struct {
	Cron string `yaml:"cron,omitempty"`
}

// StoreConfig enables the persistent analysis store.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Password returns the SMTP password from the environment.
func (e EmailConfig) Password() string {
	name := e.PasswordEnv
	if name == "" {
		name = constants.DefaultPasswordEnv
	}
	return os.Getenv(name)
}

// Address returns the SMTP host:port.
func (e EmailConfig) Address() string {
	port := e.SMTPPort
	if port == 0 {
		port = constants.DefaultSMTPPort
	}
	return fmt.Sprintf("%s:%d", e.SMTPHost, port)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data.path", "")
	v.SetDefault("data.clean", false)
	v.SetDefault("benchmarks.path", "")
	v.SetDefault("analysis.periodScale", "annual")
	v.SetDefault("analysis.extendedRatios", false)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("output.directory", "")
	v.SetDefault("output.charts", false)
	v.SetDefault("output.decimalPlaces", constants.DefaultDecimalPlaces)
	v.SetDefault("report.title", constants.DefaultReportTitle)
	v.SetDefault("report.includeWarnings", true)
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtpPort", constants.DefaultSMTPPort)
	v.SetDefault("email.passwordEnv", constants.DefaultPasswordEnv)
	v.SetDefault("schedule.cron", "")
	v.SetDefault("store.path", "")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. A .env file next to the configuration, if present,
// is loaded into the environment first.
func LoadConfiguration(configPath string) (*Configuration, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading env file %s: %w", envPath, err)
	}

	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
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
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks field constraints and returns the first violation as an
// error naming the offending key.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	v := validation.ConfigValidator{
		OutputFormat:    c.Output.Format,
		OutputFormats:   c.Output.Formats,
		OutputDirectory: c.Output.Directory,
		Charts:          c.Output.Charts,
		EmailEnabled:    c.Email.Enabled,
		EmailTo:         c.Email.To,
		Schedule:        c.Schedule.Cron,
		StorePath:       c.Store.Path,
	}
	warnings := v.ValidateAll()
	if c.Email.Enabled && c.Email.Password() == "" && c.Email.Username != "" {
		warnings = append(warnings, fmt.Sprintf("Email username is set but %s is empty - SMTP authentication will fail", c.passwordEnv()))
	}
	return warnings
}

func (c *Configuration) passwordEnv() string {
	if c.Email.PasswordEnv == "" {
		return constants.DefaultPasswordEnv
	}
	return c.Email.PasswordEnv
}

// SelectsCompany reports whether id is included in the analysis. An empty
// company list selects every company.
func (a AnalysisConfig) SelectsCompany(id string) bool {
	if len(a.Companies) == 0 {
		return true
	}
	for _, c := range a.Companies {
		if c == id {
			return true
		}
	}
	return false
}
