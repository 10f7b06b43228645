package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
)

// Global configuration structure.
type Global struct {
	// Loading
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	DayFirst           bool   `mapstructure:"day_first" yaml:"day_first"`
	MaxRows            int    `mapstructure:"max_rows" yaml:"max_rows"`
	SheetName          string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex         int    `mapstructure:"sheet_index" yaml:"sheet_index"`

	// Analysis defaults
	DefaultKinds     []string `mapstructure:"default_kinds" yaml:"default_kinds"`
	DefaultFrequency string   `mapstructure:"default_frequency" yaml:"default_frequency"`

	// Output
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	ChartColor   string `mapstructure:"chart_color" yaml:"chart_color"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format"`

	// HTTP server
	ServerAddr  string   `mapstructure:"server_addr" yaml:"server_addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	MaxUploadMB int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	WorkspacesDir string `mapstructure:"workspaces_dir" yaml:"workspaces_dir"`
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".vaxkpi"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.vaxkpi/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("VAXKPI")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("day_first", false)
	v.SetDefault("max_rows", 100000)
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("default_kinds", []string{"summary", "statistical_measures", "trends", "gaps", "kpis"})
	v.SetDefault("default_frequency", "monthly")
	v.SetDefault("output_format", "markdown")
	v.SetDefault("chart_color", "#008B8B")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("workspaces_dir", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve workspaces_dir default: ~/.vaxkpi/workspaces
	if c.WorkspacesDir == "" {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		c.WorkspacesDir = filepath.Join(dir, "workspaces")
	}
	return &c, nil
}

// Set assigns a key by its config name, validating the value.
func (c *Global) Set(key, val string) error {
	switch key {
	case "delimiter":
		if _, err := ParseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "decimal_separator":
		if _, err := ParseDecimal(val); err != nil {
			return err
		}
		c.DecimalSeparator = val
	case "thousands_separator":
		if _, err := ParseThousands(val); err != nil {
			return err
		}
		c.ThousandsSeparator = val
	case "day_first":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for day_first: %v", val)
		}
		c.DayFirst = b
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid sheet_index: %v (1-based)", val)
		}
		c.SheetIndex = i
	case "default_kinds":
		c.DefaultKinds = splitList(val)
	case "default_frequency":
		c.DefaultFrequency = val
	case "output_format":
		switch strings.ToLower(val) {
		case "markdown", "json", "table":
			c.OutputFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid output_format: %s (use markdown|json|table)", val)
		}
	case "chart_color":
		c.ChartColor = val
	case "log_level":
		c.LogLevel = val
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text|json)", val)
		}
	case "server_addr":
		c.ServerAddr = val
	case "cors_origins":
		c.CORSOrigins = splitList(val)
	case "max_upload_mb":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for max_upload_mb: %v", val)
		}
		c.MaxUploadMB = i
	case "workspaces_dir":
		c.WorkspacesDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// DatasetOptions converts the loading keys into dataset.Options.
func (c *Global) DatasetOptions() (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	if c.MaxRows > 0 {
		opt.MaxRows = c.MaxRows
	}
	var err error
	if opt.Delimiter, err = ParseDelimiter(c.Delimiter); err != nil {
		return opt, err
	}
	if opt.DecimalSeparator, err = ParseDecimal(c.DecimalSeparator); err != nil {
		return opt, err
	}
	if opt.ThousandsSeparator, err = ParseThousands(c.ThousandsSeparator); err != nil {
		return opt, err
	}
	opt.DayFirst = c.DayFirst
	opt.SheetName = c.SheetName
	if c.SheetIndex > 0 {
		opt.SheetIndex = c.SheetIndex
	}
	return opt, nil
}

// ParseDelimiter maps a delimiter name to its rune; "" means sniff.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case "\t", "\\t", "tab":
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s", s)
}

// ParseDecimal maps a decimal separator name to its rune; "" means auto.
func ParseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	}
	return 0, fmt.Errorf("unsupported decimal separator: %s (use '.'|'comma')", s)
}

// ParseThousands maps a thousands separator name to its rune; "" means auto.
func ParseThousands(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case " ", "space":
		return ' ', nil
	}
	return 0, fmt.Errorf("unsupported thousands separator: %s (use ','|'.'|'space')", s)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
