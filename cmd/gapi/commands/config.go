package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/gapi-client/internal/constants"
	"github.com/fivetwenty-io/gapi-client/pkg/gapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	Endpoint       string     `json:"endpoint,omitempty"         yaml:"endpoint,omitempty"`
	Token          string     `json:"token,omitempty"            yaml:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty" yaml:"token_expires_at,omitempty"`
	RefreshToken   string     `json:"refresh_token,omitempty"    yaml:"refresh_token,omitempty"`
	LastRefreshed  *time.Time `json:"last_refreshed,omitempty"   yaml:"last_refreshed,omitempty"`
	ClientID       string     `json:"client_id,omitempty"        yaml:"client_id,omitempty"`
	ClientSecret   string     `json:"client_secret,omitempty"    yaml:"client_secret,omitempty"`
	TokenURL       string     `json:"token_url,omitempty"        yaml:"token_url,omitempty"`
	Scopes         []string   `json:"scopes,omitempty"           yaml:"scopes,omitempty"`
	UserAgent      string     `json:"user_agent,omitempty"       yaml:"user_agent,omitempty"`
	Output         string     `json:"output,omitempty"           yaml:"output,omitempty"`

	// Method override settings
	OverrideMethods        []string `json:"override_methods,omitempty"         yaml:"override_methods,omitempty"`
	TransportSupportsPatch *bool    `json:"transport_supports_patch,omitempty" yaml:"transport_supports_patch,omitempty"`
	TransportSupportsHead  *bool    `json:"transport_supports_head,omitempty"  yaml:"transport_supports_head,omitempty"`
}

// GapiConfig converts the CLI configuration to a client configuration.
func (c *Config) GapiConfig() *gapi.Config {
	return &gapi.Config{
		Endpoint:               c.Endpoint,
		AccessToken:            c.Token,
		ClientID:               c.ClientID,
		ClientSecret:           c.ClientSecret,
		TokenURL:               c.TokenURL,
		Scopes:                 c.Scopes,
		UserAgent:              c.UserAgent,
		OverrideMethods:        c.OverrideMethods,
		TransportSupportsPatch: c.TransportSupportsPatch,
		TransportSupportsHead:  c.TransportSupportsHead,
	}
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage gapi CLI configuration including endpoint, credentials and method override settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}

			masked := maskSecrets(config)

			return render(cmd, masked, []string{"Property", "Value"}, configRows(masked))
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value. Known keys: ` + strings.Join(configKeys(), ", ") + `.

List values (scopes, override_methods) are comma separated.`,
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			setter, ok := configSetters[key]
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			config, err := loadConfig()
			if err != nil {
				return err
			}

			err = setter(config, value)
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd, "Set", key, value)
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			setter, ok := configSetters[key]
			if !ok {
				return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
			}

			config, err := loadConfig()
			if err != nil {
				return err
			}

			err = setter(config, "")
			if err != nil {
				return err
			}

			err = saveConfig(config)
			if err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd, "Unset", key, "")
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove all configuration settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFilePath()
			if err != nil {
				return err
			}

			err = os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			return outputConfigUpdateResult(cmd, "Cleared", "all configuration", "")
		},
	}
}

// configSetters maps configuration keys to setters. An empty value unsets
// the key.
var configSetters = map[string]func(*Config, string) error{
	"endpoint":      func(c *Config, v string) error { c.Endpoint = v; return nil },
	"token":         func(c *Config, v string) error { c.Token = v; c.TokenExpiresAt = nil; return nil },
	"refresh_token": func(c *Config, v string) error { c.RefreshToken = v; return nil },
	"client_id":     func(c *Config, v string) error { c.ClientID = v; return nil },
	"client_secret": func(c *Config, v string) error { c.ClientSecret = v; return nil },
	"token_url":     func(c *Config, v string) error { c.TokenURL = v; return nil },
	"user_agent":    func(c *Config, v string) error { c.UserAgent = v; return nil },
	"scopes":        func(c *Config, v string) error { c.Scopes = splitList(v); return nil },
	"output": func(c *Config, v string) error {
		switch v {
		case "", constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			c.Output = v

			return nil
		default:
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, v)
		}
	},
	"override_methods": func(c *Config, v string) error {
		methods, err := parseMethods(splitList(v))
		if err != nil {
			return err
		}

		c.OverrideMethods = methods

		return nil
	},
	"transport_supports_patch": func(c *Config, v string) error {
		return setOptionalBool(&c.TransportSupportsPatch, v)
	},
	"transport_supports_head": func(c *Config, v string) error {
		return setOptionalBool(&c.TransportSupportsHead, v)
	},
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func setOptionalBool(target **bool, value string) error {
	if value == "" {
		*target = nil

		return nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean %q: %w", value, err)
	}

	*target = &b

	return nil
}

func splitList(value string) []string {
	var out []string

	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// configFilePath returns the config file viper loaded, or the default
// ~/.gapi/config.yml.
func configFilePath() (string, error) {
	if configFile := viper.ConfigFileUsed(); configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".gapi", "config.yml"), nil
}

// loadConfig reads the config file. A missing file yields an empty config.
func loadConfig() (*Config, error) {
	configFile, err := configFilePath()
	if err != nil {
		return nil, err
	}

	config := &Config{}

	// configFile is built from the user's home directory or the --config flag
	// #nosec G304
	data, err := os.ReadFile(configFile)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func saveConfig(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// effectiveConfig overlays --endpoint and --token (or GAPI_ENDPOINT and
// GAPI_TOKEN) on the config file.
func effectiveConfig() (*Config, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if endpoint := viper.GetString("endpoint"); endpoint != "" {
		config.Endpoint = endpoint
	}

	if token := viper.GetString("token"); token != "" && token != config.Token {
		config.Token = token
		config.TokenExpiresAt = nil
	}

	return config, nil
}

func maskSecrets(config *Config) *Config {
	masked := *config

	for _, secret := range []*string{&masked.Token, &masked.RefreshToken, &masked.ClientSecret} {
		if *secret != "" {
			*secret = constants.MaskedSecret
		}
	}

	return &masked
}

func configRows(config *Config) [][]string {
	rows := [][]string{
		{"Endpoint", formatConfigValue(config.Endpoint)},
		{"Token", formatConfigValue(config.Token)},
		{"Refresh Token", formatConfigValue(config.RefreshToken)},
		{"Client ID", formatConfigValue(config.ClientID)},
		{"Client Secret", formatConfigValue(config.ClientSecret)},
		{"Token URL", formatConfigValue(config.TokenURL)},
		{"Scopes", formatConfigValue(strings.Join(config.Scopes, ","))},
		{"User Agent", formatConfigValue(config.UserAgent)},
		{"Override Methods", formatConfigValue(strings.Join(config.OverrideMethods, ","))},
		{"Transport Supports PATCH", formatOptionalBool(config.TransportSupportsPatch)},
		{"Transport Supports HEAD", formatOptionalBool(config.TransportSupportsHead)},
	}

	if config.TokenExpiresAt != nil {
		rows = append(rows, []string{"Token Expires", config.TokenExpiresAt.Format(time.RFC3339)})
	}

	return rows
}

func formatConfigValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func formatOptionalBool(value *bool) string {
	if value == nil {
		return constants.BooleanTrue + " (default)"
	}

	return strconv.FormatBool(*value)
}

func outputConfigUpdateResult(cmd *cobra.Command, action, key, value string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	rows := [][]string{{"Action", action}, {"Key", key}}

	if value != "" {
		result["value"] = value
		rows = append(rows, []string{"Value", value})
	}

	return render(cmd, result, []string{"Property", "Value"}, rows)
}
