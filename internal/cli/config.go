package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config file lookup.
const (
	ConfigFileName = "ev-cli"
	EnvPrefix      = "EV_CLI"
)

// Config keys. Flags with the same name, dashes for underscores, bind to them.
const (
	KeyEverestDir         = "everest_dir"
	KeyFrameworkDir       = "framework_dir"
	KeyClangFormatFile    = "clang_format_file"
	KeyDisableClangFormat = "disable_clang_format"
	KeyClangFormatBinary  = "clang_format_binary"
	KeyLedger             = "ledger"
	KeyDisableLedger      = "disable_ledger"
	KeyColor              = "color"
	KeyFormat             = "format"
	KeyVerbose            = "verbose"
)

// LedgerFile is the default ledger location below the everest directory.
const LedgerFile = "build/.ev-cli-ledger.db"

// Config is the resolved configuration of one invocation.
// Precedence: flag > environment > config file > default.
type Config struct {
	EverestDir         string
	FrameworkDir       string
	ClangFormatFile    string
	DisableClangFormat bool
	ClangFormatBinary  string
	Ledger             string
	DisableLedger      bool
	Color              string
	Format             string
	Verbose            bool

	// File is the config file that was read, empty when none was.
	File string
}

// ValidColors defines the allowed --color values.
var ValidColors = []string{"auto", "on", "off"}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyEverestDir, ".")
	v.SetDefault(KeyFrameworkDir, filepath.Join("..", "everest-framework"))
	v.SetDefault(KeyClangFormatFile, ".")
	v.SetDefault(KeyDisableClangFormat, false)
	v.SetDefault(KeyClangFormatBinary, "clang-format")
	v.SetDefault(KeyLedger, "")
	v.SetDefault(KeyDisableLedger, false)
	v.SetDefault(KeyColor, "auto")
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyVerbose, false)
}

// loadConfig resolves the configuration for cmd. An explicit config file
// must exist; the default ev-cli.{yaml,toml,json} in the working directory
// is optional.
func loadConfig(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file not found: %s", configFile)
		}
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		EverestDir:         v.GetString(KeyEverestDir),
		FrameworkDir:       v.GetString(KeyFrameworkDir),
		ClangFormatFile:    v.GetString(KeyClangFormatFile),
		DisableClangFormat: v.GetBool(KeyDisableClangFormat),
		ClangFormatBinary:  v.GetString(KeyClangFormatBinary),
		Ledger:             v.GetString(KeyLedger),
		DisableLedger:      v.GetBool(KeyDisableLedger),
		Color:              v.GetString(KeyColor),
		Format:             v.GetString(KeyFormat),
		Verbose:            v.GetBool(KeyVerbose),
		File:               v.ConfigFileUsed(),
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindFlags binds every flag known to cmd whose name matches a config key.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	keys := []string{
		KeyEverestDir, KeyFrameworkDir, KeyClangFormatFile, KeyDisableClangFormat,
		KeyClangFormatBinary, KeyLedger, KeyDisableLedger, KeyColor, KeyFormat, KeyVerbose,
	}
	for _, key := range keys {
		flag := cmd.Flags().Lookup(strings.ReplaceAll(key, "_", "-"))
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}
	return nil
}

// resolve validates enumerated values and makes directories absolute.
func (c *Config) resolve() error {
	if !contains(ValidFormats, c.Format) {
		return &InvalidArgumentError{Arg: "--format", Value: c.Format, Reason: fmt.Sprintf("must be one of %v", ValidFormats)}
	}
	if !contains(ValidColors, c.Color) {
		return &InvalidArgumentError{Arg: "--color", Value: c.Color, Reason: fmt.Sprintf("must be one of %v", ValidColors)}
	}

	for _, p := range []*string{&c.EverestDir, &c.FrameworkDir, &c.ClangFormatFile} {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = abs
	}
	if c.Ledger == "" {
		c.Ledger = filepath.Join(c.EverestDir, filepath.FromSlash(LedgerFile))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
