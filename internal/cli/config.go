package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/truthlens/internal/model"
)

const (
	envPrefix      = "TRUTHLENS"
	configDirName  = ".truthlens"
	configFileName = "config.yaml"
)

// Provider-native variables accepted next to the TRUTHLENS_* names
var envAliases = map[string][]string{
	"factcheck.api_key": {"GOOGLE_FACT_CHECK_API_KEY"},
	"llm.api_key":       {"OPENAI_API_KEY"},
}

// loadConfig layers defaults, the config file, TRUTHLENS_* variables and
// bound flags, in increasing priority
func loadConfig(path string, cmd *cobra.Command) (*model.Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, configDirName))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		return nil, err
	}
	for key, aliases := range envAliases {
		names := append([]string{envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", key)
		}
	}

	if cmd != nil {
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			_ = v.BindPFlag("output.verbose", f)
		}
		if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
			_ = v.BindPFlag("log.level", f)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	} else {
		zap.L().Debug("using config file", zap.String("path", v.ConfigFileUsed()))
	}

	var c model.Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &c, nil
}

// setDefaults registers every leaf of the default config so environment
// variables can override keys absent from the file
func setDefaults(v *viper.Viper, defaults *model.Config) error {
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return eris.Wrap(err, "config: marshal defaults")
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return eris.Wrap(err, "config: decode defaults")
	}
	for key, value := range flatten("", tree) {
		v.SetDefault(key, value)
	}
	return nil
}

func flatten(prefix string, tree map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := val.(map[string]interface{}); ok {
			for sk, sv := range flatten(key, sub) {
				out[sk] = sv
			}
			continue
		}
		out[key] = val
	}
	return out
}

// InitLogger replaces the global zap logger according to cfg
func InitLogger(cfg model.LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	levelName := cfg.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// redacted returns a copy of c safe to print
func redacted(c *model.Config) model.Config {
	out := *c
	out.FactCheck.APIKey = mask(c.FactCheck.APIKey)
	out.LLM.APIKey = mask(c.LLM.APIKey)
	return out
}

func mask(secret string) string {
	switch {
	case secret == "" || secret == model.DemoAPIKey:
		return secret
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****"
	}
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "find home directory")
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage TruthLens configuration",
	Long: `Manage TruthLens configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (TRUTHLENS_*, GOOGLE_FACT_CHECK_API_KEY, OPENAI_API_KEY)
3. Config file (~/.truthlens/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(redacted(cfg))
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		_, err = cmd.OutOrStdout().Write(data)
		return eris.Wrap(err, "write config")
	},
}

var configInitPath string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configInitPath
		if path == "" {
			p, err := defaultConfigPath()
			if err != nil {
				return err
			}
			path = p
		}

		if _, err := os.Stat(path); err == nil {
			return eris.Errorf("config file already exists: %s", path)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return eris.Wrap(err, "create config directory")
		}

		data, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}

		var b strings.Builder
		b.WriteString("# TruthLens configuration\n")
		b.WriteString("#\n")
		b.WriteString("# Environment variables override this file:\n")
		b.WriteString("#   TRUTHLENS_FACTCHECK_API_KEY (or GOOGLE_FACT_CHECK_API_KEY)\n")
		b.WriteString("#   TRUTHLENS_LLM_API_KEY (or OPENAI_API_KEY)\n")
		b.WriteString("#   TRUTHLENS_<SECTION>_<KEY> for any other setting\n\n")
		b.Write(data)

		if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
			return eris.Wrap(err, "write config file")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created default configuration: %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "write to this path instead of ~/.truthlens/config.yaml")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
