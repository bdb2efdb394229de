// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pure-connector CLI. It looks up
// and lists Pure research outputs as canonical publications and carries the
// debugging commands used when an identifier does not resolve.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pure-connector/internal/httputil"
	"github.com/pdiddy/pure-connector/internal/localdata"
	"github.com/pdiddy/pure-connector/internal/lookup"
	"github.com/pdiddy/pure-connector/internal/secrets"
	"github.com/pdiddy/pure-connector/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const defaultMaxRetries = 5

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the pure-connector CLI.
var rootCmd = &cobra.Command{
	Use:   "pure-connector",
	Short: "Look up Pure research outputs as canonical publications",
	Long: `pure-connector reads research outputs from a Pure research-information
system and normalizes them into canonical publication records.

Pure only offers a free-text search endpoint. Listings are search pages;
single lookups search for the identifier and match the results against
identifiers synthesized by the connector.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pure-connector.yaml or ~/.config/pure-connector/pure-connector.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log requests and matching decisions to stderr")
}

func initConfig() {
	// A missing .env file is fine; variables may come from the environment.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pure-connector")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pure-connector"))
		}
	}

	viper.SetDefault("pure.max_page_size", types.DefaultMaxPageSize)
	viper.SetDefault("pure.search_window", types.DefaultSearchWindow)
	viper.SetDefault("pure.timeout", httputil.DefaultTimeout)
	viper.SetDefault("pure.rate_limit", 0)
	viper.SetDefault("pure.max_retries", defaultMaxRetries)
	viper.SetDefault("pure.user_agent", "pure-connector/"+version)

	viper.SetEnvPrefix("PURE_CONNECTOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// Keys without a default are only seen in the environment when bound.
	_ = viper.BindEnv("pure.api_url")
	_ = viper.BindEnv("pure.api_key")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pureConfig reads the pure.* keys and falls back to .secrets/pure-api-key
// for the API key. Keys are read one by one so environment overrides apply.
func pureConfig() (types.PureConfig, error) {
	cfg := types.PureConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:    viper.GetDuration("pure.timeout"),
			UserAgent:  viper.GetString("pure.user_agent"),
			RateLimit:  viper.GetFloat64("pure.rate_limit"),
			MaxRetries: viper.GetInt("pure.max_retries"),
		},
		APIURL:       viper.GetString("pure.api_url"),
		APIKey:       viper.GetString("pure.api_key"),
		MaxPageSize:  viper.GetInt("pure.max_page_size"),
		SearchWindow: viper.GetInt("pure.search_window"),
		Fields:       viper.GetStringSlice("pure.fields"),
	}

	key, fromSecrets := secrets.Resolve(loadedSecrets, secrets.PureAPIKey, cfg.APIKey)
	if fromSecrets {
		fmt.Fprintf(os.Stderr, "Using Pure API key from %s\n", filepath.Join(secrets.DefaultDir, secrets.PureAPIKey))
	}
	cfg.APIKey = key
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// localDataMappings reads the local_data mapping list.
func localDataMappings() ([]types.LocalDataMapping, error) {
	var mappings []types.LocalDataMapping
	if err := viper.UnmarshalKey("local_data", &mappings); err != nil {
		return nil, fmt.Errorf("reading local_data configuration: %w", err)
	}
	if err := localdata.Validate(mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// newLogger returns a console logger on stderr. Without --verbose only
// warnings are shown.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.DisableStacktrace = true
	}
	return cfg.Build()
}

// newEngine wires the transport and engine from configuration. The returned
// cleanup flushes the logger.
func newEngine(cmd *cobra.Command) (*lookup.Engine, types.PureConfig, func(), error) {
	cfg, err := pureConfig()
	if err != nil {
		return nil, cfg, nil, err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, cfg, nil, fmt.Errorf("creating logger: %w", err)
	}

	conn := httputil.NewConnection(cfg.APIURL,
		httputil.WithTimeout(cfg.Timeout),
		httputil.WithUserAgent(cfg.UserAgent),
		httputil.WithRateLimit(cfg.RateLimit),
		httputil.WithMaxRetries(cfg.MaxRetries),
		httputil.WithLogger(logger.Named("http")),
	)
	engine := lookup.NewEngine(conn, cfg, lookup.WithLogger(logger.Named("lookup")))
	return engine, cfg, func() { _ = logger.Sync() }, nil
}

// addOutputFlags registers the mutually exclusive output format flags.
func addOutputFlags(cmd *cobra.Command, withJSON bool) {
	if withJSON {
		cmd.Flags().Bool("json", false, "output as JSON")
	}
	cmd.Flags().Bool("yaml", false, "output as YAML")
	cmd.Flags().Bool("csl", false, "output as CSL-YAML for reference managers")
	if withJSON {
		cmd.MarkFlagsMutuallyExclusive("json", "yaml", "csl")
	} else {
		cmd.MarkFlagsMutuallyExclusive("yaml", "csl")
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
