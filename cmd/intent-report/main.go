// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the intent-report CLI. It converts an
// API.AI / Dialogflow v1 export archive into a readable report of intents,
// user phrases, bot answers, and quick replies.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/intent-report/internal/convert"
	"github.com/pdiddy/intent-report/internal/render"
	"github.com/pdiddy/intent-report/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger writes diagnostics to stderr. It is replaced in PersistentPreRunE.
var logger = zap.NewNop()

// rootCmd converts one archive and is the parent of every other command.
var rootCmd = &cobra.Command{
	Use:   "intent-report <archive.zip>",
	Short: "Render an API.AI export archive as a readable intent report",
	Long: `intent-report reads the intents/ entries of an API.AI (Dialogflow v1)
export archive and prints, for every intent, its sample user phrases, the
bot answers with their alternatives, and the quick replies offered to the
user.

The report goes to stdout; logs and errors go to stderr. Use --format yaml
or --format json for a machine-readable version of the same data, and the
kb subcommands to index many archives and search their phrases.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if viper.GetBool("verbose") {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := reportConfig()
	if err != nil {
		return err
	}

	results, summary, err := convert.Archive(args[0], cfg, logger)
	if err != nil {
		return err
	}
	logger.Debug("rendering report",
		zap.String("archive", args[0]),
		zap.String("format", string(cfg.Format)),
		zap.Int("intents", len(results)),
		zap.Int("skipped", summary.Skipped))

	return render.Write(cmd.OutOrStdout(), cfg.Format, results)
}

// reportConfig assembles the conversion settings from flags, environment,
// and config file.
func reportConfig() (types.ReportConfig, error) {
	cfg := types.ReportConfig{
		Prefix:        viper.GetString("prefix"),
		Format:        types.OutputFormat(viper.GetString("format")),
		MergeUserSays: viper.GetBool("merge_usersays"),
		SkipMalformed: viper.GetBool("skip_malformed"),
	}
	if cfg.Prefix == "" {
		cfg.Prefix = types.DefaultPrefix
	}
	if cfg.Format == "" {
		cfg.Format = types.FormatText
	}
	if !cfg.Format.Valid() {
		return cfg, fmt.Errorf("unsupported format %q: use text, yaml, or json", cfg.Format)
	}
	return cfg, nil
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./intent-report.yaml or ~/.config/intent-report/intent-report.yaml)")
	flags.String("format", string(types.FormatText), "output format: text, yaml, or json")
	flags.String("prefix", types.DefaultPrefix, "archive path prefix of intent entries")
	flags.Bool("merge-usersays", false, "attach <intent>_usersays_<lang>.json entries to <intent>.json")
	flags.Bool("skip-malformed", false, "log and skip entries that cannot be converted instead of failing")
	flags.BoolP("verbose", "v", false, "enable debug logging on stderr")

	for key, flag := range map[string]string{
		"format":         "format",
		"prefix":         "prefix",
		"merge_usersays": "merge-usersays",
		"skip_malformed": "skip-malformed",
		"verbose":        "verbose",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("intent-report")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "intent-report"))
		}
	}

	viper.SetEnvPrefix("INTENT_REPORT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
