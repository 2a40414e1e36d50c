// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/intent-report/internal/convert"
	"github.com/pdiddy/intent-report/internal/knowledge"
	"github.com/pdiddy/intent-report/internal/render"
	"github.com/pdiddy/intent-report/pkg/types"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Manage the intent index (store, query, export)",
	Long: `kb keeps the converted intents of many export archives in a local
SQLite database. Use subcommands to index archives, search their phrases,
or print stored intents again.`,
}

// --- store subcommand ---

var kbStoreCmd = &cobra.Command{
	Use:   "store <archive.zip>...",
	Short: "Convert archives and add them to the intent index",
	Long: `Store converts each archive with the same settings as the report and
replaces its intents in the index. Archives unchanged since they were last
indexed are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runKBStore,
}

func runKBStore(cmd *cobra.Command, args []string) error {
	cfg, err := reportConfig()
	if err != nil {
		return err
	}

	store, err := knowledge.NewStore(kbConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	w := cmd.OutOrStdout()
	counts := make(map[knowledge.IndexStatus]int)
	failed := 0

	for _, path := range args {
		status, n, err := indexArchive(ctx, store, path, cfg)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", path, err)
			logger.Warn("indexing failed", zap.String("archive", path), zap.Error(err))
			failed++
			continue
		}
		fmt.Fprintf(w, "%-8s %s (%d intents)\n", status, path, n)
		counts[status]++
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		counts[knowledge.StatusIndexed], counts[knowledge.StatusUpdated],
		counts[knowledge.StatusSkipped], failed)

	if failed > 0 {
		return fmt.Errorf("%d archive(s) failed indexing", failed)
	}
	return nil
}

func indexArchive(ctx context.Context, store *knowledge.Store, path string, cfg types.ReportConfig) (knowledge.IndexStatus, int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", 0, fmt.Errorf("resolving path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", 0, err
	}

	results, _, err := convert.Archive(abs, cfg, logger)
	if err != nil {
		return "", 0, err
	}

	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)
	status, err := store.Index(ctx, abs, modTime, results)
	if err != nil {
		return "", 0, err
	}
	return status, len(results), nil
}

// --- query subcommand ---

var kbQueryCmd = &cobra.Command{
	Use:   "query [text...]",
	Short: "Search stored phrases",
	Long: `Query searches user phrases, answers, alternatives, and quick replies
of indexed archives for a case-insensitive substring, optionally filtered
by phrase kind, intent, or archive.`,
	RunE: runKBQuery,
}

func runKBQuery(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --kind, --intent, or --archive")
	}

	store, err := knowledge.NewStore(kbConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatQueryOutput(w io.Writer, results []knowledge.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		if results == nil {
			results = []knowledge.QueryResult{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-30s  %s\n", "Rank", "Kind", "Intent", "Phrase")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-12s  %-30s  %s\n", i+1, r.Kind, truncate(r.Intent, 30), r.Content)
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// --- export subcommand ---

var kbExportCmd = &cobra.Command{
	Use:   "export [archive.zip]",
	Short: "Print stored intents in the report format",
	Long: `Export rebuilds the intents stored for one archive, or for every
indexed archive, and writes them in the --format chosen (text, yaml, json).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKBExport,
}

func runKBExport(cmd *cobra.Command, args []string) error {
	cfg, err := reportConfig()
	if err != nil {
		return err
	}

	var archive string
	if len(args) == 1 {
		if archive, err = filepath.Abs(args[0]); err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
	}

	store, err := knowledge.NewStore(kbConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Results(context.Background(), archive)
	if err != nil {
		return err
	}
	return render.Write(cmd.OutOrStdout(), cfg.Format, results)
}

// --- shared helpers ---

func kbConfig() types.KnowledgeBaseConfig {
	dir := viper.GetString("kb_dir")
	if dir == "" {
		dir = "kb"
	}
	return types.KnowledgeBaseConfig{
		Dir:        dir,
		MaxResults: viper.GetInt("max_results"),
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) (knowledge.QueryOptions, error) {
	kind, _ := cmd.Flags().GetString("kind")
	intent, _ := cmd.Flags().GetString("intent")
	archive, _ := cmd.Flags().GetString("archive")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := knowledge.QueryOptions{
		Query:      strings.Join(args, " "),
		Kind:       knowledge.PhraseKind(kind),
		Intent:     intent,
		MaxResults: limit,
	}
	if opts.Kind != "" && !opts.Kind.Valid() {
		return opts, fmt.Errorf("unknown kind %q: use user_says, answer, alternative, or quick_answer", kind)
	}
	if archive != "" {
		abs, err := filepath.Abs(archive)
		if err != nil {
			return opts, fmt.Errorf("resolving path: %w", err)
		}
		opts.Archive = abs
	}
	return opts, nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	kbCmd.PersistentFlags().String("kb-dir", "kb", "directory holding the intent index database")
	kbCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")
	_ = viper.BindPFlag("kb_dir", kbCmd.PersistentFlags().Lookup("kb-dir"))
	_ = viper.BindPFlag("max_results", kbCmd.PersistentFlags().Lookup("max-results"))

	// Query flags.
	kbQueryCmd.Flags().String("kind", "", "filter by phrase kind: user_says, answer, alternative, quick_answer")
	kbQueryCmd.Flags().String("intent", "", "filter by intent entry name (e.g. intents/greet.json)")
	kbQueryCmd.Flags().String("archive", "", "filter by archive path")
	kbQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use --max-results)")
	kbQueryCmd.Flags().Bool("json", false, "output results as JSON")

	kbCmd.AddCommand(kbStoreCmd)
	kbCmd.AddCommand(kbQueryCmd)
	kbCmd.AddCommand(kbExportCmd)

	rootCmd.AddCommand(kbCmd)
}
