package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eberly-center/docuscope-tagger/internal/cli/config"
	"github.com/eberly-center/docuscope-tagger/internal/cli/logging"
	"github.com/eberly-center/docuscope-tagger/internal/cli/ui"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/count"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/document"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/engine"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rollup"
)

var (
	tagOutputDir  string
	tagRollupPath string
	tagShowCounts bool
	tagVerbose    bool
)

// NewTagCommand creates the tag command, docuscope-tag's core operation:
// tag one or more documents and write the rendered HTML alongside (or
// into --output-dir).
func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <file>...",
		Short: "Tag one or more documents and render them as HTML",
		Long: `Tag reads each document, runs the longest-match rule engine over it,
and writes the rendered HTML next to the source file (or into
--output-dir if given), with a .html extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTag,
	}

	cmd.Flags().StringVarP(&tagOutputDir, "output-dir", "o", "", "Write HTML output into this directory instead of alongside each source file")
	cmd.Flags().StringVar(&tagRollupPath, "rollup", "", "Path to a category rollup table (gzip JSON); when set, a pattern count table is printed after tagging")
	cmd.Flags().BoolVar(&tagShowCounts, "counts", false, "Print per-LAT tag counts even without a rollup table")
	cmd.Flags().BoolVarP(&tagVerbose, "verbose", "v", false, "Emit structured per-document logs")

	return cmd
}

func runTag(cmd *cobra.Command, args []string) error {
	noColor := color.NoColor
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), nil, noColor))
		return err
	}

	pipeline, closeStore, err := buildPipeline(ctx, cfg)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.BackendUnavailableError(err.Error(), noColor))
		return err
	}
	defer closeStore()

	logger := logging.New(tagVerbose)
	defer logger.Sync()
	runID := logging.NewRunID()
	logger.Info("tag run started", zap.String("run_id", runID), zap.Int("documents", len(args)), zap.String("backend", cfg.Dictionary.Backend))

	var rollupTable rollup.Table
	if tagRollupPath != "" {
		rollupTable, err = rollup.Load(tagRollupPath)
		if err != nil {
			return fmt.Errorf("loading rollup table: %w", err)
		}
	}

	totalStats := map[string]engine.RuleStat{}

	err = ui.WithProgress(cmd.OutOrStdout(), "Tagging", len(args), noColor, func(bar *ui.ProgressBar) error {
		for _, path := range args {
			src := document.FileSource{Path: path}
			text, rerr := src.Read()
			if rerr != nil {
				return fmt.Errorf("reading %s: %w", path, rerr)
			}

			result, terr := pipeline.Tag(ctx, text)
			if terr != nil {
				return fmt.Errorf("tagging %s: %w", path, terr)
			}

			sink := document.FileSink{Path: outputPath(path, tagOutputDir)}
			if werr := sink.Write(result.HTML); werr != nil {
				return fmt.Errorf("writing %s: %w", sink.Path, werr)
			}

			mergeStats(totalStats, result.Stats)
			logger.Info("document tagged", zap.String("run_id", runID), zap.String("path", path), zap.Int("tokens", len(result.Tokens)), zap.Int("spans", len(result.Spans)))
			bar.Add(1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if rollupTable != nil || tagShowCounts {
		printCounts(cmd, totalStats, rollupTable, cfg.Label, noColor)
	}

	return nil
}

// outputPath computes the destination HTML path for a tagged source file.
func outputPath(source, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ".html"
	if outDir == "" {
		return filepath.Join(filepath.Dir(source), base)
	}
	return filepath.Join(outDir, base)
}

// mergeStats accumulates a document's per-LAT stats into a running total
// across every file a tag invocation processes.
func mergeStats(total map[string]engine.RuleStat, doc map[string]engine.RuleStat) {
	for lat, stat := range doc {
		acc := total[lat]
		acc.LAT = lat
		acc.NumTags += stat.NumTags
		acc.NumIncludedTokens += stat.NumIncludedTokens
		total[lat] = acc
	}
}

func printCounts(cmd *cobra.Command, totalStats map[string]engine.RuleStat, table rollup.Table, label string, noColor bool) {
	patterns := count.FromStats(totalStats, table, label)

	tbl := ui.NewTable(cmd.OutOrStdout(), []string{"LAT", "Category", "Subcategory", "Count"}, &ui.TableOptions{RightAlignColumns: []int{3}})
	for _, p := range patterns {
		category, subcategory := p.Category, p.Subcategory
		if p.Uncategorised {
			category, subcategory = "(uncategorised)", "-"
		}
		tbl.AddRow(p.LAT, category, subcategory, strconv.Itoa(p.Count))
	}
	tbl.Render()
}
