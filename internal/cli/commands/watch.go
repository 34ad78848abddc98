package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eberly-center/docuscope-tagger/internal/cli/config"
	"github.com/eberly-center/docuscope-tagger/internal/cli/logging"
	"github.com/eberly-center/docuscope-tagger/internal/cli/ui"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/document"
	"github.com/eberly-center/docuscope-tagger/internal/watch"
)

var (
	watchPatterns []string
	watchVerbose  bool
)

// NewWatchCommand creates the watch command: it re-tags any matching
// document under a directory whenever that document is written.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [directory]",
		Short: "Re-tag documents as they change",
		Long: `Watch a directory (default: the current directory) and re-tag any
matching document every time it's written, writing the HTML result
alongside it with a .html extension.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringSliceVar(&watchPatterns, "pattern", nil, "Glob patterns to watch (default: *.txt, *.md)")
	cmd.Flags().BoolVarP(&watchVerbose, "verbose", "v", false, "Emit structured per-document logs")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	noColor := color.NoColor
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

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

	logger := logging.New(watchVerbose)
	defer logger.Sync()
	runID := logging.NewRunID()

	onChange := func(files []string) error {
		for _, path := range files {
			src := document.FileSource{Path: path}
			text, rerr := src.Read()
			if rerr != nil {
				ui.WriteError(cmd.ErrOrStderr(), ui.ErrorOptions{Problem: fmt.Sprintf("reading %s: %v", path, rerr), NoColor: noColor})
				continue
			}

			result, terr := pipeline.Tag(ctx, text)
			if terr != nil {
				ui.WriteError(cmd.ErrOrStderr(), ui.ErrorOptions{Problem: fmt.Sprintf("tagging %s: %v", path, terr), NoColor: noColor})
				continue
			}

			sink := document.FileSink{Path: outputPath(path, "")}
			if werr := sink.Write(result.HTML); werr != nil {
				ui.WriteError(cmd.ErrOrStderr(), ui.ErrorOptions{Problem: fmt.Sprintf("writing %s: %v", sink.Path, werr), NoColor: noColor})
				continue
			}

			logger.Info("document retagged", zap.String("run_id", runID), zap.String("path", path), zap.Int("spans", len(result.Spans)))
			ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("retagged %s -> %s", path, sink.Path), noColor)
		}
		return nil
	}

	fw, err := watch.NewFileWatcher(root, watchPatterns, nil, onChange)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	if err := fw.Start(); err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fw.Stop()

	fmt.Fprint(cmd.OutOrStdout(), ui.Info(fmt.Sprintf("Watching %s for changes. Press Ctrl-C to stop.", root), noColor))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	return fw.Stop()
}
