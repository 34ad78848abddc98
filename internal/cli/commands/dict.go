package commands

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eberly-center/docuscope-tagger/internal/cli/config"
	"github.com/eberly-center/docuscope-tagger/internal/cli/ui"
	"github.com/eberly-center/docuscope-tagger/internal/tagging/rules/memstore"
)

var knownBackends = []string{"memory", "postgres"}

// NewDictCommand creates the dict command, which groups operations over
// the configured dictionary: showing the active configuration and
// validating an on-disk dictionary file before it's wired into a tag run.
func NewDictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Inspect and validate docuscope-tag dictionaries",
	}

	cmd.AddCommand(newDictInfoCommand())
	cmd.AddCommand(newDictValidateCommand())

	return cmd
}

func newDictInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the currently configured dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			noColor := color.NoColor
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), nil, noColor))
				return err
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), noColor)
			kv.AddRow("backend", cfg.Dictionary.Backend)
			kv.AddRow("path", cfg.Dictionary.Path)
			kv.AddRow("label", cfg.Label)
			if cfg.Dictionary.Backend == "postgres" {
				kv.AddRow("database", maskDatabaseURL(config.GetDatabaseURL()))
				if cfg.Cache.Shared.Enabled {
					kv.AddRow("shared cache", fmt.Sprintf("redis (%s)", cfg.Cache.Shared.RedisAddr))
				} else {
					kv.AddRow("shared cache", "disabled")
				}
			}
			kv.Render()
			return nil
		},
	}
}

func newDictValidateCommand() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Load an on-disk dictionary file and report its shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noColor := color.NoColor

			if backend != "" {
				valid := false
				for _, b := range knownBackends {
					if b == backend {
						valid = true
						break
					}
				}
				if !valid {
					suggestion := ui.FindBestMatch(backend, knownBackends, nil)
					var suggestions []string
					if suggestion != "" {
						suggestions = []string{suggestion}
					}
					msg := ui.ConfigError(fmt.Sprintf("unrecognised --backend %q", backend), suggestions, noColor)
					fmt.Fprint(cmd.ErrOrStderr(), msg)
					return fmt.Errorf("unrecognised backend: %s", backend)
				}
			}

			store, words, err := memstore.Load(args[0])
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.DictionaryFormatError(args[0], err.Error(), noColor))
				return err
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), noColor)
			kv.AddRow("path", args[0])
			kv.AddRow("wordclasses", strconv.Itoa(len(words)))
			kv.AddRow("long-rule w0 keys", strconv.Itoa(store.LongRuleCount()))
			kv.AddRow("short rules", strconv.Itoa(store.ShortRuleCount()))
			kv.Render()

			ui.WriteSuccess(cmd.OutOrStdout(), "dictionary loaded successfully", noColor)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Only used to validate against --backend memory|postgres (informational)")
	return cmd
}

// maskDatabaseURL hides credentials embedded in a connection string before
// it's ever printed to a terminal.
func maskDatabaseURL(url string) string {
	if url == "" {
		return "(unset)"
	}
	return "***configured***"
}
