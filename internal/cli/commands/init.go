package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eberly-center/docuscope-tagger/internal/cli/ui"
)

var initForce bool

// NewInitCommand creates the init command, which interactively writes a
// docuscope-tag.yaml configuration file in the current directory.
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a docuscope-tag.yaml configuration in the current directory",
		Long: `Prompt for a dictionary path, backend, and output label, then write
a docuscope-tag.yaml configuration file in the current directory.`,
		RunE: runInit,
	}

	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing docuscope-tag.yaml")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat("docuscope-tag.yaml"); err == nil && !initForce {
		return fmt.Errorf("docuscope-tag.yaml already exists; pass --force to overwrite")
	}

	var dictPath string
	if err := survey.AskOne(&survey.Input{
		Message: "Path to the dictionary file:",
		Default: "./dictionary.json.gz",
	}, &dictPath); err != nil {
		return err
	}

	var backend string
	if err := survey.AskOne(&survey.Select{
		Message: "Dictionary backend:",
		Options: []string{"memory", "postgres"},
		Default: "memory",
	}, &backend); err != nil {
		return err
	}

	var databaseURL string
	if backend == "postgres" {
		if err := survey.AskOne(&survey.Input{
			Message: "Postgres connection string (blank to use $DATABASE_URL):",
		}, &databaseURL); err != nil {
			return err
		}
	}

	var label string
	if err := survey.AskOne(&survey.Input{
		Message: "Label prefix for tag names:",
		Default: "docuscope",
	}, &label); err != nil {
		return err
	}

	var sharedCache bool
	if err := survey.AskOne(&survey.Confirm{
		Message: "Enable a shared Redis cache in front of the rule store?",
		Default: false,
	}, &sharedCache); err != nil {
		return err
	}

	contents := fmt.Sprintf(`dictionary:
  path: %s
  backend: %s
label: %s
cache:
  lru_size: 4096
  shared:
    enabled: %t
    redis_addr: localhost:6379
`, dictPath, backend, label, sharedCache)

	if backend == "postgres" && databaseURL != "" {
		contents += fmt.Sprintf("database:\n  url: %s\n", databaseURL)
	}

	if err := os.WriteFile("docuscope-tag.yaml", []byte(contents), 0644); err != nil {
		return fmt.Errorf("writing docuscope-tag.yaml: %w", err)
	}

	noColor := color.NoColor
	ui.WriteSuccess(cmd.OutOrStdout(), "Wrote docuscope-tag.yaml", noColor)
	return nil
}
