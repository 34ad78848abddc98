// Command docuscope-tag tags English prose with DocuScope rhetorical
// categories and renders the tagged result as HTML.
package main

import (
	"os"

	"github.com/eberly-center/docuscope-tagger/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
