package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.2.5"

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:   "mpyq",
	Short: "Read MoPaQ archives",
	Long: `
mpyq reads MoPaQ (MPQ) archives, the packed file container certain game
engines use for assets and match replays. It prints archive headers, lists
members and extracts their contents.
`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootOptions.Verbose {
			log.SetLevel(log.DebugLevel)
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

// RootOptions bundles the options shared by all commands.
type RootOptions struct {
	Verbose bool
}

var rootOptions RootOptions

func init() {
	cmdRoot.PersistentFlags().BoolVarP(&rootOptions.Verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
