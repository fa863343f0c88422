package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkrajina/mpyq/internal/archive"
	"github.com/tkrajina/mpyq/internal/mpq"
)

var cmdList = &cobra.Command{
	Use:   "list [flags] ARCHIVE",
	Short: "List the members of an archive",
	Long: `
The "list" command prints the member names recorded in an archive's listfile,
in listfile order.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(args[0], listOptions.Long)
	},
}

// ListOptions bundles all options for the list command.
type ListOptions struct {
	Long bool
}

var listOptions ListOptions

func init() {
	cmdRoot.AddCommand(cmdList)

	f := cmdList.Flags()
	f.BoolVarP(&listOptions.Long, "long", "l", false, "also print sizes, locale and flags")
}

func runList(path string, long bool) error {
	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer a.Close()

	if !long {
		for _, name := range a.Files() {
			fmt.Println(name)
		}
		return nil
	}

	fmt.Printf("%10s %10s  %-16s %-32s %s\n", "size", "packed", "locale", "flags", "name")
	for _, name := range a.Files() {
		hashEntry, blockEntry, err := a.Locate(name)
		if err != nil {
			return err
		}
		fmt.Printf("%10d %10d  %-16s %-32s %s\n",
			blockEntry.Size, blockEntry.ArchivedSize, hashEntry.Language(),
			strings.Join(mpq.FlagNames(blockEntry.Flags), ","), name)
	}
	return nil
}
