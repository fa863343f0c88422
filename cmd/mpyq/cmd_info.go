package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkrajina/mpyq/internal/archive"
	"github.com/tkrajina/mpyq/internal/mpq"
)

var cmdInfo = &cobra.Command{
	Use:   "info [flags] ARCHIVE",
	Short: "Print the header of an archive",
	Long: `
The "info" command opens an archive and prints its header: format version,
table geometry and, for replay archives, the embedded replay record.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0], infoOptions.JSON)
	},
}

// InfoOptions bundles all options for the info command.
type InfoOptions struct {
	JSON bool
}

var infoOptions InfoOptions

func init() {
	cmdRoot.AddCommand(cmdInfo)

	f := cmdInfo.Flags()
	f.BoolVar(&infoOptions.JSON, "json", false, "print the header as JSON")
}

func runInfo(path string, asJSON bool) error {
	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer a.Close()

	header := a.Header()

	if asJSON {
		out, err := json.MarshalIndent(struct {
			*mpq.Header
			Members int `json:"members"`
		}{header, len(a.Files())}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("format version:    %d\n", header.FormatVersion)
	fmt.Printf("header size:       %d\n", header.HeaderSize)
	fmt.Printf("archive size:      %d\n", header.ArchiveSize)
	fmt.Printf("sector size shift: %d\n", header.SectorSizeShift)
	fmt.Printf("base offset:       %d\n", header.BaseOffset)
	fmt.Printf("hash table:        %d entries at offset %d\n", header.HashTableEntries, header.HashTableOffset)
	fmt.Printf("block table:       %d entries at offset %d\n", header.BlockTableEntries, header.BlockTableOffset)

	if ext := header.Ext; ext != nil {
		fmt.Printf("extended block table offset: %d\n", ext.ExtendedBlockTableOffset)
		fmt.Printf("high offset halves: hash %d, block %d\n", ext.HashTableOffsetHigh, ext.BlockTableOffsetHigh)
	}

	if userData := header.UserData; userData != nil {
		fmt.Printf("user data:         %d bytes declared, %d bytes content\n", userData.UserDataSize, userData.ContentSize)
		if replay := userData.Replay; replay != nil {
			fmt.Printf("replay:            %s, version %d.%d.%d build %d, duration %d\n",
				replay.Identifier, replay.MajorVersion, replay.MinorVersion, replay.MaintenanceVersion,
				replay.BuildNumber, replay.Duration)
		}
	}

	fmt.Printf("members:           %d\n", len(a.Files()))
	return nil
}
