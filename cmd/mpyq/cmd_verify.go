package main

import (
	"fmt"
	"hash/crc32"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tkrajina/mpyq/internal/archive"
	"github.com/tkrajina/mpyq/internal/mpq"
)

var cmdVerify = &cobra.Command{
	Use:   "verify [flags] ARCHIVE",
	Short: "Check member checksums against the (attributes) member",
	Long: `
The "verify" command reads every member named by the listfile and compares
its crc32 against the slot recorded in the "(attributes)" member.

EXIT STATUS
===========

Exit status is 0 if all members verified, and non-zero if any member failed
or the archive has no usable "(attributes)" member.
`,
	DisableAutoGenTag: true,
	Args:              cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(args[0])
	},
}

func init() {
	cmdRoot.AddCommand(cmdVerify)
}

func runVerify(path string) error {
	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer a.Close()

	attrs, err := a.Attributes()
	if err != nil {
		return err
	}
	if attrs.Flags&mpq.AttrCRC32 == 0 {
		return errors.New("(attributes) member carries no crc32 array")
	}

	checked, failed := 0, 0
	for _, name := range a.Files() {
		if name == archive.AttributesName {
			continue // its own slot is a placeholder
		}

		hashEntry, _, err := a.Locate(name)
		if err != nil {
			return err
		}
		data, err := a.ReadFile(name)
		if err != nil {
			return err
		}
		checked++

		want := attrs.CRC32s[hashEntry.BlockIndex]
		if got := crc32.ChecksumIEEE(data); got != want {
			log.Errorf("%s: crc32 mismatch: got %08x, want %08x", name, got, want)
			failed++
			continue
		}
		log.Debugf("%s: crc32 ok", name)
	}

	if failed > 0 {
		return errors.Errorf("%d of %d members failed verification", failed, checked)
	}

	fmt.Printf("all %d members verified\n", checked)
	return nil
}
