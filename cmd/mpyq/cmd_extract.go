package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/sha256-simd"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tkrajina/mpyq/internal/archive"
)

var cmdExtract = &cobra.Command{
	Use:   "extract [flags] ARCHIVE ...",
	Short: "Extract archive members to a directory",
	Long: `
The "extract" command writes the members of the given archives below the
output directory, one subdirectory per archive. Member names are interpreted
as paths, with backslashes mapped to the host separator.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	Args:              cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(args)
	},
}

// ExtractOptions bundles all options for the extract command.
type ExtractOptions struct {
	Out  string
	Name string
	Sum  bool
}

var extractOptions ExtractOptions

func init() {
	cmdRoot.AddCommand(cmdExtract)

	f := cmdExtract.Flags()
	f.StringVarP(&extractOptions.Out, "out", "o", ".", "directory to extract into")
	f.StringVar(&extractOptions.Name, "name", "", "extract only the named member")
	f.BoolVar(&extractOptions.Sum, "sum", false, "print the sha256 digest of every written file")
}

func runExtract(paths []string) error {
	var wg errgroup.Group

	for _, path := range paths {
		path := path
		wg.Go(func() error {
			return extractArchive(path)
		})
	}

	return wg.Wait()
}

// extractArchive writes one archive's members below out/<archive name>. Each
// call owns its archive handle, so archives extract independently.
func extractArchive(path string) error {
	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer a.Close()

	names := a.Files()
	if extractOptions.Name != "" {
		names = []string{extractOptions.Name}
	}

	outDir := filepath.Join(extractOptions.Out, archiveDirName(path))

	for _, name := range names {
		data, err := a.ReadFile(name)
		if err != nil {
			return err
		}

		dest, err := memberPath(outDir, name)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return errors.Wrap(err, "creating output directory")
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return errors.Wrap(err, "writing member")
		}

		if extractOptions.Sum {
			fmt.Printf("%x  %s\n", sha256.Sum256(data), dest)
		}
		log.Infof("extracted %s (%d bytes)", dest, len(data))
	}

	return nil
}

// archiveDirName derives the per archive output directory from the archive
// file name, dropping its extension.
func archiveDirName(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

// memberPath maps a member name onto a path below outDir, refusing names
// that would escape it.
func memberPath(outDir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", errors.Errorf("member name %q escapes the output directory", name)
	}
	return filepath.Join(outDir, clean), nil
}
