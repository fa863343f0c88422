// Package archive opens MoPaQ archives and reads their member files.
package archive

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tkrajina/mpyq/internal/crypto"
	"github.com/tkrajina/mpyq/internal/mpq"
)

// Reserved member names.
const (
	ListfileName   = "(listfile)"
	AttributesName = "(attributes)"
)

// Archive is an open MoPaQ archive. It owns its byte source for its whole
// lifetime and walks it with plain seek-then-read calls, so calls on one
// Archive must be serialized by the caller.
type Archive struct {
	src    io.ReadSeeker
	closer io.Closer // set when Open owns the underlying file

	header     *mpq.Header
	hashTable  []byte // decrypted, HashTableEntries * EntrySize bytes
	blockTable []byte // decrypted, BlockTableEntries * EntrySize bytes
	files      []string
}

// Open opens the archive file at path. Closing the archive closes the file.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening archive")
	}

	a, err := New(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}

// New reads an archive from src: header, both metadata tables and the member
// name list. The returned Archive keeps reading from src on demand, but never
// closes it.
func New(src io.ReadSeeker) (*Archive, error) {
	header, err := mpq.ParseHeader(src)
	if err != nil {
		return nil, err
	}
	log.Debugf("archive header: format version %d, base offset %d, %d hash entries, %d block entries",
		header.FormatVersion, header.BaseOffset, header.HashTableEntries, header.BlockTableEntries)

	a := &Archive{src: src, header: header}

	a.hashTable, err = a.readTable("(hash table)", header.HashTableOffset, header.HashTableEntries)
	if err != nil {
		return nil, err
	}
	a.blockTable, err = a.readTable("(block table)", header.BlockTableOffset, header.BlockTableEntries)
	if err != nil {
		return nil, err
	}

	listfile, err := a.ReadFile(ListfileName)
	if err != nil {
		return nil, err
	}
	a.files = splitListfile(listfile)
	log.Debugf("(listfile) names %d members", len(a.files))

	return a, nil
}

// Close releases the underlying file when the archive was opened by path.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// Header returns the parsed archive header.
func (a *Archive) Header() *mpq.Header {
	return a.header
}

// Files returns the member names from the listfile, in listfile order.
func (a *Archive) Files() []string {
	return a.files
}

// readTable reads and decrypts one metadata table. The decryption key is
// derived from the table's literal name.
func (a *Archive) readTable(name string, offset, entries uint32) ([]byte, error) {
	key, err := crypto.HashString(name, crypto.HashFileKey)
	if err != nil {
		return nil, err
	}

	if _, err := a.src.Seek(a.header.BaseOffset+int64(offset), io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "seeking to %s", name)
	}

	table := make([]byte, int(entries)*mpq.EntrySize)
	if _, err := io.ReadFull(a.src, table); err != nil {
		return nil, errors.Wrapf(mpq.ErrFormat, "%s truncated: %v", name, err)
	}

	if err := crypto.Decrypt(table, key); err != nil {
		return nil, err
	}
	log.Debugf("read %s: %d entries", name, entries)
	return table, nil
}

// splitListfile splits listfile bytes into names on CR, LF or CRLF, dropping
// empty lines.
func splitListfile(data []byte) []string {
	return strings.FieldsFunc(string(data), func(r rune) bool {
		return r == '\r' || r == '\n'
	})
}
