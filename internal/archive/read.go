package archive

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"

	"github.com/tkrajina/mpyq/internal/crypto"
	"github.com/tkrajina/mpyq/internal/mpq"
)

// Locate resolves a member name to its hash and block table entries.
//
// Known limitation: the first entry whose two name hashes match wins, in
// table order. The format's full probe sequence disambiguates collisions
// with a third hash kind; this reader does not implement it.
func (a *Archive) Locate(name string) (mpq.HashEntry, mpq.BlockEntry, error) {
	hashA, err := crypto.HashString(name, crypto.HashNameA)
	if err != nil {
		return mpq.HashEntry{}, mpq.BlockEntry{}, err
	}
	hashB, err := crypto.HashString(name, crypto.HashNameB)
	if err != nil {
		return mpq.HashEntry{}, mpq.BlockEntry{}, err
	}

	for i := 0; i < int(a.header.HashTableEntries); i++ {
		entry := mpq.HashEntryAt(a.hashTable, i)
		if entry.HashA != hashA || entry.HashB != hashB {
			continue
		}

		switch {
		case entry.BlockIndex == mpq.BlockIndexEmpty || entry.BlockIndex == mpq.BlockIndexDeleted:
			return mpq.HashEntry{}, mpq.BlockEntry{}, errors.Wrapf(mpq.ErrNotFound, "%s: entry carries no block", name)
		case entry.BlockIndex >= a.header.BlockTableEntries:
			return mpq.HashEntry{}, mpq.BlockEntry{}, errors.Wrapf(mpq.ErrFormat,
				"%s: block index %d out of range, block table has %d entries", name, entry.BlockIndex, a.header.BlockTableEntries)
		}

		return entry, mpq.BlockEntryAt(a.blockTable, int(entry.BlockIndex)), nil
	}

	return mpq.HashEntry{}, mpq.BlockEntry{}, errors.Wrapf(mpq.ErrNotFound, "%s", name)
}

// ReadFile returns the decoded bytes of the named member.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	_, entry, err := a.Locate(name)
	if err != nil {
		return nil, err
	}

	if !entry.Exists() {
		return nil, errors.Wrapf(mpq.ErrNotFound, "%s: block is not marked as existing", name)
	}

	if _, err := a.src.Seek(a.header.BaseOffset+int64(entry.Offset), io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "seeking to %s", name)
	}

	data := make([]byte, entry.ArchivedSize)
	if _, err := io.ReadFull(a.src, data); err != nil {
		return nil, errors.Wrapf(mpq.ErrFormat, "%s truncated: %v", name, err)
	}

	if !entry.Compressed() {
		return data, nil
	}
	return decompress(name, data)
}

// Extract reads every listed member into memory, keyed by name. It fails on
// the first member that cannot be read.
func (a *Archive) Extract() (map[string][]byte, error) {
	out := make(map[string][]byte, len(a.files))
	for _, name := range a.files {
		data, err := a.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}

// Attributes reads and decodes the "(attributes)" member.
func (a *Archive) Attributes() (*mpq.Attributes, error) {
	data, err := a.ReadFile(AttributesName)
	if err != nil {
		return nil, err
	}
	return mpq.ParseAttributes(data, int(a.header.BlockTableEntries))
}

// decompress decodes a compressed member: a method id byte followed by the
// compressed stream.
func decompress(name string, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.Wrapf(mpq.ErrCorruptData, "%s: compressed member has no method byte", name)
	}

	if method := data[0]; method != mpq.CompressionZlib {
		return nil, errors.Wrapf(mpq.ErrUnsupportedCodec, "%s: method %#02x", name, method)
	}

	r := flate.NewReader(bytes.NewReader(data[1:]))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(mpq.ErrCorruptData, "%s: inflate: %v", name, err)
	}
	return out, nil
}
