package mpq

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// AttributesVersion is the only known version of the "(attributes)" member.
const AttributesVersion = 100

// Attribute presence flags. Each set bit adds one fixed-width array to the
// member, with one slot per block table entry.
const (
	AttrCRC32    uint32 = 0x00000001
	AttrFileTime uint32 = 0x00000002
	AttrMD5      uint32 = 0x00000004
)

// Attributes is the decoded "(attributes)" member: per block checksums and
// timestamps. Arrays for absent flags are nil. FileTimes holds raw Windows
// FILETIME values.
type Attributes struct {
	Version   uint32
	Flags     uint32
	CRC32s    []uint32
	FileTimes []uint64
	MD5s      [][md5.Size]byte
}

// ParseAttributes decodes an "(attributes)" member covering blockCount block
// table entries. Bytes past the declared arrays are ignored; some archive
// writers pad the member.
func ParseAttributes(data []byte, blockCount int) (*Attributes, error) {
	r := bytes.NewReader(data)

	var head struct {
		Version uint32
		Flags   uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return nil, errors.Wrapf(ErrFormat, "attributes header truncated: %v", err)
	}

	attr := &Attributes{Version: head.Version, Flags: head.Flags}

	if head.Flags&AttrCRC32 != 0 {
		attr.CRC32s = make([]uint32, blockCount)
		if err := binary.Read(r, binary.LittleEndian, attr.CRC32s); err != nil {
			return nil, errors.Wrapf(ErrFormat, "attributes crc32 array truncated: %v", err)
		}
	}

	if head.Flags&AttrFileTime != 0 {
		attr.FileTimes = make([]uint64, blockCount)
		if err := binary.Read(r, binary.LittleEndian, attr.FileTimes); err != nil {
			return nil, errors.Wrapf(ErrFormat, "attributes filetime array truncated: %v", err)
		}
	}

	if head.Flags&AttrMD5 != 0 {
		attr.MD5s = make([][md5.Size]byte, blockCount)
		for i := range attr.MD5s {
			if _, err := io.ReadFull(r, attr.MD5s[i][:]); err != nil {
				return nil, errors.Wrapf(ErrFormat, "attributes md5 array truncated: %v", err)
			}
		}
	}

	return attr, nil
}
