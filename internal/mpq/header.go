// Package mpq holds the fixed binary layouts of the MoPaQ archive format:
// the archive and user data headers, hash and block table entries, and the
// extended attributes member.
package mpq

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// The two container magics. HeaderMagic opens a bare archive, UserDataMagic
// opens a user data block that points at the real archive header.
var (
	HeaderMagic   = [4]byte{'M', 'P', 'Q', 0x1A}
	UserDataMagic = [4]byte{'M', 'P', 'Q', 0x1B}
)

// replaySignature prefixes user data content written by the game's replay
// recorder: a length byte followed by the identifier string.
var replaySignature = []byte("\x15StarCraft II replay")

const replayHeaderSize = 39

// Header is the fixed 32-byte archive header, plus the version 1 extension
// when present. All table and file offsets in the archive are relative to
// BaseOffset, the absolute position the header was read from.
type Header struct {
	HeaderSize        uint32 `json:"header_size"`
	ArchiveSize       uint32 `json:"archive_size"`
	FormatVersion     uint16 `json:"format_version"`
	SectorSizeShift   uint16 `json:"sector_size_shift"`
	HashTableOffset   uint32 `json:"hash_table_offset"`
	BlockTableOffset  uint32 `json:"block_table_offset"`
	HashTableEntries  uint32 `json:"hash_table_entries"`
	BlockTableEntries uint32 `json:"block_table_entries"`

	BaseOffset int64 `json:"base_offset"`

	Ext      *HeaderExt      `json:"extension,omitempty"` // set if FormatVersion is 1
	UserData *UserDataHeader `json:"user_data,omitempty"` // set if the source opens with UserDataMagic
}

// HeaderExt is the 12-byte extension appended to format version 1 headers.
type HeaderExt struct {
	ExtendedBlockTableOffset uint64 `json:"extended_block_table_offset"`
	HashTableOffsetHigh      uint16 `json:"hash_table_offset_high"`
	BlockTableOffsetHigh     uint16 `json:"block_table_offset_high"`
}

// UserDataHeader is the 16-byte wrapper that precedes the archive header in
// user data framed sources, together with its opaque content bytes.
// HeaderOffset is the absolute position of the real archive header.
type UserDataHeader struct {
	UserDataSize uint32 `json:"user_data_size"`
	HeaderOffset uint32 `json:"mpq_header_offset"`
	ContentSize  uint32 `json:"content_size"`
	Content      []byte `json:"content"`

	Replay *ReplayHeader `json:"replay,omitempty"` // set if Content starts with the replay signature
}

// ReplayHeader is the fixed-width replay record stored in user data content.
// Multi-byte fields are big-endian, unlike everything else in the format.
type ReplayHeader struct {
	Identifier         string `json:"identifier"`
	ReleaseFlag        uint8  `json:"release_flag"`
	MajorVersion       uint8  `json:"major_version"`
	MinorVersion       uint8  `json:"minor_version"`
	MaintenanceVersion uint8  `json:"maintenance_version"`
	BuildNumber        uint32 `json:"build_number"`
	Duration           uint16 `json:"duration"`
}

// ParseHeader reads the archive header from the start of src, following the
// user data indirection when present.
func ParseHeader(src io.ReadSeeker) (*Header, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seeking to start")
	}

	var magic [4]byte
	if _, err := io.ReadFull(src, magic[:]); err != nil {
		return nil, errors.Wrapf(ErrFormat, "reading magic: %v", err)
	}

	switch magic {
	case HeaderMagic:
		return parseArchiveHeader(src, 0, nil)

	case UserDataMagic:
		userData, err := parseUserData(src)
		if err != nil {
			return nil, err
		}

		base := int64(userData.HeaderOffset)
		if _, err := src.Seek(base, io.SeekStart); err != nil {
			return nil, errors.Wrapf(err, "seeking to archive header at %d", base)
		}
		if _, err := io.ReadFull(src, magic[:]); err != nil {
			return nil, errors.Wrapf(ErrFormat, "reading magic at %d: %v", base, err)
		}
		if magic != HeaderMagic {
			return nil, errors.Wrapf(ErrFormat, "no archive header at offset %d", base)
		}
		return parseArchiveHeader(src, base, userData)

	default:
		return nil, errors.Wrapf(ErrFormat, "unrecognized magic %#02x%02x%02x%02x", magic[0], magic[1], magic[2], magic[3])
	}
}

// parseArchiveHeader decodes the fixed header fields following the magic,
// and the extension for version 1 archives.
func parseArchiveHeader(r io.Reader, base int64, userData *UserDataHeader) (*Header, error) {
	var body struct {
		HeaderSize        uint32
		ArchiveSize       uint32
		FormatVersion     uint16
		SectorSizeShift   uint16
		HashTableOffset   uint32
		BlockTableOffset  uint32
		HashTableEntries  uint32
		BlockTableEntries uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &body); err != nil {
		return nil, errors.Wrapf(ErrFormat, "archive header truncated: %v", err)
	}

	header := &Header{
		HeaderSize:        body.HeaderSize,
		ArchiveSize:       body.ArchiveSize,
		FormatVersion:     body.FormatVersion,
		SectorSizeShift:   body.SectorSizeShift,
		HashTableOffset:   body.HashTableOffset,
		BlockTableOffset:  body.BlockTableOffset,
		HashTableEntries:  body.HashTableEntries,
		BlockTableEntries: body.BlockTableEntries,
		BaseOffset:        base,
		UserData:          userData,
	}

	switch body.FormatVersion {
	case 0:
	case 1:
		header.Ext = new(HeaderExt)
		if err := binary.Read(r, binary.LittleEndian, header.Ext); err != nil {
			return nil, errors.Wrapf(ErrFormat, "header extension truncated: %v", err)
		}
	default:
		return nil, errors.Wrapf(ErrFormat, "unsupported format version %d", body.FormatVersion)
	}

	return header, nil
}

func parseUserData(r io.Reader) (*UserDataHeader, error) {
	var body struct {
		UserDataSize uint32
		HeaderOffset uint32
		ContentSize  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &body); err != nil {
		return nil, errors.Wrapf(ErrFormat, "user data header truncated: %v", err)
	}

	userData := &UserDataHeader{
		UserDataSize: body.UserDataSize,
		HeaderOffset: body.HeaderOffset,
		ContentSize:  body.ContentSize,
		Content:      make([]byte, body.ContentSize),
	}
	if _, err := io.ReadFull(r, userData.Content); err != nil {
		return nil, errors.Wrapf(ErrFormat, "user data content truncated: %v", err)
	}

	if bytes.HasPrefix(userData.Content, replaySignature) {
		replay, err := parseReplayHeader(userData.Content)
		if err != nil {
			return nil, err
		}
		userData.Replay = replay
	}

	return userData, nil
}

// parseReplayHeader decodes the replay record from the first 39 bytes of
// user data content. Layout: one pad byte, the 19-byte identifier, two pads,
// four version bytes, the build number, six pads, the duration, one pad.
func parseReplayHeader(content []byte) (*ReplayHeader, error) {
	if len(content) < replayHeaderSize {
		return nil, errors.Wrapf(ErrFormat, "replay header is %d bytes, want at least %d", len(content), replayHeaderSize)
	}

	return &ReplayHeader{
		Identifier:         string(content[1:20]),
		ReleaseFlag:        content[22],
		MajorVersion:       content[23],
		MinorVersion:       content[24],
		MaintenanceVersion: content[25],
		BuildNumber:        binary.BigEndian.Uint32(content[26:30]),
		Duration:           binary.BigEndian.Uint16(content[36:38]),
	}, nil
}
