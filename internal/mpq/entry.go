package mpq

import "encoding/binary"

// Block entry flag bits.
const (
	FlagImplode      uint32 = 0x00000100
	FlagCompress     uint32 = 0x00000200
	FlagEncrypted    uint32 = 0x00010000
	FlagFixKey       uint32 = 0x00020000
	FlagSingleUnit   uint32 = 0x01000000
	FlagDeleteMarker uint32 = 0x02000000
	FlagSectorCRC    uint32 = 0x04000000
	FlagExists       uint32 = 0x80000000
)

// CompressionZlib is the method id of the only compression this reader
// understands. It is the first byte of a compressed member's data.
const CompressionZlib byte = 0x02

// EntrySize is the encoded size of both hash and block table entries.
const EntrySize = 16

// Hash entries that map to no block carry one of these in BlockIndex.
const (
	BlockIndexEmpty   uint32 = 0xFFFFFFFF
	BlockIndexDeleted uint32 = 0xFFFFFFFE
)

// HashEntry maps a two-part name hash to a block table index.
type HashEntry struct {
	HashA      uint32
	HashB      uint32
	Locale     uint16
	Platform   uint16
	BlockIndex uint32
}

// Language returns the name of the entry's locale.
func (e HashEntry) Language() string {
	return Language(e.Locale)
}

// BlockEntry describes where one member's bytes live. Offset is relative to
// the header's BaseOffset.
type BlockEntry struct {
	Offset       uint32
	ArchivedSize uint32
	Size         uint32
	Flags        uint32
}

// Exists reports whether the entry describes a present file.
func (e BlockEntry) Exists() bool {
	return e.Flags&FlagExists != 0
}

// Compressed reports whether the member bytes start with a method id byte
// followed by compressed data.
func (e BlockEntry) Compressed() bool {
	return e.Flags&FlagCompress != 0
}

// HashEntryAt decodes entry i of a decrypted hash table buffer. The caller
// guarantees i is in range.
func HashEntryAt(table []byte, i int) HashEntry {
	raw := table[i*EntrySize : (i+1)*EntrySize]
	return HashEntry{
		HashA:      binary.LittleEndian.Uint32(raw[0:4]),
		HashB:      binary.LittleEndian.Uint32(raw[4:8]),
		Locale:     binary.LittleEndian.Uint16(raw[8:10]),
		Platform:   binary.LittleEndian.Uint16(raw[10:12]),
		BlockIndex: binary.LittleEndian.Uint32(raw[12:16]),
	}
}

// BlockEntryAt decodes entry i of a decrypted block table buffer. The caller
// guarantees i is in range.
func BlockEntryAt(table []byte, i int) BlockEntry {
	raw := table[i*EntrySize : (i+1)*EntrySize]
	return BlockEntry{
		Offset:       binary.LittleEndian.Uint32(raw[0:4]),
		ArchivedSize: binary.LittleEndian.Uint32(raw[4:8]),
		Size:         binary.LittleEndian.Uint32(raw[8:12]),
		Flags:        binary.LittleEndian.Uint32(raw[12:16]),
	}
}

var flagNames = []struct {
	bit  uint32
	name string
}{
	{FlagImplode, "implode"},
	{FlagCompress, "compress"},
	{FlagEncrypted, "encrypted"},
	{FlagFixKey, "fix-key"},
	{FlagSingleUnit, "single-unit"},
	{FlagDeleteMarker, "delete-marker"},
	{FlagSectorCRC, "sector-crc"},
	{FlagExists, "exists"},
}

// FlagNames expands a flags bitmask into the names of the set bits, in
// ascending bit order.
func FlagNames(flags uint32) []string {
	var names []string
	for _, f := range flagNames {
		if flags&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	return names
}
