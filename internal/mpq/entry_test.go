package mpq

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashEntryAt(t *testing.T) {
	table := make([]byte, 2*EntrySize)
	binary.LittleEndian.PutUint32(table[16:], 0x8BD6929A)
	binary.LittleEndian.PutUint32(table[20:], 0xFD55129B)
	binary.LittleEndian.PutUint16(table[24:], 0x409)
	binary.LittleEndian.PutUint16(table[26:], 0)
	binary.LittleEndian.PutUint32(table[28:], 7)

	entry := HashEntryAt(table, 1)
	assert.Equal(t, HashEntry{
		HashA:      0x8BD6929A,
		HashB:      0xFD55129B,
		Locale:     0x409,
		Platform:   0,
		BlockIndex: 7,
	}, entry)
	assert.Equal(t, "English", entry.Language())

	assert.Equal(t, HashEntry{}, HashEntryAt(table, 0))
}

func TestBlockEntryAt(t *testing.T) {
	table := make([]byte, EntrySize)
	binary.LittleEndian.PutUint32(table[0:], 128)
	binary.LittleEndian.PutUint32(table[4:], 11)
	binary.LittleEndian.PutUint32(table[8:], 42)
	binary.LittleEndian.PutUint32(table[12:], FlagExists|FlagCompress)

	entry := BlockEntryAt(table, 0)
	assert.Equal(t, BlockEntry{
		Offset:       128,
		ArchivedSize: 11,
		Size:         42,
		Flags:        FlagExists | FlagCompress,
	}, entry)
	assert.True(t, entry.Exists())
	assert.True(t, entry.Compressed())

	entry.Flags = FlagCompress
	assert.False(t, entry.Exists())

	entry.Flags = FlagExists
	assert.False(t, entry.Compressed())
}

func TestFlagNames(t *testing.T) {
	assert.Nil(t, FlagNames(0))
	assert.Equal(t, []string{"exists"}, FlagNames(FlagExists))
	assert.Equal(t,
		[]string{"compress", "encrypted", "single-unit", "exists"},
		FlagNames(FlagCompress|FlagEncrypted|FlagSingleUnit|FlagExists))
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		locale uint16
		want   string
	}{
		{0x000, "English"},
		{0x409, "English"},
		{0x407, "German"},
		{0x411, "Japanese"},
		{0x412, "Korean"},
		{0x419, "Russian"},
		{0x809, "English (UK)"},
		{0x123, "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Language(tt.locale), "locale %#x", tt.locale)
	}
}
