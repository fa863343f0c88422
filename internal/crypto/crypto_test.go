package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptionTable(t *testing.T) {
	// First and last entries of the table, cross-checked against StormLib.
	first := []uint32{0x55C636E2, 0x02BE0170, 0x584B71D4, 0x2984F00E}
	for i, want := range first {
		assert.Equal(t, want, encryptionTable[i], "entry %#x", i)
	}

	last := []uint32{0xB0099EF4, 0xC5F653A5, 0x4C10790D, 0x7303286C}
	for i, want := range last {
		assert.Equal(t, want, encryptionTable[0x4FC+i], "entry %#x", 0x4FC+i)
	}

	assert.Equal(t, uint32(0x76F8C1B1), encryptionTable[0x100])
	assert.Equal(t, uint32(0x193AA698), encryptionTable[0x400])

	// Rebuilding from the generator parameters must reproduce the table
	// exactly.
	var rebuilt [0x500]uint32
	seed := uint32(0x00100001)
	for i := 0; i < 0x100; i++ {
		index := i
		for round := 0; round < 5; round++ {
			seed = (seed*125 + 3) % 0x2AAAAB
			temp1 := (seed & 0xFFFF) << 0x10
			seed = (seed*125 + 3) % 0x2AAAAB
			rebuilt[index] = temp1 | (seed & 0xFFFF)
			index += 0x100
		}
	}
	assert.Equal(t, rebuilt, encryptionTable)
}

func TestHashString(t *testing.T) {
	tests := []struct {
		name string
		kind uint32
		want uint32
	}{
		{"(hash table)", HashFileKey, 0xC3AF3770},
		{"(block table)", HashFileKey, 0xEC83B3A3},
		{"(listfile)", HashFileKey, 0x2D2F0A94},
		{"(listfile)", HashNameA, 0xFD657910},
		{"(listfile)", HashNameB, 0x4E9B98A7},
		{"(attributes)", HashNameA, 0xD38437CB},
		{"(attributes)", HashNameB, 0x07DFEAEC},
		{`ReplaceableTextures\CommandButtons\BTNHaboss79.blp`, HashNameA, 0x8BD6929A},
		{`ReplaceableTextures\CommandButtons\BTNHaboss79.blp`, HashNameB, 0xFD55129B},
		{"a.txt", HashNameA, 0x775DB9F0},
		{"a.txt", HashNameB, 0x8FB0A0BC},
		{"war3map.j", HashTableOffset, 0x0CCA3BE6},
		{"", HashNameA, 0x7FED7FED},
	}

	for _, tt := range tests {
		got, err := HashString(tt.name, tt.kind)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "HashString(%q, %d)", tt.name, tt.kind)
	}
}

func TestHashStringCaseInsensitive(t *testing.T) {
	for _, kind := range []uint32{HashTableOffset, HashNameA, HashNameB, HashFileKey} {
		lower, err := HashString("replay.details", kind)
		require.NoError(t, err)
		upper, err := HashString("REPLAY.Details", kind)
		require.NoError(t, err)
		assert.Equal(t, lower, upper, "kind %d", kind)
	}
}

func TestHashStringNonASCII(t *testing.T) {
	_, err := HashString("naïve.txt", HashNameA)
	require.Error(t, err)

	_, err = HashString(string([]byte{'a', 0x80, 'b'}), HashFileKey)
	require.Error(t, err)
}

func TestDecrypt(t *testing.T) {
	cipher := []byte{
		0xCC, 0xCE, 0x3E, 0x85, 0xDC, 0x22, 0xC9, 0x6D,
		0x61, 0xBB, 0xD2, 0xC1, 0x30, 0x66, 0x06, 0xDA,
	}
	plain := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

	got := append([]byte(nil), cipher...)
	require.NoError(t, Decrypt(got, 0xC3AF3770))
	assert.Equal(t, plain, got)

	// A different key must not yield the plaintext.
	got = append([]byte(nil), cipher...)
	require.NoError(t, Decrypt(got, 0xC3AF3771))
	assert.NotEqual(t, plain, got)
}

func TestDecryptOddLength(t *testing.T) {
	err := Decrypt(make([]byte, 5), 0x12345678)
	require.Error(t, err)

	require.NoError(t, Decrypt(nil, 0x12345678))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i * 7)
	}

	for _, key := range []uint32{0, 1, 0xC3AF3770, 0xFFFFFFFF} {
		buf := append([]byte(nil), data...)
		require.NoError(t, Encrypt(buf, key))
		assert.False(t, bytes.Equal(data, buf), "key %#x left data unchanged", key)

		require.NoError(t, Decrypt(buf, key))
		assert.Equal(t, data, buf, "key %#x", key)
	}
}
