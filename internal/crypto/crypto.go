package crypto

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Hash kinds. The kind selects one of four bands of the encryption table,
// so the same string hashes to unrelated values under different kinds.
const (
	HashTableOffset uint32 = 0 // position probe into the hash table
	HashNameA       uint32 = 1 // first filename check hash
	HashNameB       uint32 = 2 // second filename check hash
	HashFileKey     uint32 = 3 // decryption key derivation
)

// encryptionTable backs both HashString and Decrypt. It is filled once at
// startup and only read afterwards.
var encryptionTable [0x500]uint32

func init() {
	seed := uint32(0x00100001)

	for i := 0; i < 0x100; i++ {
		index := i
		for round := 0; round < 5; round++ {
			seed = (seed*125 + 3) % 0x2AAAAB
			temp1 := (seed & 0xFFFF) << 0x10

			seed = (seed*125 + 3) % 0x2AAAAB
			temp2 := seed & 0xFFFF

			encryptionTable[index] = temp1 | temp2
			index += 0x100
		}
	}
}

// HashString computes the 32-bit hash of s under the given kind. Hashing is
// case-insensitive: ASCII letters are upper-cased before lookup. Bytes above
// 0x7F have no defined case fold in the format and are rejected.
func HashString(s string, kind uint32) (uint32, error) {
	seed1 := uint32(0x7FED7FED)
	seed2 := uint32(0xEEEEEEEE)

	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return 0, errors.Errorf("name %q contains non-ASCII byte 0x%02x", s, s[i])
		}

		ch := uint32(s[i])
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}

		seed1 = encryptionTable[(kind<<8)+ch] ^ (seed1 + seed2)
		seed2 = ch + seed1 + seed2 + (seed2 << 5) + 3
	}

	return seed1, nil
}

// Decrypt decrypts data in place under key. data is a sequence of
// little-endian 32-bit words, so its length must be a multiple of four.
func Decrypt(data []byte, key uint32) error {
	if len(data)%4 != 0 {
		return errors.Errorf("encrypted data is %d bytes, not a multiple of 4", len(data))
	}

	seed1 := key
	seed2 := uint32(0xEEEEEEEE)

	for i := 0; i < len(data); i += 4 {
		seed2 += encryptionTable[0x400+(seed1&0xFF)]

		word := binary.LittleEndian.Uint32(data[i:]) ^ (seed1 + seed2)

		// Not a plain rotate: seed1 is complemented before the shift.
		seed1 = ((^seed1 << 0x15) + 0x11111111) | (seed1 >> 0x0B)
		seed2 = word + seed2 + (seed2 << 5) + 3

		binary.LittleEndian.PutUint32(data[i:], word)
	}

	return nil
}

// Encrypt is the inverse of Decrypt. The key stream depends on the plaintext
// words, so the running seeds are updated from the plain value, not the
// cipher value.
func Encrypt(data []byte, key uint32) error {
	if len(data)%4 != 0 {
		return errors.Errorf("plain data is %d bytes, not a multiple of 4", len(data))
	}

	seed1 := key
	seed2 := uint32(0xEEEEEEEE)

	for i := 0; i < len(data); i += 4 {
		seed2 += encryptionTable[0x400+(seed1&0xFF)]

		plain := binary.LittleEndian.Uint32(data[i:])
		word := plain ^ (seed1 + seed2)

		seed1 = ((^seed1 << 0x15) + 0x11111111) | (seed1 >> 0x0B)
		seed2 = plain + seed2 + (seed2 << 5) + 3

		binary.LittleEndian.PutUint32(data[i:], word)
	}

	return nil
}
