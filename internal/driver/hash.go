package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// renderKey hashes everything a rendered comment depends on. Fields are
// length-prefixed so that ("ab", "c") and ("a", "bc") differ.
func renderKey(fingerprint, brief, note string) Digest {
	h := sha256.New()
	var n [8]byte
	binary.BigEndian.PutUint16(n[:2], cacheSchemaVersion)
	_, _ = h.Write(n[:2])
	for _, s := range []string{fingerprint, brief, note} {
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		_, _ = h.Write(n[:])
		_, _ = h.Write([]byte(s))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
