package macaroon

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// SignatureLen is the fixed size of a Signature, and of every key
	// this package hands to HMAC-SHA256 or secretbox.
	SignatureLen = 32
	nonceLen     = 24
)

// Signature is the rolling MAC state of a macaroon. It doubles as an
// HMAC key (for the next caveat in the chain) and as a secretbox key
// (when encrypting a third-party caveat's root key); which role
// applies is determined entirely by the call site, never by the bytes
// themselves. A Signature is only ever produced by MAC, MAC2 or
// DeriveRoot below - never accept one from outside this package.
type Signature [SignatureLen]byte

// keyGenerator is the fixed domain-separation key used to turn an
// arbitrary-length root key into a Signature-shaped HMAC key. It is
// "macaroons-key-generator" right-padded with NUL to 32 bytes.
var keyGenerator = func() (k [SignatureLen]byte) {
	copy(k[:], "macaroons-key-generator")
	return k
}()

// DeriveRoot turns a user-supplied root key of any length into a
// Signature suitable as the key for MAC and MAC2, using a
// domain-separated HMAC so that a root key can never be confused with
// a key used for some other protocol.
func DeriveRoot(rawKey []byte) Signature {
	return MAC(Signature(keyGenerator), rawKey)
}

// MAC computes HMAC-SHA256(k, x).
func MAC(k Signature, x []byte) Signature {
	h := hmac.New(sha256.New, k[:])
	h.Write(x)
	var out Signature
	h.Sum(out[:0])
	return out
}

// MAC2 computes HMAC-SHA256(k, x1 || x2) as a streaming update of x1
// then x2, so that callers never need to allocate a joined buffer. It
// is bit-for-bit equal to MAC(k, append(x1, x2...)), and so, when x1
// is empty, also equal to MAC(k, x2) - writing zero bytes to the
// underlying hash is a no-op. Callers (notably first-party caveat
// chaining) must still call MAC2 uniformly rather than special-casing
// an empty x1 to call MAC directly, so the chaining code has one path
// regardless of caveat kind.
func MAC2(k Signature, x1, x2 []byte) Signature {
	h := hmac.New(sha256.New, k[:])
	h.Write(x1)
	h.Write(x2)
	var out Signature
	h.Sum(out[:0])
	return out
}

// SEnc authenticated-encrypts m under k with a fresh random 24-byte
// nonce, returning nonce || ciphertext || tag. Every call yields a
// distinct output even for identical (k, m).
func SEnc(k Signature, m []byte) []byte {
	nonce, err := newNonce(rand.Reader)
	if err != nil {
		// crypto/rand.Reader does not fail in practice; a caller
		// supplying a broken io.Reader would indicate a deeply
		// misconfigured process, not a condition this API should
		// surface as a recoverable error.
		panic(err)
	}
	out := make([]byte, 0, len(nonce)+secretbox.Overhead+len(m))
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, m, nonce, (*[SignatureLen]byte)(&k))
}

// SDec splits the first 24 bytes of c off as a nonce, then verifies
// and decrypts the remainder under k. It fails if the authentication
// tag does not match or if c is shorter than a nonce plus tag -
// including a truncated or entirely empty c, which must never panic.
func SDec(k Signature, c []byte) ([]byte, error) {
	if len(c) < nonceLen+secretbox.Overhead {
		return nil, fmt.Errorf("macaroon: ciphertext too short")
	}
	var nonce [nonceLen]byte
	copy(nonce[:], c)
	out, ok := secretbox.Open(nil, c[nonceLen:], &nonce, (*[SignatureLen]byte)(&k))
	if !ok {
		return nil, fmt.Errorf("macaroon: decryption failure")
	}
	return out, nil
}

func newNonce(r io.Reader) (*[nonceLen]byte, error) {
	var nonce [nonceLen]byte
	if _, err := io.ReadFull(r, nonce[:]); err != nil {
		return nil, fmt.Errorf("cannot generate random bytes: %v", err)
	}
	return &nonce, nil
}
