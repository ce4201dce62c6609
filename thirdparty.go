package macaroon

import (
	"crypto/rand"
	"sync"
)

// ThirdParty mints and inverts opaque third-party caveat identifiers,
// parameterizing how a discharge service communicates with the
// minter. GetCid is called by the minter when attaching a third-party
// caveat; FromCid is called by the discharge service to recover the
// key and predicate bundle a cid commits to.
type ThirdParty interface {
	GetCid(caveatKey, identifier []byte) []byte
	FromCid(cid []byte) (caveatKey, identifier []byte, ok bool)
}

// LookupCid is a ThirdParty backed by an in-process table, suitable
// when the minter and the discharge service share memory (tests,
// single-process demos). It is not suitable across processes.
type LookupCid struct {
	mu    sync.Mutex
	table map[string]lookupEntry
}

type lookupEntry struct {
	key        []byte
	identifier []byte
}

// NewLookupCid returns an empty LookupCid.
func NewLookupCid() *LookupCid {
	return &LookupCid{table: make(map[string]lookupEntry)}
}

func (l *LookupCid) GetCid(caveatKey, identifier []byte) []byte {
	cid := make([]byte, 32)
	if _, err := rand.Read(cid); err != nil {
		panic(err)
	}
	l.mu.Lock()
	l.table[string(cid)] = lookupEntry{
		key:        append([]byte(nil), caveatKey...),
		identifier: append([]byte(nil), identifier...),
	}
	l.mu.Unlock()
	return cid
}

func (l *LookupCid) FromCid(cid []byte) (caveatKey, identifier []byte, ok bool) {
	l.mu.Lock()
	e, found := l.table[string(cid)]
	l.mu.Unlock()
	if !found {
		return nil, nil, false
	}
	return e.key, e.identifier, true
}

// encryptedChallengeDomain is the fixed 32-byte domain-separation key
// used to derive EncryptedChallenge's shared key from constructor
// input: "ammaccare-encryptedchallenge-key".
var encryptedChallengeDomain = func() (k Signature) {
	copy(k[:], "ammaccare-encryptedchallenge-key")
	return k
}()

// EncryptedChallenge is a ThirdParty that needs no shared state with
// the discharge service beyond a long-lived shared key: a cid is a
// self-authenticated encrypted blob of (caveatKey || identifier)
// under that key.
type EncryptedChallenge struct {
	sharedKey Signature
}

// NewEncryptedChallenge derives a long-lived shared key from key by
// HMAC-ing it under a fixed domain-separation string distinct from
// DeriveRoot's, so an EncryptedChallenge key can never be confused
// with a macaroon root key even if the same raw bytes are reused.
func NewEncryptedChallenge(key []byte) *EncryptedChallenge {
	return &EncryptedChallenge{sharedKey: MAC(encryptedChallengeDomain, key)}
}

func (e *EncryptedChallenge) GetCid(caveatKey, identifier []byte) []byte {
	pt := make([]byte, 0, len(caveatKey)+len(identifier))
	pt = append(pt, caveatKey...)
	pt = append(pt, identifier...)
	return SEnc(e.sharedKey, pt)
}

func (e *EncryptedChallenge) FromCid(cid []byte) (caveatKey, identifier []byte, ok bool) {
	pt, err := SDec(e.sharedKey, cid)
	if err != nil || len(pt) < SignatureLen {
		return nil, nil, false
	}
	return pt[:SignatureLen], pt[SignatureLen:], true
}

// Fresh generates a random 32-byte caveat key and a random 32-byte
// identifier, wraps them in a fresh cid, and returns the new caveat
// together with the plaintext caveat key for the minter to feed into
// Macaroon.AddThirdPartyCaveat.
func (e *EncryptedChallenge) Fresh() (Caveat, []byte) {
	key := make([]byte, SignatureLen)
	id := make([]byte, SignatureLen)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	if _, err := rand.Read(id); err != nil {
		panic(err)
	}
	cid := e.GetCid(key, id)
	return NewCaveat(cid), key
}
