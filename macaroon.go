// Package macaroon implements macaroons as described in the paper
// "Macaroons: Cookies with Contextual Caveats for Decentralized
// Authorization in the Cloud"
// (http://theory.stanford.edu/~ataly/Papers/macaroons.pdf).
//
// It is a byte-oriented core with no opinion on wire format, caveat
// policy language, or transport to discharge services: callers supply
// a Validator to resolve first-party predicates and a ThirdParty to
// mint and invert third-party caveat identifiers. See the wire,
// bakery/checkers and bakery packages for the ambient stack built on
// top of this core.
package macaroon

import "crypto/hmac"

// maxDischargeDepth bounds the recursion verifyInner performs over
// nested discharges, so that a malformed or adversarial discharge
// tree fails verification rather than exhausting the stack.
const maxDischargeDepth = 10

// Macaroon holds an identifier, a rolling signature, an ordered list
// of caveats, and any discharge macaroons attached to satisfy its
// third-party caveats. Macaroon is mutable - all mutating methods
// require exclusive access - but Verify is a pure read and may be
// called concurrently on distinct instances.
type Macaroon struct {
	identifier []byte
	signature  Signature
	caveats    []Caveat
	discharges []*Macaroon
}

// Mint creates a fresh macaroon bound to identifier under rawKey. The
// caveat list and discharge list are empty.
func Mint(rawKey, identifier []byte) *Macaroon {
	k0 := DeriveRoot(rawKey)
	return &Macaroon{
		identifier: append([]byte(nil), identifier...),
		signature:  MAC(k0, identifier),
	}
}

// Identifier returns the macaroon's identifier.
func (m *Macaroon) Identifier() []byte { return m.identifier }

// Signature returns the macaroon's current rolling signature.
func (m *Macaroon) Signature() Signature { return m.signature }

// Caveats returns the macaroon's caveats in attachment order. The
// returned slice shares storage with the macaroon and must not be
// mutated.
func (m *Macaroon) Caveats() []Caveat { return m.caveats }

// Discharges returns the discharge macaroons attached via Prepare, in
// attachment order.
func (m *Macaroon) Discharges() []*Macaroon { return m.discharges }

// FromParts reconstructs a Macaroon from its raw fields, bypassing
// Mint. It exists for codecs (see the wire package) that need to
// rebuild a Macaroon from a serialized form without access to the
// root key; the core package itself never needs it, since every
// Macaroon it creates comes from Mint. Callers are responsible for
// the invariant that signature is actually the chained MAC that
// caveats would produce - FromParts does not recompute or check it.
func FromParts(identifier []byte, signature Signature, caveats []Caveat, discharges []*Macaroon) *Macaroon {
	return &Macaroon{
		identifier: identifier,
		signature:  signature,
		caveats:    caveats,
		discharges: discharges,
	}
}

// AddFirstPartyCaveat attaches a first-party caveat and advances the
// rolling signature. The caveat's vid must be empty; use
// AddThirdPartyCaveat for caveats that require a discharge.
func (m *Macaroon) AddFirstPartyCaveat(caveat Caveat) {
	m.signature = MAC2(m.signature, caveat.Vid(), caveat.Cid())
	m.caveats = append(m.caveats, caveat)
}

// AddThirdPartyCaveat encrypts caveatKey under the current rolling
// signature (producing the caveat's vid), then attaches the caveat
// and advances the rolling signature. Ordering matters: vid is sealed
// before the signature advances, so only a party able to reconstruct
// the rolling signature up to this caveat's position can recover
// caveatKey.
func (m *Macaroon) AddThirdPartyCaveat(caveat Caveat, caveatKey []byte) {
	caveat.SetVid(SEnc(m.signature, caveatKey))
	m.signature = MAC2(m.signature, caveat.Vid(), caveat.Cid())
	m.caveats = append(m.caveats, caveat)
}

// bindForRequest returns mac(otherSig, m.signature), binding m's
// signature to the signature of the macaroon it will discharge. m is
// the target: the discharge's signature (otherSig) is always the key,
// and the target's signature is always the message.
func (m *Macaroon) bindForRequest(otherSig Signature) Signature {
	return MAC(otherSig, m.signature[:])
}

// Prepare rebinds discharge's signature to this macaroon via
// request-binding and attaches it. A discharge must be prepared
// against the exact target it will be presented with; a discharge
// prepared for one target will not verify against a different one.
// After Prepare, discharge's own signature chain no longer closes
// against its root key - only Verify on the target macaroon can
// consume the binding.
func (m *Macaroon) Prepare(discharge *Macaroon) {
	discharge.signature = m.bindForRequest(discharge.signature)
	m.discharges = append(m.discharges, discharge)
}

// Verify recomputes the signature chain from rawKey, dispatching
// first-party caveats to resolveValidator and third-party caveats to
// any matching attached discharge, and reports whether the recomputed
// signature matches m's stored signature. It returns a single
// boolean: there is no partial success and no distinction between a
// wrong key, a rejected caveat, a missing discharge or a crypto
// failure.
func (m *Macaroon) Verify(rawKey []byte, resolveValidator func(Caveat) Validator) bool {
	k0 := DeriveRoot(rawKey)
	sig := MAC(k0, m.identifier)
	ok, sig := m.verifyCaveats(sig, m, resolveValidator, 0)
	if !ok {
		return false
	}
	return hmac.Equal(sig[:], m.signature[:])
}

// verifyInner verifies m as a discharge macaroon within the
// verification of target (the outermost macaroon whose Verify was
// invoked), consuming the request-binding Prepare applied.
func (m *Macaroon) verifyInner(rawKey []byte, target *Macaroon, resolveValidator func(Caveat) Validator, depth int) bool {
	if depth > maxDischargeDepth {
		return false
	}
	k0 := DeriveRoot(rawKey)
	sig := MAC(k0, m.identifier)
	ok, sig := m.verifyCaveats(sig, target, resolveValidator, depth)
	if !ok {
		return false
	}
	sig = target.bindForRequest(sig)
	return hmac.Equal(sig[:], m.signature[:])
}

// verifyCaveats walks m's caveat list in order, advancing sig exactly
// as AddFirstPartyCaveat/AddThirdPartyCaveat did when the caveats were
// attached. target is the outermost macaroon being verified; it is
// threaded unchanged through recursive discharge verification because
// request-binding was computed against its signature.
func (m *Macaroon) verifyCaveats(sig Signature, target *Macaroon, resolveValidator func(Caveat) Validator, depth int) (bool, Signature) {
	for _, cav := range m.caveats {
		if cav.IsThirdParty() {
			caveatKey, err := SDec(sig, cav.Vid())
			if err != nil {
				return false, sig
			}
			found := false
			for _, dm := range target.discharges {
				if string(dm.identifier) != string(cav.Cid()) {
					continue
				}
				if dm.verifyInner(caveatKey, target, resolveValidator, depth+1) {
					found = true
					break
				}
			}
			if !found {
				return false, sig
			}
		} else {
			if !cav.Validate(resolveValidator) {
				return false, sig
			}
		}
		sig = MAC2(sig, cav.Vid(), cav.Cid())
	}
	return true, sig
}
