package macaroon

// Caveat restricts the authority a macaroon grants. A first-party
// caveat carries its predicate directly as Cid and is checked locally
// by a Validator; a third-party caveat carries an opaque Cid that a
// discharge service can invert, and a Vid holding the caveat's root
// key encrypted under the rolling signature of the macaroon it was
// attached to.
type Caveat struct {
	cid []byte
	vid []byte
	cl  []byte
}

// NewCaveat builds a first-party caveat whose predicate is the given
// bytes. Vid and Cl are unset; call SetVid to turn it into a
// third-party caveat during attachment.
func NewCaveat(predicate []byte) Caveat {
	return Caveat{cid: append([]byte(nil), predicate...)}
}

// IsThirdParty reports whether the caveat must be satisfied by a
// discharge macaroon, as opposed to a local Validator.
func (c Caveat) IsThirdParty() bool {
	return len(c.vid) > 0
}

// Cid returns the caveat identifier.
func (c Caveat) Cid() []byte { return c.cid }

// Vid returns the verifier identifier, or nil for a first-party
// caveat.
func (c Caveat) Vid() []byte { return c.vid }

// Cl returns the location hint, or nil if none was set. Cl never
// participates in any MAC and is purely advisory.
func (c Caveat) Cl() []byte { return c.cl }

// SetVid sets the verifier identifier, turning the caveat into a
// third-party caveat.
func (c *Caveat) SetVid(vid []byte) { c.vid = vid }

// SetCl sets the location hint.
func (c *Caveat) SetCl(cl []byte) { c.cl = cl }

// Validate resolves a Validator for the caveat via resolve and
// delegates to it. A caveat whose predicate resolves to no validator
// is rejected - unknown predicates must never succeed.
func (c Caveat) Validate(resolve func(Caveat) Validator) bool {
	v := resolve(c)
	if v == nil {
		return false
	}
	return v.Validate(c)
}
