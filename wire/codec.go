// Package wire implements the binary and JSON encodings used to put
// a macaroon.Macaroon and its attached discharges on the wire. This
// is an external collaborator to the macaroon core: nothing in
// package macaroon imports it, and any encoder satisfying the same
// round-trip contract (identifier, every caveat's cid/vid/cl in
// order, signature, and each discharge recursively) is equally valid.
package wire

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/ammaccare/macaroon"
)

const (
	fieldIdentifier = "identifier"
	fieldSignature  = "signature"
	fieldCaveatId   = "cid"
	fieldVid        = "vid"
	fieldLocation   = "cl"
	fieldDischarge  = "discharge"
)

// MarshalBinary encodes m using the packet framing described in
// packet.go: identifier, each caveat's cid/vid/cl packets in
// attachment order, the signature, then each discharge recursively
// encoded the same way and wrapped in its own "discharge" packet.
func MarshalBinary(m *macaroon.Macaroon) ([]byte, error) {
	var buf []byte
	var err error
	buf, err = appendPacket(buf, fieldIdentifier, m.Identifier())
	if err != nil {
		return nil, err
	}
	for _, cav := range m.Caveats() {
		buf, err = appendPacket(buf, fieldCaveatId, cav.Cid())
		if err != nil {
			return nil, err
		}
		if cav.IsThirdParty() {
			buf, err = appendPacket(buf, fieldVid, cav.Vid())
			if err != nil {
				return nil, err
			}
		}
		if len(cav.Cl()) > 0 {
			buf, err = appendPacket(buf, fieldLocation, cav.Cl())
			if err != nil {
				return nil, err
			}
		}
	}
	sig := m.Signature()
	buf, err = appendPacket(buf, fieldSignature, sig[:])
	if err != nil {
		return nil, err
	}
	for _, d := range m.Discharges() {
		db, err := MarshalBinary(d)
		if err != nil {
			return nil, err
		}
		buf, err = appendPacket(buf, fieldDischarge, db)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary.
func UnmarshalBinary(data []byte) (*macaroon.Macaroon, error) {
	p, rest, err := parsePacket(data)
	if err != nil {
		return nil, err
	}
	if p.field != fieldIdentifier {
		return nil, fmt.Errorf("wire: expected %q, got %q", fieldIdentifier, p.field)
	}
	identifier := p.data

	var caveats []macaroon.Caveat
	var discharges []*macaroon.Macaroon
	var sig macaroon.Signature
	haveSig := false
	var cur *macaroon.Caveat

	flush := func() {
		if cur != nil {
			caveats = append(caveats, *cur)
			cur = nil
		}
	}

	for len(rest) > 0 {
		p, next, err := parsePacket(rest)
		if err != nil {
			return nil, err
		}
		rest = next
		switch p.field {
		case fieldCaveatId:
			flush()
			c := macaroon.NewCaveat(p.data)
			cur = &c
		case fieldVid:
			if cur == nil {
				return nil, fmt.Errorf("wire: %q packet without a preceding %q", fieldVid, fieldCaveatId)
			}
			cur.SetVid(p.data)
		case fieldLocation:
			if cur == nil {
				return nil, fmt.Errorf("wire: %q packet without a preceding %q", fieldLocation, fieldCaveatId)
			}
			cur.SetCl(p.data)
		case fieldSignature:
			flush()
			if len(p.data) != macaroon.SignatureLen {
				return nil, fmt.Errorf("wire: signature has wrong length %d", len(p.data))
			}
			copy(sig[:], p.data)
			haveSig = true
		case fieldDischarge:
			d, err := UnmarshalBinary(p.data)
			if err != nil {
				return nil, fmt.Errorf("wire: cannot decode discharge: %v", err)
			}
			discharges = append(discharges, d)
		default:
			return nil, fmt.Errorf("wire: unexpected field %q", p.field)
		}
	}
	if !haveSig {
		return nil, fmt.Errorf("wire: missing signature")
	}
	return macaroon.FromParts(identifier, sig, caveats, discharges), nil
}

// caveatJSON is the JSON encoding of a single caveat: cid and vid are
// base64-encoded since they are arbitrary bytes.
type caveatJSON struct {
	Cid string `json:"cid"`
	Vid string `json:"vid,omitempty"`
	Cl  string `json:"cl,omitempty"`
}

type macaroonJSON struct {
	Identifier string       `json:"identifier"`
	Signature  string       `json:"signature"`
	Caveats    []caveatJSON `json:"caveats"`
	Discharges []*macaroonJSON `json:"discharges,omitempty"`
}

func toJSON(m *macaroon.Macaroon) *macaroonJSON {
	sig := m.Signature()
	mj := &macaroonJSON{
		Identifier: base64.StdEncoding.EncodeToString(m.Identifier()),
		Signature:  base64.StdEncoding.EncodeToString(sig[:]),
	}
	for _, cav := range m.Caveats() {
		cj := caveatJSON{
			Cid: base64.StdEncoding.EncodeToString(cav.Cid()),
		}
		if cav.IsThirdParty() {
			cj.Vid = base64.StdEncoding.EncodeToString(cav.Vid())
		}
		if len(cav.Cl()) > 0 {
			cj.Cl = base64.StdEncoding.EncodeToString(cav.Cl())
		}
		mj.Caveats = append(mj.Caveats, cj)
	}
	for _, d := range m.Discharges() {
		mj.Discharges = append(mj.Discharges, toJSON(d))
	}
	return mj
}

func fromJSON(mj *macaroonJSON) (*macaroon.Macaroon, error) {
	identifier, err := base64.StdEncoding.DecodeString(mj.Identifier)
	if err != nil {
		return nil, fmt.Errorf("wire: cannot decode identifier: %v", err)
	}
	sigBytes, err := base64.StdEncoding.DecodeString(mj.Signature)
	if err != nil {
		return nil, fmt.Errorf("wire: cannot decode signature: %v", err)
	}
	if len(sigBytes) != macaroon.SignatureLen {
		return nil, fmt.Errorf("wire: signature has wrong length %d", len(sigBytes))
	}
	var sig macaroon.Signature
	copy(sig[:], sigBytes)

	caveats := make([]macaroon.Caveat, len(mj.Caveats))
	for i, cj := range mj.Caveats {
		cid, err := base64.StdEncoding.DecodeString(cj.Cid)
		if err != nil {
			return nil, fmt.Errorf("wire: cannot decode cid: %v", err)
		}
		cav := macaroon.NewCaveat(cid)
		if cj.Vid != "" {
			vid, err := base64.StdEncoding.DecodeString(cj.Vid)
			if err != nil {
				return nil, fmt.Errorf("wire: cannot decode vid: %v", err)
			}
			cav.SetVid(vid)
		}
		if cj.Cl != "" {
			cl, err := base64.StdEncoding.DecodeString(cj.Cl)
			if err != nil {
				return nil, fmt.Errorf("wire: cannot decode cl: %v", err)
			}
			cav.SetCl(cl)
		}
		caveats[i] = cav
	}

	discharges := make([]*macaroon.Macaroon, len(mj.Discharges))
	for i, dj := range mj.Discharges {
		d, err := fromJSON(dj)
		if err != nil {
			return nil, err
		}
		discharges[i] = d
	}

	return macaroon.FromParts(identifier, sig, caveats, discharges), nil
}

// MarshalJSON encodes m as JSON, including its attached discharges.
func MarshalJSON(m *macaroon.Macaroon) ([]byte, error) {
	return json.Marshal(toJSON(m))
}

// UnmarshalJSON decodes JSON produced by MarshalJSON.
func UnmarshalJSON(data []byte) (*macaroon.Macaroon, error) {
	var mj macaroonJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return nil, fmt.Errorf("wire: cannot unmarshal json: %v", err)
	}
	return fromJSON(&mj)
}
