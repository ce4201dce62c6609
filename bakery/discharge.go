package bakery

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/ammaccare/macaroon"
)

// NewMacarooner mints a macaroon with a given identifier, root key and
// caveats. *Service implements this.
type NewMacarooner interface {
	NewMacaroon(id []byte, rootKey []byte, caveats []Caveat) (*macaroon.Macaroon, error)
}

// A Discharger discharges third-party caveats minted by a Service.
type Discharger struct {
	// Checker decides what caveats (if any) the discharge macaroon
	// should carry, given the condition recovered from the caveat
	// identifier.
	Checker ThirdPartyChecker

	// ThirdParty recovers the caveat key and condition from a
	// caveat identifier. It must be the same capability the
	// minting Service used to produce the identifier.
	ThirdParty macaroon.ThirdParty

	// Factory mints the discharge macaroon. Note that *Service
	// implements NewMacarooner.
	Factory NewMacarooner
}

// Discharge recovers the caveat key and condition hidden in cid, runs
// d.Checker over the condition, and mints a discharge macaroon bound
// to cid as its identifier - the identifier a discharge macaroon must
// carry for Macaroon.verifyCaveats to find it by Cid in the target's
// discharge list.
func (d *Discharger) Discharge(cid []byte) (*macaroon.Macaroon, error) {
	logrus.WithField("cid_len", len(cid)).Debug("discharger attempting to discharge")
	caveatKey, condition, ok := d.ThirdParty.FromCid(cid)
	if !ok {
		return nil, errgo.New("discharger cannot decode caveat id")
	}
	caveats, err := d.Checker.CheckThirdPartyCaveat(condition)
	if err != nil {
		return nil, errgo.Mask(err)
	}
	return d.Factory.NewMacaroon(cid, caveatKey, caveats)
}
