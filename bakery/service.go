// Package bakery layers minting, storage and checking of macaroons on
// top of the macaroon package, providing a transport-agnostic way of
// issuing capabilities and discharging the third-party caveats placed
// on them.
package bakery

import (
	"crypto/rand"

	"github.com/sirupsen/logrus"
	"gopkg.in/errgo.v1"

	"github.com/ammaccare/macaroon"
)

// Service mints and checks macaroons for a single location.
type Service struct {
	location   string
	store      storage
	thirdParty macaroon.ThirdParty
}

// NewServiceParams holds the parameters for NewService.
type NewServiceParams struct {
	// Location names the service. It is returned by Location and
	// included in log output; it is not stored in the macaroons the
	// service mints and has no effect on minting or checking.
	Location string

	// Store holds root keys and caveats for macaroons this service
	// has minted. If nil, an in-memory store is used.
	Store Storage

	// ThirdParty mints and recovers the caveat identifiers used
	// when AddCaveat is given a Caveat with a non-empty Location.
	// It may be nil if the service only ever mints first-party
	// caveats.
	ThirdParty macaroon.ThirdParty
}

// NewService returns a new Service.
func NewService(p NewServiceParams) *Service {
	store := p.Store
	if store == nil {
		store = NewMemStorage()
	}
	return &Service{
		location:   p.Location,
		store:      storage{store: store},
		thirdParty: p.ThirdParty,
	}
}

// Location returns the service's location.
func (svc *Service) Location() string { return svc.location }

// NewMacaroon mints a new macaroon with the given identifier and
// caveats. If id is empty, a random identifier is generated. If
// rootKey is nil, a random root key is generated.
func (svc *Service) NewMacaroon(id []byte, rootKey []byte, caveats []Caveat) (*macaroon.Macaroon, error) {
	if len(id) == 0 {
		newID, err := randomBytes(24)
		if err != nil {
			return nil, errgo.Notef(err, "cannot generate macaroon identifier")
		}
		id = newID
	}
	if rootKey == nil {
		newKey, err := randomBytes(24)
		if err != nil {
			return nil, errgo.Notef(err, "cannot generate root key")
		}
		rootKey = newKey
	}
	m := macaroon.Mint(rootKey, id)
	if err := svc.store.Put(string(id), &storageItem{RootKey: rootKey, Caveats: caveats}); err != nil {
		return nil, errgo.Notef(err, "cannot store root key")
	}
	for _, cav := range caveats {
		if err := svc.AddCaveat(m, cav); err != nil {
			return nil, err
		}
	}
	logrus.WithFields(logrus.Fields{
		"location": svc.location,
		"caveats":  len(caveats),
	}).Debug("minted macaroon")
	return m, nil
}

// AddCaveat adds cav to m, minting a fresh third-party caveat key and
// routing it through svc.thirdParty when cav.Location is non-empty.
func (svc *Service) AddCaveat(m *macaroon.Macaroon, cav Caveat) error {
	if cav.Location == "" {
		m.AddFirstPartyCaveat(macaroon.NewCaveat(cav.Condition))
		return nil
	}
	if svc.thirdParty == nil {
		return errgo.Newf("service has no third-party capability configured for location %q", cav.Location)
	}
	// Must be exactly macaroon.SignatureLen: EncryptedChallenge splits
	// its FromCid plaintext at that boundary, so a shorter key would be
	// silently padded with condition bytes and mint the discharge under
	// the wrong root key.
	caveatKey, err := randomBytes(macaroon.SignatureLen)
	if err != nil {
		return errgo.Notef(err, "cannot generate third-party caveat key")
	}
	cid := svc.thirdParty.GetCid(caveatKey, cav.Condition)
	tpCaveat := macaroon.NewCaveat(cid)
	tpCaveat.SetCl([]byte(cav.Location))
	m.AddThirdPartyCaveat(tpCaveat, caveatKey)
	return nil
}

// Check verifies m, with any discharge macaroons already attached via
// m.Prepare, against rootKey and resolveValidator.
func (svc *Service) Check(m *macaroon.Macaroon, rootKey []byte, resolveValidator func(macaroon.Caveat) macaroon.Validator) error {
	if !m.Verify(rootKey, resolveValidator) {
		return &VerificationError{Reason: errgo.New("macaroon verification failed")}
	}
	return nil
}

// VerificationError reports why a macaroon failed to verify.
type VerificationError struct {
	Reason error
}

func (e *VerificationError) Error() string {
	return "verification failed: " + e.Reason.Error()
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
