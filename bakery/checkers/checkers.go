// Package checkers provides standard first-party caveat checkers and
// checker-combining functions, satisfying macaroon.Validator. Condition
// checkers are registered into a Map value that embedders compose
// rather than a fixed built-in set.
package checkers

import (
	"strings"

	"gopkg.in/errgo.v1"

	"github.com/ammaccare/macaroon"
)

// ParseCaveat splits a predicate into a condition (everything before
// the first space) and an argument (everything after). The identifier
// is taken from all the characters before the first space character.
func ParseCaveat(predicate string) (condition, arg string, err error) {
	if predicate == "" {
		return "", "", errgo.New("empty caveat")
	}
	i := strings.IndexByte(predicate, ' ')
	if i < 0 {
		return predicate, "", nil
	}
	if i == 0 {
		return "", "", errgo.New("caveat starts with space character")
	}
	return predicate[:i], predicate[i+1:], nil
}

// CheckerFunc checks the argument of a caveat whose condition already
// matched. It returns an error describing why the condition does not
// hold.
type CheckerFunc func(arg string) error

// Map dispatches a caveat to a CheckerFunc by condition and implements
// macaroon.Validator: a predicate whose condition is not registered is
// not recognized, and Validate returns false for it exactly as the
// core contract requires for any caveat with no resolvable validator.
type Map map[string]CheckerFunc

// Validate implements macaroon.Validator.
func (m Map) Validate(cav macaroon.Caveat) bool {
	condition, arg, err := ParseCaveat(string(cav.Cid()))
	if err != nil {
		return false
	}
	check, ok := m[condition]
	if !ok {
		return false
	}
	return check(arg) == nil
}

// AsValidator adapts m to the resolver signature expected by
// macaroon.Caveat.Validate / macaroon.Macaroon.Verify.
func (m Map) AsValidator() func(macaroon.Caveat) macaroon.Validator {
	return func(macaroon.Caveat) macaroon.Validator { return m }
}

// PushChecker returns a Map-shaped Validator that tries c0 first and
// falls back to c1 for any condition c0 does not recognize.
func PushChecker(c0, c1 Map) macaroon.Validator {
	return macaroon.ValidatorFunc(func(cav macaroon.Caveat) bool {
		condition, _, err := ParseCaveat(string(cav.Cid()))
		if err != nil {
			return false
		}
		if _, ok := c0[condition]; ok {
			return c0.Validate(cav)
		}
		return c1.Validate(cav)
	})
}
