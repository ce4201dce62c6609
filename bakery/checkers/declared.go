package checkers

import (
	"strings"

	"gopkg.in/errgo.v1"
)

// CondDeclared is the condition name of the declared caveat.
const CondDeclared = "declared"

// Declared returns a first-party caveat predicate asserting that key
// is bound to value wherever the macaroon is verified. It is
// satisfied only when the verifying side supplies a matching
// declaration through DeclaredChecker.
func Declared(key, value string) []byte {
	return []byte(CondDeclared + " " + key + " " + value)
}

// checkDeclared is the Std entry for CondDeclared; on its own (with no
// ambient declarations) it always fails, since an unqualified
// "declared" condition can never be satisfied without a verifier
// supplying the expected value - see DeclaredChecker.
func checkDeclared(arg string) error {
	return errgo.Newf("no declared value available for %q", arg)
}

// DeclaredChecker returns a Map whose "declared" entry is satisfied
// only when key/value in the caveat's argument matches an entry in
// declared. Compose it ahead of Std with PushChecker so a verifying
// service can supply the context-specific values it has authenticated
// (e.g. a username bound during login) without the core macaroon
// package ever seeing them.
func DeclaredChecker(declared map[string]string) Map {
	return Map{
		CondDeclared: func(arg string) error {
			i := strings.IndexByte(arg, ' ')
			if i < 0 {
				return errgo.Newf("malformed declared caveat %q", arg)
			}
			key, value := arg[:i], arg[i+1:]
			if declared[key] != value {
				return errgo.Newf("declared %q does not match", key)
			}
			return nil
		},
	}
}
