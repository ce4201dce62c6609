package checkers

import (
	"fmt"
	"time"

	"gopkg.in/errgo.v1"

	"github.com/ammaccare/macaroon"
)

// CondTimeBefore is the condition name of the time-before caveat.
const CondTimeBefore = "time-before"

// timeNow is the clock checkTimeBefore reads.
var timeNow = time.Now

// TimeBefore returns a first-party caveat predicate that is satisfied
// only while time.Now() is before t.
func TimeBefore(t time.Time) []byte {
	return []byte(fmt.Sprintf("%s %s", CondTimeBefore, t.UTC().Format(time.RFC3339Nano)))
}

func checkTimeBefore(arg string) error {
	t, err := time.Parse(time.RFC3339Nano, arg)
	if err != nil {
		return errgo.Notef(err, "cannot parse time-before argument")
	}
	if !timeNow().Before(t) {
		return errgo.Newf("macaroon has expired")
	}
	return nil
}

// Std is a Map preloaded with the checkers this package ships:
// time-before and declared. Embedders compose their own conditions
// into it with PushChecker, or build their own Map from scratch.
var Std = Map{
	CondTimeBefore: checkTimeBefore,
	CondDeclared:   checkDeclared,
}

var _ macaroon.Validator = Std
