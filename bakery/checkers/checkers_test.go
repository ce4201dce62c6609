package checkers_test

import (
	"testing"
	"time"

	gc "gopkg.in/check.v1"

	"github.com/ammaccare/macaroon"
	"github.com/ammaccare/macaroon/bakery/checkers"
)

func Test(t *testing.T) { gc.TestingT(t) }

type checkersSuite struct{}

var _ = gc.Suite(&checkersSuite{})

func (*checkersSuite) TestTimeBeforeAccepts(c *gc.C) {
	cav := macaroon.NewCaveat(checkers.TimeBefore(time.Now().Add(time.Hour)))
	c.Assert(checkers.Std.Validate(cav), gc.Equals, true)
}

func (*checkersSuite) TestTimeBeforeRejectsExpired(c *gc.C) {
	cav := macaroon.NewCaveat(checkers.TimeBefore(time.Now().Add(-time.Hour)))
	c.Assert(checkers.Std.Validate(cav), gc.Equals, false)
}

func (*checkersSuite) TestUnrecognizedConditionRejected(c *gc.C) {
	cav := macaroon.NewCaveat([]byte("no-such-condition foo"))
	c.Assert(checkers.Std.Validate(cav), gc.Equals, false)
}

func (*checkersSuite) TestDeclaredChecker(c *gc.C) {
	cav := macaroon.NewCaveat(checkers.Declared("user", "alice"))
	m := checkers.DeclaredChecker(map[string]string{"user": "alice"})
	c.Assert(m.Validate(cav), gc.Equals, true)

	wrong := checkers.DeclaredChecker(map[string]string{"user": "bob"})
	c.Assert(wrong.Validate(cav), gc.Equals, false)
}

func (*checkersSuite) TestPushChecker(c *gc.C) {
	custom := checkers.Map{
		"custom": func(arg string) error {
			if arg != "ok" {
				return errTest
			}
			return nil
		},
	}
	combined := checkers.PushChecker(custom, checkers.Std)

	c.Assert(combined.Validate(macaroon.NewCaveat([]byte("custom ok"))), gc.Equals, true)
	c.Assert(combined.Validate(macaroon.NewCaveat([]byte("custom nope"))), gc.Equals, false)
	c.Assert(combined.Validate(macaroon.NewCaveat(checkers.TimeBefore(time.Now().Add(time.Hour)))), gc.Equals, true)
}

var errTest = &testError{"condition not met"}

type testError struct{ s string }

func (e *testError) Error() string { return e.s }
