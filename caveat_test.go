package macaroon

import (
	gc "gopkg.in/check.v1"
)

type caveatSuite struct{}

var _ = gc.Suite(&caveatSuite{})

func (*caveatSuite) TestNewCaveatIsFirstParty(c *gc.C) {
	cav := NewCaveat([]byte("predicate"))
	c.Assert(cav.IsThirdParty(), gc.Equals, false)
	c.Assert(cav.Cid(), gc.DeepEquals, []byte("predicate"))
	c.Assert(cav.Vid(), gc.HasLen, 0)
	c.Assert(cav.Cl(), gc.HasLen, 0)
}

func (*caveatSuite) TestSetVidMakesThirdParty(c *gc.C) {
	cav := NewCaveat([]byte("cid"))
	cav.SetVid([]byte("vid"))
	c.Assert(cav.IsThirdParty(), gc.Equals, true)
}

func (*caveatSuite) TestSetCl(c *gc.C) {
	cav := NewCaveat([]byte("cid"))
	cav.SetCl([]byte("https://example.org/"))
	c.Assert(cav.Cl(), gc.DeepEquals, []byte("https://example.org/"))
}

func (*caveatSuite) TestValidateNoResolverMatchFails(c *gc.C) {
	cav := NewCaveat([]byte("unknown predicate"))
	ok := cav.Validate(func(Caveat) Validator { return nil })
	c.Assert(ok, gc.Equals, false)
}

func (*caveatSuite) TestValidateDelegates(c *gc.C) {
	cav := NewCaveat([]byte("anything"))
	always := ValidatorFunc(func(Caveat) bool { return true })
	ok := cav.Validate(func(Caveat) Validator { return always })
	c.Assert(ok, gc.Equals, true)
}
