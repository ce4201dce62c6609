package macaroon

import (
	gc "gopkg.in/check.v1"
)

type validatorSuite struct{}

var _ = gc.Suite(&validatorSuite{})

func (*validatorSuite) TestRegistryDispatchesByPrefix(c *gc.C) {
	r := NewRegistry()
	r.Register("allow//", ValidatorFunc(func(Caveat) bool { return true }))
	r.Register("deny//", ValidatorFunc(func(Caveat) bool { return false }))

	c.Assert(NewCaveat([]byte("allow//x")).Validate(r.Resolve), gc.Equals, true)
	c.Assert(NewCaveat([]byte("deny//x")).Validate(r.Resolve), gc.Equals, false)
	c.Assert(NewCaveat([]byte("unregistered//x")).Validate(r.Resolve), gc.Equals, false)
}

func (*validatorSuite) TestRegistryPrefersLongestPrefix(c *gc.C) {
	r := NewRegistry()
	r.Register("a//", ValidatorFunc(func(Caveat) bool { return false }))
	r.Register("a//b//", ValidatorFunc(func(Caveat) bool { return true }))

	c.Assert(NewCaveat([]byte("a//b//c")).Validate(r.Resolve), gc.Equals, true)
}

func (*validatorSuite) TestRegistryReplacesOnReregister(c *gc.C) {
	r := NewRegistry()
	r.Register("x//", ValidatorFunc(func(Caveat) bool { return false }))
	r.Register("x//", ValidatorFunc(func(Caveat) bool { return true }))

	c.Assert(NewCaveat([]byte("x//y")).Validate(r.Resolve), gc.Equals, true)
}
