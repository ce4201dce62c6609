package macaroon

import (
	gc "gopkg.in/check.v1"
)

type thirdPartySuite struct{}

var _ = gc.Suite(&thirdPartySuite{})

func (*thirdPartySuite) TestLookupCidRoundtrip(c *gc.C) {
	tp := NewLookupCid()
	ck := []byte("Some new freshly generated key..")
	id := []byte("Validation test for the third party")

	cid := tp.GetCid(ck, id)
	gotKey, gotID, ok := tp.FromCid(cid)
	c.Assert(ok, gc.Equals, true)
	c.Assert(gotKey, gc.DeepEquals, ck)
	c.Assert(gotID, gc.DeepEquals, id)
}

func (*thirdPartySuite) TestLookupCidUnknownCidFails(c *gc.C) {
	tp := NewLookupCid()
	_, _, ok := tp.FromCid([]byte("never seen"))
	c.Assert(ok, gc.Equals, false)
}

func (*thirdPartySuite) TestLookupCidDistinctCidsPerCall(c *gc.C) {
	tp := NewLookupCid()
	ck := []byte("key")
	id := []byte("id")
	cid1 := tp.GetCid(ck, id)
	cid2 := tp.GetCid(ck, id)
	c.Assert(cid1, gc.Not(gc.DeepEquals), cid2)
}

func (*thirdPartySuite) TestEncryptedChallengeRoundtrip(c *gc.C) {
	tp := NewEncryptedChallenge([]byte("shared secret"))
	ck := []byte("0123456789abcdef0123456789abcdef")[:32]
	id := []byte("an identifier")

	cid := tp.GetCid(ck, id)
	gotKey, gotID, ok := tp.FromCid(cid)
	c.Assert(ok, gc.Equals, true)
	c.Assert(gotKey, gc.DeepEquals, ck)
	c.Assert(gotID, gc.DeepEquals, id)
}

func (*thirdPartySuite) TestEncryptedChallengeWrongSharedKeyFails(c *gc.C) {
	tp1 := NewEncryptedChallenge([]byte("shared secret one"))
	tp2 := NewEncryptedChallenge([]byte("shared secret two"))

	cid := tp1.GetCid([]byte("0123456789abcdef0123456789abcdef")[:32], []byte("id"))
	_, _, ok := tp2.FromCid(cid)
	c.Assert(ok, gc.Equals, false)
}

func (*thirdPartySuite) TestEncryptedChallengeFresh(c *gc.C) {
	tp := NewEncryptedChallenge([]byte("shared secret"))
	cav, key := tp.Fresh()
	c.Assert(key, gc.HasLen, SignatureLen)
	c.Assert(cav.IsThirdParty(), gc.Equals, false)

	gotKey, _, ok := tp.FromCid(cav.Cid())
	c.Assert(ok, gc.Equals, true)
	c.Assert(gotKey, gc.DeepEquals, key)
}
