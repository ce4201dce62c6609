package httpbakery_test

import (
	"encoding/json"
	"net/http/httptest"

	gc "gopkg.in/check.v1"

	"github.com/ammaccare/macaroon"
	"github.com/ammaccare/macaroon/transport/httpbakery"
)

type HandlerSuite struct{}

var _ = gc.Suite(&HandlerSuite{})

func (*HandlerSuite) TestWriteDischargeRequiredError(c *gc.C) {
	m := macaroon.Mint([]byte("root key"), []byte("id"))
	w := httptest.NewRecorder()
	err := httpbakery.WriteDischargeRequiredError(w, m, nil)
	c.Assert(err, gc.IsNil)
	c.Assert(w.Code, gc.Equals, 407)

	var body map[string]interface{}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &body), gc.IsNil)
	c.Assert(body["errorCode"], gc.Equals, "macaroon discharge required")
	c.Assert(body["error"], gc.Equals, "unauthorized")
}
