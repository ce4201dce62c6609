package httpbakery

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/ammaccare/macaroon"
	"github.com/ammaccare/macaroon/wire"
)

// Client fetches discharge macaroons from a discharge service's
// /discharge endpoint. It carries a cookiejar.Jar so a caller that
// reuses a Client across requests to the same discharge service
// benefits from ordinary HTTP cookie persistence; it passes no
// PublicSuffixList and relies on the jar's default same-domain
// behavior.
type Client struct {
	HTTPClient *http.Client
}

// NewClient returns a Client with a fresh, domain-scoped cookie jar.
func NewClient() (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{HTTPClient: &http.Client{Jar: jar}}, nil
}

// DischargeThirdPartyCaveat asks the discharge service at dischargeURL
// to discharge the third-party caveat identified by cid, returning the
// discharge macaroon it mints.
func (c *Client) DischargeThirdPartyCaveat(dischargeURL string, cid []byte) (*macaroon.Macaroon, error) {
	body, err := json.Marshal(dischargeRequest{Cid: base64.StdEncoding.EncodeToString(cid)})
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Post(dischargeURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		json.NewDecoder(resp.Body).Decode(&errResp)
		return nil, fmt.Errorf("discharge request failed (%d): %s", resp.StatusCode, errResp.Error)
	}
	var dr dischargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("cannot decode discharge response: %v", err)
	}
	return wire.UnmarshalJSON(dr.Macaroon)
}
