// Package httpbakery serves discharge requests over HTTP, encoding the
// macaroons it carries with the wire package's JSON codec rather than
// the core macaroon package's own (deliberately opaque) byte layout.
package httpbakery

import (
	"encoding/json"
	"net/http"

	"github.com/ammaccare/macaroon"
	"github.com/ammaccare/macaroon/wire"
)

type dischargeRequiredResponse struct {
	Error     string          `json:"error"`
	ErrorCode string          `json:"errorCode"`
	Macaroon  json.RawMessage `json:"macaroon"`
}

const codeDischargeRequired = "macaroon discharge required"

// WriteDischargeRequiredError writes a 407 response to w carrying m
// JSON-encoded and the reason the caller's original request was
// rejected, telling the client which macaroon it needs a discharge
// for before retrying.
func WriteDischargeRequiredError(w http.ResponseWriter, m *macaroon.Macaroon, originalErr error) error {
	if originalErr == nil {
		originalErr = errUnauthorized
	}
	encoded, err := wire.MarshalJSON(m)
	if err != nil {
		http.Error(w, "internal error: cannot marshal macaroon", http.StatusInternalServerError)
		return err
	}
	respData, err := json.Marshal(dischargeRequiredResponse{
		Error:     originalErr.Error(),
		ErrorCode: codeDischargeRequired,
		Macaroon:  encoded,
	})
	if err != nil {
		http.Error(w, "internal error: cannot marshal response", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusProxyAuthRequired)
	_, err = w.Write(respData)
	return err
}

type simpleError string

func (e simpleError) Error() string { return string(e) }

const errUnauthorized = simpleError("unauthorized")
