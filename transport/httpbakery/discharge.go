package httpbakery

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/ammaccare/macaroon/bakery"
	"github.com/ammaccare/macaroon/wire"
)

type dischargeRequest struct {
	// Cid is the base64 encoding of the third-party caveat
	// identifier to discharge, taken from the macaroon sent in a
	// WriteDischargeRequiredError response.
	Cid string `json:"cid"`
}

type dischargeResponse struct {
	Macaroon json.RawMessage `json:"macaroon"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewDischargeMux returns an httprouter.Router serving a single
// endpoint, POST /discharge, that runs discharger.Discharge over the
// cid submitted in the request body and responds with the resulting
// discharge macaroon JSON-encoded via the wire package.
func NewDischargeMux(discharger *bakery.Discharger) *httprouter.Router {
	r := httprouter.New()
	r.POST("/discharge", func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
		serveDischarge(w, req, discharger)
	})
	return r
}

func serveDischarge(w http.ResponseWriter, req *http.Request, discharger *bakery.Discharger) {
	var dr dischargeRequest
	if err := json.NewDecoder(req.Body).Decode(&dr); err != nil {
		writeError(w, http.StatusBadRequest, "cannot decode request body")
		return
	}
	cid, err := base64.StdEncoding.DecodeString(dr.Cid)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cid is not valid base64")
		return
	}
	discharge, err := discharger.Discharge(cid)
	if err != nil {
		logrus.WithError(err).Debug("discharge request rejected")
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	encoded, err := wire.MarshalJSON(discharge)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "cannot marshal discharge macaroon")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dischargeResponse{Macaroon: encoded})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
