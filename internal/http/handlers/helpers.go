// Package handlers exposes the booking wizard, planning grid, session and
// content surfaces over HTTP. Handlers translate between the browser-facing
// JSON shapes and the institute gateway, localizing errors on the way out.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/wizard"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeGatewayError maps an upstream failure to a status and localized
// message. Gateway statuses pass through; transport failures become 502.
func writeGatewayError(w http.ResponseWriter, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.StatusCode, apiErr.LocalizedMessage())
		return
	}
	if api.IsTransport(err) {
		writeError(w, http.StatusBadGateway, api.MsgNetworkError)
		return
	}
	writeError(w, http.StatusInternalServerError, api.MsgServerError)
}

// writeSubmitError maps a wizard submit failure. Validation failures never
// reached the gateway and come back as 400; a losing booking race is a 409.
func writeSubmitError(w http.ResponseWriter, err error) {
	msg := wizard.Localize(err)
	var vErr *wizard.ValidationError
	if errors.As(err, &vErr) {
		status := http.StatusBadRequest
		if vErr.Message == api.MsgSlotTaken {
			status = http.StatusConflict
		}
		writeError(w, status, msg)
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.StatusCode, msg)
		return
	}
	if api.IsTransport(err) {
		writeError(w, http.StatusBadGateway, msg)
		return
	}
	writeError(w, http.StatusInternalServerError, msg)
}
