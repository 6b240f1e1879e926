package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTransport marks a network-level failure: the request never produced an
// HTTP response. Callers with a degraded-mode fallback key off this.
var ErrTransport = errors.New("api: transport failure")

// Localized user-facing messages. The source site is French; these strings
// are surfaced verbatim in the UI.
const (
	MsgSlotTaken        = "Ce creneau est deja pris"
	MsgInvalidData      = "Donnees invalides"
	MsgPermissionDenied = "Acces non autorise"
	MsgServerError      = "Erreur serveur, veuillez reessayer"
	MsgNetworkError     = "Erreur de connexion, veuillez reessayer"
	MsgCannotPerformAll = "La praticienne ne peut pas realiser tous les soins selectionnes"
	MsgConflict         = "Ce creneau est en conflit avec un autre rendez-vous"
)

// Error is a backend-rejected request (non-2xx with a response body).
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Body)
}

// LocalizedMessage maps the error through the fixed status-to-message table,
// sniffing the body for the two known business-rule violations first.
func (e *Error) LocalizedMessage() string {
	body := strings.ToLower(e.Body)
	if strings.Contains(body, "cannot perform all selected services") {
		return MsgCannotPerformAll
	}
	if strings.Contains(body, "conflict") {
		return MsgConflict
	}

	switch {
	case e.StatusCode == http.StatusConflict:
		return MsgSlotTaken
	case e.StatusCode == http.StatusBadRequest:
		return MsgInvalidData
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return MsgPermissionDenied
	case e.StatusCode >= 500:
		return MsgServerError
	default:
		return MsgServerError
	}
}

// LocalizedMessage resolves any gateway error to a user-facing message.
func LocalizedMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.LocalizedMessage()
	}
	return MsgNetworkError
}

// IsTransport reports whether err is a network-level failure rather than a
// backend rejection.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
