package wizard

import (
	"errors"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
)

// Client-side validation messages. Caught before any request is sent;
// surfaced inline in the UI.
const (
	MsgSelectPractitioner = "Selectionnez une praticienne"
	MsgSelectStart        = "Selectionnez un horaire"
	MsgStartInPast        = "L'horaire selectionne est deja passe"
	MsgSelectService      = "Selectionnez au moins un soin"
	MsgDurationTooLong    = "La duree totale depasse le creneau disponible"
	MsgClientRequired     = "Renseignez l'identite de la cliente"
	MsgContactRequired    = "Renseignez un telephone ou un email"
	MsgSaveInProgress     = "Enregistrement deja en cours"
)

// ValidationError is a client-side rejection: no request was issued.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "wizard: " + e.Message
}

// Localize resolves any submit error to its user-facing message:
// validation errors carry their own, gateway errors go through the fixed
// status table.
func Localize(err error) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return api.LocalizedMessage(err)
}
