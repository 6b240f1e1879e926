package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorLocalizedMessageTable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"conflict status", 409, `{"error":"busy"}`, MsgSlotTaken},
		{"bad request", 400, `{"error":"missing field"}`, MsgInvalidData},
		{"unauthorized", 401, "", MsgPermissionDenied},
		{"forbidden", 403, "", MsgPermissionDenied},
		{"server error", 500, "", MsgServerError},
		{"bad gateway", 502, "", MsgServerError},
		{"unknown status", 418, "", MsgServerError},
		{"cannot perform sniffing", 422, `{"error":"staff cannot perform all selected services"}`, MsgCannotPerformAll},
		{"conflict sniffing beats status", 400, `{"error":"appointment conflict detected"}`, MsgConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &Error{StatusCode: tt.status, Body: tt.body}
			assert.Equal(t, tt.want, err.LocalizedMessage())
		})
	}
}

func TestLocalizedMessageWrappedError(t *testing.T) {
	err := fmt.Errorf("create appointment: %w", &Error{StatusCode: 409})
	assert.Equal(t, MsgSlotTaken, LocalizedMessage(err))

	wrapped := fmt.Errorf("list services: %w: connection refused", ErrTransport)
	assert.Equal(t, MsgNetworkError, LocalizedMessage(wrapped))
	assert.True(t, IsTransport(wrapped))
	assert.Equal(t, "", LocalizedMessage(nil))
}
