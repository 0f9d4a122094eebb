package remote

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransportError_Is(t *testing.T) {
	tests := []struct {
		name         string
		err          *TransportError
		unavailable  bool
		unauthorized bool
	}{
		{name: "network", err: &TransportError{Kind: KindUnavailable, Op: "GET clients"}, unavailable: true},
		{name: "401", err: statusError("GET clients", http.StatusUnauthorized, nil), unauthorized: true},
		{name: "403", err: statusError("GET clients", http.StatusForbidden, nil), unauthorized: true},
		{name: "503", err: statusError("GET clients", http.StatusServiceUnavailable, nil), unavailable: true},
		{name: "404", err: statusError("GET clients/1", http.StatusNotFound, []byte("missing"))},
		{name: "decode", err: &TransportError{Kind: KindDecode, Op: "GET offices"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("list: %w", tt.err)
			assert.ErrorIs(t, wrapped, ErrTransport)
			assert.Equal(t, tt.unavailable, errors.Is(wrapped, ErrUnavailable))
			assert.Equal(t, tt.unauthorized, errors.Is(wrapped, ErrUnauthorized))
			assert.ErrorIs(t, wrapped, &TransportError{Kind: tt.err.Kind})
		})
	}
}

func TestTransportError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Kind: KindUnavailable, Op: "POST clients", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "remote POST clients: unavailable: connection refused", err.Error())

	st := statusError("GET clients/9", http.StatusNotFound, []byte(`{"defaultUserMessage":"missing"}`))
	assert.Equal(t, `remote GET clients/9: status (status 404): {"defaultUserMessage":"missing"}`, st.Error())
}

func TestStatusError_TruncatesMessage(t *testing.T) {
	body := make([]byte, 1000)
	for i := range body {
		body[i] = 'x'
	}
	err := statusError("GET x", http.StatusBadRequest, body)
	assert.Len(t, err.Message, 256)
	assert.Equal(t, KindStatus, err.Kind)
}
