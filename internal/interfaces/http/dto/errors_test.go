package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"not found", ErrCodeNotFound, http.StatusNotFound},
		{"duplicate slot conflicts", ErrCodeDuplicateSlot, http.StatusConflict},
		{"duplicate charge conflicts", ErrCodeDuplicateCharge, http.StatusConflict},
		{"in-flight charge conflicts", ErrCodeChargeInFlight, http.StatusConflict},
		{"missing tax id is unprocessable", ErrCodeMissingTaxID, http.StatusUnprocessableEntity},
		{"nothing to charge is unprocessable", ErrCodeNothingToCharge, http.StatusUnprocessableEntity},
		{"no responsible tenant is unprocessable", ErrCodeNoResponsibleTenant, http.StatusUnprocessableEntity},
		{"submission failure is bad gateway", ErrCodeChargeSubmission, http.StatusBadGateway},
		{"stale customer is bad gateway", ErrCodeStaleCustomerRef, http.StatusBadGateway},
		{"bad request", ErrCodeBadRequest, http.StatusBadRequest},
		{"unknown code falls back to 500", "SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Property not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "req-123", decoded.Error.RequestID)
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"id": "a1"})

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "error")
}
