package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-backend/internal/shared/server/respond"
)

func TestBootstrapFailureBody(t *testing.T) {
	resp := bootstrapFailure()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var body respond.ErrorBody
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "bootstrap_failed", body.Code)
}
