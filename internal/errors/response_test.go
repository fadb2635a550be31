package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorStatusCodes(t *testing.T) {
	for want, resp := range map[int]ErrorResponse{
		http.StatusBadRequest:          BadRequest(""),
		http.StatusNotFound:            NotFound(""),
		http.StatusInternalServerError: InternalServerError(""),
		http.StatusServiceUnavailable:  ServiceUnavailable(""),
	} {
		assert.Equal(t, want, resp.StatusCode())
		assert.NotEmpty(t, resp.Message)
	}
}

func TestMutationFailure(t *testing.T) {
	// Undecodable bodies are a plain 400.
	status, body := NewMutationFailure(BadRequest("Malformed request body."))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, MutationFailure{Success: false, Error: "Malformed request body."}, body)

	status, body = NewMutationFailure(fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "We encountered an error while processing your request.", body.Error)

	status, body = NewMutationFailure(GenerateValidationErrorResponse([]error{
		fmt.Errorf("team:must be team1 or team2"),
		fmt.Errorf("value:must be a number"),
	}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "team: must be team1 or team2; value: must be a number", body.Error)
}
