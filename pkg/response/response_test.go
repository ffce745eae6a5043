package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/profolio/pkg/apperror"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", apperror.Validation("Portfolio title is required"), http.StatusBadRequest, "Portfolio title is required"},
		{"unauthorized", apperror.Unauthorized("bad login"), http.StatusUnauthorized, "bad login"},
		{"forbidden", apperror.Forbidden("not yours"), http.StatusForbidden, "not yours"},
		{"not found", apperror.NotFound("Portfolio not found"), http.StatusNotFound, "Portfolio not found"},
		{"conflict", apperror.Conflict("Cannot update example portfolios"), http.StatusConflict, "Cannot update example portfolios"},
		{"persistence", apperror.Wrap(errors.New("dial tcp"), apperror.KindPersistence, "Could not add portfolio"), http.StatusInternalServerError, "internal server error"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Set("request_id", "rid-1")
			FromError(c, tc.err)

			require.Equal(t, tc.status, w.Code)
			var body APIResponse[any]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.msg, body.Message)
			assert.Equal(t, "rid-1", body.RequestID)
		})
	}
}

func TestSuccessWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, http.StatusCreated, gin.H{"id": "x"}, "created", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"x"}`, mustField(t, w.Body.Bytes(), "data"))
}

func mustField(t *testing.T, b []byte, key string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	return string(m[key])
}
