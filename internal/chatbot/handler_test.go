package chatbot

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	httperr "github.com/Uzair-37/Standard-website/internal/core/errors"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	responder := NewResponder(DefaultRules(), "Sorry, I didn't catch that.")
	r := gin.New()
	NewService(responder).RegisterRoutes(r)
	return r
}

func postChat(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHandleChatAnswersFromRules(t *testing.T) {
	r := newTestRouter(t)

	resp := postChat(t, r, `{"message": "how long does shipping take?"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Reply string `json:"reply"`
		Rule  string `json:"rule"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "shipping", body.Rule)
	require.Contains(t, body.Reply, "3-5 business days")
}

func TestHandleChatFallsBack(t *testing.T) {
	r := newTestRouter(t)

	resp := postChat(t, r, `{"message": "what is the meaning of life?"}`)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Reply string `json:"reply"`
		Rule  string `json:"rule"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Empty(t, body.Rule)
	require.Equal(t, "Sorry, I didn't catch that.", body.Reply)
}

func TestHandleChatRejectsBadBodies(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{"},
		{"missing message", `{"text": "hello"}`},
		{"blank message", `{"message": "   "}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := postChat(t, r, tc.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			require.Contains(t, resp.Body.String(), httperr.HttpInvalidJsonError)
		})
	}
}
