package chatbot

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	httperr "github.com/Uzair-37/Standard-website/internal/core/errors"
)

// Service exposes the responder over HTTP.
type Service struct {
	responder *Responder
}

// NewService creates a chatbot service. Panics if responder is nil.
func NewService(responder *Responder) *Service {
	if responder == nil {
		panic("chatbot: responder must not be nil")
	}
	return &Service{responder: responder}
}

// RegisterRoutes wires the chat endpoint into the router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/chat", s.HandleChat)
}

// HandleChat handles POST /api/chat with a body of {"message": "..."}.
func (s *Service) HandleChat(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Message) == "" {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Body must include a non-empty message",
		})
		return
	}

	reply, rule := s.responder.Reply(body.Message)
	slog.Info("[Chatbot] Message answered", "rule", rule, "length", len(body.Message))

	c.JSON(http.StatusOK, gin.H{
		"reply": reply,
		"rule":  rule,
	})
}
