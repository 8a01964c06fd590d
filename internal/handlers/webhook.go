package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/bytehub-dev/bytehub/internal/dispatch"
	"github.com/bytehub-dev/bytehub/internal/github"
	"github.com/gin-gonic/gin"
)

// WebhookHandler receives GitHub webhook deliveries.
type WebhookHandler struct {
	Secret     string
	Dispatcher *dispatch.Dispatcher
}

func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	signature := c.GetHeader("X-Hub-Signature-256")

	if !github.VerifySignature(h.Secret, body, signature) {
		log.Println("Invalid GitHub webhook signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	eventType := c.GetHeader("X-GitHub-Event")

	if eventType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing X-GitHub-Event header"})
		return
	}

	event, err := github.Parse(eventType, body)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if !event.Known() {
		log.Printf("Ignoring unknown event type %s", eventType)
		c.Status(http.StatusOK)
		return
	}

	if err := h.Dispatcher.Dispatch(event); err != nil {
		log.Printf("Failed to dispatch %s event: %v", eventType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Dispatch failed"})
		return
	}

	c.Status(http.StatusOK)
}
