package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
)

const Version = "0.2.0"

func Root(c *gin.Context) {
	c.String(200, "⚡ ByteHub - GitHub → Governance → Discord")
}

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"service":   "bytehub",
		"version":   Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
