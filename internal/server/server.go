package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvbot-backend/internal/engine"
)

// NewEngine builds the gin engine with routes registered.
func NewEngine(bot *engine.Engine) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/webhook", webhookHandler(bot))
	return r
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
