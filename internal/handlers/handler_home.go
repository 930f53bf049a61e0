package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome reports that the server is up.
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Personal Ledger API v1"})
}

// registerHomeRoutes registers the root and health routes.
func registerHomeRoutes(r *gin.Engine) {
	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
}
