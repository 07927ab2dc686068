package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Dipanshu-5/EdPlan/internal/middleware"
	"github.com/Dipanshu-5/EdPlan/internal/models"
)

// claimsFromContext returns the caller set by middleware.Identity, or nil for anonymous requests.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, _ := c.Value(middleware.ContextUserKey).(*models.JWTClaims)
	return claims
}
