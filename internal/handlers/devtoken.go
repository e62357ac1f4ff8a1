package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shabasam/bookaspot-main/pkg/utils"
)

// DevToken mints an identity token without going through the external
// authentication service. Only routed when DEV_TOKENS=true; production
// deployments receive tokens from the real issuer.
func DevToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ID    uint   `json:"id" binding:"required"`
			Role  string `json:"role" binding:"required,oneof=vendor customer"`
			Name  string `json:"name" binding:"required"`
			Email string `json:"email" binding:"required,email"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		token, err := utils.GenerateToken(input.ID, input.Role, input.Name, input.Email)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{"token": token})
	}
}
