package middlewares

import (
	"net/http"
	"strings"

	"shadow-raffle/internal/lib/jwt"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	jwtGen *jwt.Generator
}

func NewAuthMiddleware(jwtGen *jwt.Generator) *AuthMiddleware {
	return &AuthMiddleware{jwtGen: jwtGen}
}

// Handle проверяет Bearer токен и кладет user_id и role в контекст запроса.
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		claims, err := m.jwtGen.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireAdmin пускает дальше только токены с ролью admin.
// Сервисы про механизм аутентификации не знают, им приходит уже проверенный актор.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != jwt.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}
