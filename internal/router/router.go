package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pantrybox/pantrybox-backend/internal/api"
	"github.com/pantrybox/pantrybox-backend/internal/database"
	"github.com/pantrybox/pantrybox-backend/internal/middleware"
	"github.com/pantrybox/pantrybox-backend/internal/models"
	"github.com/pantrybox/pantrybox-backend/internal/service"
)

// SetupRouter configures the application routes
func SetupRouter(
	db *gorm.DB,
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	tagHandler *api.AttributeHandler[models.Tag],
	ingredientHandler *api.AttributeHandler[models.Ingredient],
	authService *service.AuthService,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		recipeHandler.RegisterRoutes(protected)
		tagHandler.RegisterRoutes(protected)
		ingredientHandler.RegisterRoutes(protected)
	}

	return router
}
