package routes

import (
	"time"

	"shadow-raffle/internal/handlers"
	"shadow-raffle/internal/middlewares"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-openapi/runtime/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func InitRoutes(authHandler *handlers.AuthHandler, raffleHandler *handlers.RaffleHandler,
	adminHandler *handlers.AdminHandler, authMiddleware *middlewares.AuthMiddleware) *gin.Engine {
	router := gin.Default()

	_ = router.SetTrustedProxies(nil)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.StaticFile("/swagger.yaml", "./swagger.yaml")

	opts := middleware.SwaggerUIOpts{SpecURL: "/swagger.yaml"}
	sh := middleware.SwaggerUI(opts, nil)

	router.GET("/swagger/*any", func(c *gin.Context) {
		sh.ServeHTTP(c.Writer, c.Request)
	})

	api := router.Group("/api")

	// паблик роуты
	api.POST("/auth/session", authHandler.Session)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/prizes", raffleHandler.ListPrizes)
	api.GET("/winners", raffleHandler.ListWinners)
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// защищенные роуты
	api.Use(authMiddleware.Handle())
	{
		api.POST("/play", raffleHandler.Play)
		api.GET("/me/wins", raffleHandler.MyWins)
	}

	// админские роуты: нужна роль admin в токене
	admin := api.Group("/admin")
	admin.Use(authMiddleware.RequireAdmin())
	{
		admin.POST("/coins/grant", adminHandler.GrantCoins)
		admin.POST("/coins/revoke", adminHandler.RevokeCoins)
		admin.POST("/prizes", adminHandler.AddPrize)
		admin.GET("/users", adminHandler.ListUsers)
		admin.GET("/prizes", adminHandler.ListPrizes)
		admin.GET("/transactions", adminHandler.ListTransactions)
		admin.GET("/stats", adminHandler.GetStats)
	}

	return router
}
