package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chat-embed.backend/internal/interfaces/http/handlers"
	"chat-embed.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler       *handlers.AuthHandler
	credentialHandler *handlers.CredentialHandler
	embedHandler      *handlers.EmbedHandler
	chatHandler       *handlers.ChatHandler
	authMiddleware    gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Chat completion (protected)
		chat := v1.Group("/chat")
		chat.Use(d.authMiddleware)
		{
			chat.POST("/completions", middleware.IdempotencyMiddleware(), d.chatHandler.Complete)
		}

		// Widget proxy (public; the vendor key travels in the body)
		proxy := v1.Group("/proxy")
		{
			proxy.POST("/chat-completion", d.chatHandler.ProxyComplete)
		}

		// Vendor key routes (protected)
		keys := v1.Group("/keys")
		keys.Use(d.authMiddleware)
		{
			keys.POST("", d.credentialHandler.Create)
			keys.GET("", d.credentialHandler.List)
			keys.POST("/validate", d.credentialHandler.Validate)
			keys.GET("/:id/value", d.credentialHandler.RevealValue)
			keys.DELETE("/:id", d.credentialHandler.Delete)
		}

		// Embed routes (protected)
		embeds := v1.Group("/embeds")
		embeds.Use(d.authMiddleware)
		{
			embeds.POST("", d.embedHandler.Create)
			embeds.GET("", d.embedHandler.List)
			embeds.GET("/:id", d.embedHandler.Get)
			embeds.PUT("/:id", d.embedHandler.Update)
			embeds.DELETE("/:id", d.embedHandler.Delete)
			embeds.GET("/:id/usage", d.embedHandler.ListUsage)
			embeds.GET("/:id/usage/summary", d.embedHandler.SummarizeUsage)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			// Embeds run on arbitrary customer pages, so origins are
			// reflected rather than allowlisted.
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "chat-embed-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
