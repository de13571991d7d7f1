package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/clinic-auth/internal/config"
	"github.com/harentsoaR/clinic-auth/internal/handlers"
	"github.com/harentsoaR/clinic-auth/internal/middleware"
	"github.com/harentsoaR/clinic-auth/internal/models"
	"github.com/harentsoaR/clinic-auth/internal/services"
	"github.com/harentsoaR/clinic-auth/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database Connection ---
	// The client is process-wide and safe for concurrent use; every
	// request shares it.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)
	log.Println("Successfully connected to MongoDB!")

	// --- Core Services ---
	users := store.NewCollection[models.User](db, models.UsersCollection)
	accounts := services.NewAccountService(users)
	tokens := services.NewTokenService(services.TokenConfig{
		SigningKey:   []byte(cfg.JWTSecret),
		Issuer:       cfg.TokenIssuer,
		Audience:     cfg.TokenAudience,
		AccessTTL:    cfg.AccessTokenTTL,
		VerifyIssuer: cfg.VerifyTokenIssuer,
	})
	registry := services.NewRefreshTokenRegistry(accounts)

	h := handlers.NewHandler(accounts, tokens, registry)

	// --- Gin Router ---
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/refresh", h.Refresh)
		authRoutes.POST("/logout", middleware.Auth(tokens), h.Logout)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.Auth(tokens))
	{
		apiRoutes.GET("/me", h.Me)
		apiRoutes.PUT("/me", h.UpdateMe)

		adminRoutes := apiRoutes.Group("/users", middleware.RequireAdmin())
		adminRoutes.GET("", h.ListUsers)
		adminRoutes.DELETE("/:id", h.DeactivateUser)
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
