package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nishant-deshmukh/book-review-api/config"
	"github.com/nishant-deshmukh/book-review-api/database"
	"github.com/nishant-deshmukh/book-review-api/handlers"
	"github.com/nishant-deshmukh/book-review-api/middleware"
	"github.com/nishant-deshmukh/book-review-api/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.InitializeTables(db); err != nil {
		log.Fatal("Failed to initialize tables:", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	books := store.NewBookStore(db)
	reviews := store.NewReviewStore(db)
	users := store.NewUserStore(db)

	bookHandler := handlers.NewBookHandler(books, reviews, cfg.MaxPageLimit)
	reviewHandler := handlers.NewReviewHandler(books, reviews)
	authHandler := handlers.NewAuthHandler(users, cfg.JWTSecret)
	auth := middleware.Auth(cfg.JWTSecret)

	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Book Review API is running!")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
		}

		bookRoutes := api.Group("/books")
		{
			bookRoutes.POST("", auth, bookHandler.Create)
			bookRoutes.GET("/search", bookHandler.Search)
			bookRoutes.GET("/books-with-reviews", bookHandler.ListWithReviews)
			bookRoutes.GET("", bookHandler.List)
			bookRoutes.GET("/:id", bookHandler.GetDetail)
			bookRoutes.PUT("/:id", auth, bookHandler.Update)
			bookRoutes.DELETE("/:id", auth, bookHandler.Delete)
		}

		reviewRoutes := api.Group("/reviews")
		reviewRoutes.Use(auth)
		{
			reviewRoutes.POST("/:bookId", reviewHandler.Create)
			reviewRoutes.PUT("/:id", reviewHandler.Update)
			reviewRoutes.DELETE("/:id", reviewHandler.Delete)
		}
	}

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
