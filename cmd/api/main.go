package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pantrybox/pantrybox-backend/config"
	"github.com/pantrybox/pantrybox-backend/internal/api"
	"github.com/pantrybox/pantrybox-backend/internal/database"
	"github.com/pantrybox/pantrybox-backend/internal/router"
	"github.com/pantrybox/pantrybox-backend/internal/server"
	"github.com/pantrybox/pantrybox-backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	s3Cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	tagService := service.NewTagService(db)
	ingredientService := service.NewIngredientService(db)
	storage := service.NewS3ImageStorage(s3Cfg)

	engine := router.SetupRouter(
		db,
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService, storage),
		api.NewTagHandler(tagService),
		api.NewIngredientHandler(ingredientService),
		authService,
		cfg.AllowedOrigins,
	)

	srv := server.New(engine, cfg.ServerHost+":"+cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
