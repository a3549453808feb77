package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/snapgram/snapgram/internal/auth"
	"github.com/snapgram/snapgram/internal/config"
	"github.com/snapgram/snapgram/internal/database"
	"github.com/snapgram/snapgram/internal/handlers"
	"github.com/snapgram/snapgram/internal/logger"
	"github.com/snapgram/snapgram/internal/realtime"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.NewLogger(*cfg)
	log.Info("starting application")

	db, err := database.Connect(ctx, *cfg.Mongo, log)
	if err != nil {
		log.Error("mongo connection failed", "uri", cfg.Mongo.URI, "err", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(shutdownCtx); err != nil {
			log.Error("mongo shutdown failed", "err", err)
		}
	}()
	log.Info("mongo connected")

	hub := realtime.NewHub(log)
	tokens := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	authHandler := handlers.NewAuthHandler(db.Users(), tokens, log)
	userHandler := handlers.NewUserHandler(db.Users())
	postHandler := handlers.NewPostHandler(db.Posts(), db.Users(), hub, log)
	messageHandler := handlers.NewMessageHandler(db.Messages(), hub, log)
	wsHandler := handlers.NewWSHandler(hub, log)

	app := fiber.New(fiber.Config{AppName: cfg.Service.Name})
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		log.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
		)
		return err
	})

	protected := auth.Middleware(tokens)

	user := app.Group("/api/v1/user")
	user.Post("/register", authHandler.Register)
	user.Post("/login", authHandler.Login)
	user.Get("/logout", authHandler.Logout)
	user.Get("/search", protected, userHandler.Search)
	user.Get("/suggested", protected, userHandler.Suggested)
	user.Get("/:id/profile", protected, userHandler.Profile)

	post := app.Group("/api/v1/post", protected)
	post.Post("/addpost", postHandler.AddPost)
	post.Get("/all", postHandler.Feed)
	post.Get("/userpost/all", postHandler.UserPosts)
	post.Delete("/:id", postHandler.Delete)
	post.Post("/:id/bookmark", postHandler.Bookmark)
	post.Post("/:id/like", postHandler.Like)
	post.Post("/:id/dislike", postHandler.Dislike)
	post.Post("/:id/comment", postHandler.AddComment)
	post.Get("/:id/comment/all", postHandler.Comments)

	message := app.Group("/api/v1/message", protected)
	message.Post("/send/:id", messageHandler.Send)
	message.Get("/all/:id", messageHandler.List)

	app.Get("/ws", websocket.New(wsHandler.Handle))

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.Service.Addr); err != nil {
		log.Error("server stopped", "err", err)
	}
}
