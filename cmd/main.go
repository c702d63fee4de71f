package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"marketgo/backend/internal/api/handler"
	"marketgo/backend/internal/api/middleware"
	"marketgo/backend/internal/chathub"
	"marketgo/backend/internal/config"
	"marketgo/backend/internal/conversation"
	"marketgo/backend/internal/models"
	"marketgo/backend/internal/notify"
	"marketgo/backend/internal/report"
	"marketgo/backend/internal/storage"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Report{},
		&models.ChatRoom{},
		&models.ChatParticipant{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting MarketGo Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db, rdb)

	var notifier report.Notifier
	if cfg.TelegramToken != "" {
		tn, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramStaffID)
		if err != nil {
			log.Fatalf("Failed to start moderation alert bot: %v", err)
		}
		notifier = tn
	}

	reports := report.NewService(store, notifier)
	conversations := conversation.NewService(store)
	hub := chathub.NewManagerService(store, conversations)

	go hub.Run()
	go hub.ListenPubSub()

	r := gin.Default()
	mw := middleware.New(store, []byte(cfg.JWTSecret))
	h := handler.NewHandler(store, reports, conversations, hub, []byte(cfg.JWTSecret))

	r.Use(mw.RateLimit())

	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	public := r.Group("/", mw.OptionalAuth())
	{
		public.GET("/products", h.ListProducts)
		public.GET("/products/:id", h.GetProduct)
	}

	auth := r.Group("/", mw.AuthRequired())
	{
		auth.GET("/me", h.Me)

		auth.POST("/products", h.CreateProduct)
		auth.PUT("/products/:id", h.UpdateProduct)
		auth.DELETE("/products/:id", h.DeleteProduct)
		auth.PATCH("/products/:id/status", h.ChangeProductStatus)
		auth.GET("/my/products", h.MyProducts)

		auth.POST("/reports", h.FileReport)
		auth.GET("/my/reports", h.MyReports)

		auth.GET("/chats", h.ListChats)
		auth.POST("/chats/start", h.StartChat)
		auth.GET("/chats/:id", h.GetChat)
		auth.GET("/ws/chat/:id", h.ServeWebSocket)
	}

	staff := r.Group("/admin", mw.AuthRequired(), mw.StaffRequired())
	{
		staff.GET("/reports", h.AdminListReports)
		staff.GET("/reports/stats", h.AdminReportStats)
		staff.GET("/reports/:id", h.AdminGetReport)
		staff.POST("/reports/:id/action", h.AdminReportAction)
	}

	server := &http.Server{
		Addr:           cfg.Addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
