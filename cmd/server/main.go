package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"court-booking-api/internal/audit"
	"court-booking-api/internal/auth"
	"court-booking-api/internal/config"
	"court-booking-api/internal/handler"
	"court-booking-api/internal/model"
	"court-booking-api/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	log.Println("connected to postgres")

	// run migrations
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		log.Printf("migration file not found, skipping: %v", err)
	} else if _, err := pool.Exec(context.Background(), string(migration)); err != nil {
		log.Printf("migration warning: %v", err)
	} else {
		log.Println("migration applied")
	}

	st := store.New(pool)
	seedAdmin(st, cfg)

	rec := audit.NewRecorder(st)
	h := handler.New(st, rec, cfg.JWTSecret, time.Duration(cfg.JWTExpireMin)*time.Minute)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h.Router(),
	}
	go func() {
		log.Printf("http on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// seedAdmin creates the first admin account when configured and absent.
func seedAdmin(st *store.Store, cfg config.App) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}
	ctx := context.Background()
	if _, err := st.UserByEmail(ctx, cfg.AdminEmail); err == nil {
		return
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         "Admin",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := st.CreateUser(ctx, u); err != nil {
		log.Printf("seed admin: %v", err)
		return
	}
	log.Println("admin user created")
}
