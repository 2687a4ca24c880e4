package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"guesthouse/internal/config"
	"guesthouse/internal/database"
	"guesthouse/internal/middleware"
	"guesthouse/internal/modules/admin"
	"guesthouse/internal/modules/offer"
	"guesthouse/internal/modules/pricing"
	"guesthouse/internal/modules/reservation"
	"guesthouse/internal/pkg/clock"
	jwtsvc "guesthouse/internal/pkg/jwt"
	"guesthouse/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.New()
	snapshots := repository.NewSnapshotRepository(db)

	store, err := reservation.NewStore(ctx, snapshots, clk)
	if err != nil {
		log.Fatal(err)
	}

	quoter := pricing.NewQuoter(store, clk)

	hub := offer.NewHub()
	engine := offer.NewEngine(store, clk, offer.Config{
		ArmDelay:  cfg.OfferArmDelay,
		Window:    cfg.OfferWindow,
		TickEvery: cfg.OfferTick,
	}, hub)
	go engine.Start(ctx)

	j := jwtsvc.New(cfg.JWTSecret, cfg.SessionTTL)

	adminService := admin.NewService(store, j, cfg.AdminEmail, cfg.AdminPasswordHash)
	adminHandler := admin.NewHandler(adminService)
	reservationHandler := reservation.NewHandler(store, quoter)
	offerHandler := offer.NewHandler(engine)
	wsHandler := offer.NewWSHandler(hub, engine)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		reservationHandler.RegisterRoutes(v1)
		offerHandler.RegisterRoutes(v1)
		adminHandler.RegisterPublicRoutes(v1)

		// operator
		protected := v1.Group("/")
		protected.Use(middleware.RequireOperator(j))
		{
			adminHandler.RegisterProtectedRoutes(protected)
		}
	}

	r.GET("/ws/offer", wsHandler.HandleWebSocket)

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
