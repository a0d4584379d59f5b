package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/artcast/mediagen/internal/config"
	"github.com/artcast/mediagen/internal/delivery"
	ws "github.com/artcast/mediagen/internal/delivery/ws"
	"github.com/artcast/mediagen/internal/domain"
	"github.com/artcast/mediagen/internal/infra"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {

	// ENV
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	// LOGGER
	zcore, _ := zap.NewProduction()
	zl := logger.NewZapLogger(zcore.Sugar())

	// POSTGRES
	ctx := context.Background()

	pool, err := infra.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		panic("cannot connect pgxpool: " + err.Error())
	}
	defer pool.Close()

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctxPing); err != nil {
		panic("postgres ping failed: " + err.Error())
	}

	// GATEWAYS
	mediaRepo := infra.NewPostgresMediaRepo(pool)

	storage, err := infra.NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
	if err != nil {
		panic("s3 storage: " + err.Error())
	}

	falClient := infra.NewFalClient(cfg.FalKey, cfg.FalBaseURL, mediaRepo)
	manimClient := infra.NewManimClient(cfg.ManimAPIURL)
	xClient := infra.NewXClient(cfg.XAPIURL, cfg.XBearerToken)

	// VIDEO ENGINE (lazy singleton, built on first augmentation)
	engines := domain.NewEngineProvider(cfg.Wan)

	if cfg.Wan.Enabled {
		log.Printf("[BOOT] wan profile active ckpt=%s", cfg.Wan.CkptDir)
	} else {
		log.Printf("[BOOT] wan profile disabled, /generate runs without augmentation")
	}

	// MEDIA SERVICE (оркестратор)
	mediaService := domain.NewMediaService(
		falClient,
		manimClient,
		mediaRepo,
		storage,
		engines,
		cfg.Wan,
	)

	// WS HUB
	hub := ws.NewHub()

	// BROADCAST LISTENER
	go func() {
		for ev := range mediaService.Events() {
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Printf("[SEND][ERR] json marshal failed: %v", err)
				continue
			}
			hub.SendToRoom(ws.DefaultRoom, payload)
		}
	}()

	// HANDLERS
	hGen := delivery.NewGenerateHandler(mediaService, falClient, zl)
	hMedia := delivery.NewMediaHandler(mediaRepo, zl)
	hSocial := delivery.NewSocialHandler(mediaRepo, xClient, zl)

	// ROUTER
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"*"},
		AllowedHeaders: []string{"*"},
	}))

	delivery.RegisterRoutes(r, hGen, hMedia, hSocial)

	r.Get("/ws", ws.FeedHandler(hub))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "server started",
		Fields:  map[string]any{"port": cfg.Port, "wan": cfg.Wan.Enabled},
	})

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server crashed",
			Error:   err,
		})
	}
}
