package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"leafcare.org/internal/auth"
	"leafcare.org/internal/config"
	"leafcare.org/internal/diagnosis"
	"leafcare.org/internal/httpapi"
	"leafcare.org/internal/imgproc"
	"leafcare.org/internal/inference"
	"leafcare.org/internal/migrations"
	"leafcare.org/internal/obs"
	"leafcare.org/internal/storage"
	"leafcare.org/internal/users"
)

var version = "0.3.1"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()
	obs.SetLevel(cfg.LogLevel)

	var (
		db        *sql.DB
		userStore users.Store
		histStore diagnosis.Store
	)
	if cfg.PGDSN != "" {
		db, err = sql.Open("pgx", cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := migrations.Run(ctx, db); err != nil {
			cancel()
			log.Fatalf("migrate: %v", err)
		}
		cancel()

		userStore = users.NewPGStore(db)
		histStore = diagnosis.NewPGStore(db)
	} else {
		obs.Logger().Warn("no LEAFCARE_PG_DSN set, using in-memory stores")
		userStore = users.NewMemory()
		histStore = diagnosis.NewMemory()
	}

	tokens, err := auth.NewTokens(cfg.AuthSecret, cfg.ResetSecret, cfg.AuthTTL, cfg.ResetTTL)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	var blobs diagnosis.BlobStore
	if cfg.S3Bucket != "" {
		blobs, err = storage.NewS3(context.Background(), storage.S3Options{
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
		})
	} else {
		blobs, err = storage.NewDisk(cfg.UploadDir)
	}
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	classifier := inference.New(cfg.InferenceURL, cfg.InferenceKey, cfg.InferenceTimeout)
	if !classifier.Configured() {
		obs.Logger().Warn("no LEAFCARE_INFERENCE_KEY set, diagnosis submissions will fail")
	}

	pipeline := diagnosis.NewPipeline(classifier, imgproc.New(), blobs, histStore)
	userSvc := users.NewService(userStore, tokens)

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, userSvc, tokens, pipeline, histStore, blobs)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      90 * time.Second, // inference calls can be slow
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting leafcare-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
