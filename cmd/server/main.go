package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"greenguide/internal/auth"
	"greenguide/internal/classify"
	"greenguide/internal/config"
	"greenguide/internal/guidance"
	"greenguide/internal/handlers"
	"greenguide/internal/model"
	"greenguide/internal/store"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.App.Env == "development" {
		zc = zap.NewDevelopmentConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.App.LogLevel); err == nil {
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	return zc.Build()
}

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	catalog := guidance.NewCatalog()

	// Generate any missing guidance images before serving. Categories are
	// independent, so a partial failure only loses that category's pages.
	fonts := guidance.ResolveFonts(cfg.Guidance.FontPath)
	renderer := guidance.NewRenderer(fonts)
	generator := guidance.NewGenerator(cfg.Guidance.StaticDir, renderer, logger)
	if err := generator.EnsureAll(catalog); err != nil {
		logger.Warn("some guidance images could not be generated", zap.Error(err))
	}

	// A missing model degrades classification instead of stopping the
	// server; the rest of the site keeps working.
	classes := catalog.Names()
	imageSize := 224
	var predictor classify.Predictor
	runtime, err := model.Load(cfg.Model.Path, cfg.Model.MetadataPath)
	if err != nil {
		logger.Warn("model unavailable, classification disabled",
			zap.String("path", cfg.Model.Path), zap.Error(err))
	} else {
		defer runtime.Close()
		predictor = runtime
		classes = runtime.Metadata.Classes
		imageSize = runtime.Metadata.ImageSize
		logger.Info("model loaded",
			zap.String("path", cfg.Model.Path),
			zap.Strings("classes", classes))
	}
	classifier := classify.New(predictor, classes, imageSize, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	users, err := store.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logger.Fatal("mongodb connection failed", zap.Error(err))
	}

	sessions := auth.NewSessions(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)

	handler, err := handlers.NewHandler(logger, catalog, classifier, users, sessions,
		cfg.HTTP.MaxUploadBytes)
	if err != nil {
		logger.Fatal("handler setup failed", zap.Error(err))
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/static/guidance/",
		http.StripPrefix("/static/guidance/", http.FileServer(http.Dir(cfg.Guidance.StaticDir))))

	logger.Info("server starting", zap.String("addr", cfg.HTTP.Addr))
	if err := http.ListenAndServe(cfg.HTTP.Addr, mux); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
