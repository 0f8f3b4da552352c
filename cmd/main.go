package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpctx "github.com/dtroode/streamhub-server/internal/api/http/context"
	"github.com/dtroode/streamhub-server/internal/api/http/handler"
	"github.com/dtroode/streamhub-server/internal/api/http/router"
	httpServer "github.com/dtroode/streamhub-server/internal/api/http/server"
	"github.com/dtroode/streamhub-server/internal/config"
	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
	"github.com/dtroode/streamhub-server/internal/password"
	"github.com/dtroode/streamhub-server/internal/repository/mongodb"
	"github.com/dtroode/streamhub-server/internal/server"
	"github.com/dtroode/streamhub-server/internal/service"
	"github.com/dtroode/streamhub-server/internal/storage"
	minioStorage "github.com/dtroode/streamhub-server/internal/storage/minio"
	s3Storage "github.com/dtroode/streamhub-server/internal/storage/s3"
	"github.com/dtroode/streamhub-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogJSON)

	connectCtx, connectCancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	db, err := mongodb.NewConnection(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
	connectCancel()
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	backend, err := newObjectBackend(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize object storage", "error", err, "backend", cfg.Storage.Backend)
	}
	uploader := storage.NewUploader(backend, storage.Params{
		MaxImageDimension: cfg.Storage.MaxImageDimension,
		BreakerFailures:   cfg.Storage.BreakerFailures,
		BreakerTimeout:    cfg.Storage.BreakerTimeout,
	}, logger)

	userRepo := mongodb.NewUserRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)
	hasher := password.NewBcrypt(cfg.BcryptCost)
	tokenManager := token.NewJWT(token.Params{
		AccessSecret:  cfg.JWT.AccessSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshSecret: cfg.JWT.RefreshSecret,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})

	tokenService := service.NewTokenService(tokenManager, userRepo, logger)
	accountService := service.NewAccount(userRepo, tokenService, hasher, uploader, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, logger)
	channelService := service.NewChannel(profileRepo, logger)
	ctxMgr := httpctx.NewManager()

	r := router.New(accountService, channelService, tokenService, db, ctxMgr, router.Options{
		BodyLimit: cfg.HTTP.BodyLimitMB * 1024 * 1024,
		UploadDir: cfg.HTTP.UploadDir,
		Cookies:   handler.CookieScope{Domain: cfg.Cookie.Domain, Path: cfg.Cookie.Path},
	}, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newObjectBackend(ctx context.Context, cfg *config.Config) (model.ObjectBackend, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		return s3Storage.NewClient(ctx, s3Storage.Params{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
			Bucket:       cfg.Storage.Bucket,
			PublicURL:    cfg.Storage.PublicURL,
		})
	default:
		return minioStorage.NewClient(ctx, minioStorage.Params{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
			Bucket:    cfg.Storage.Bucket,
			PublicURL: cfg.Storage.PublicURL,
		})
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
