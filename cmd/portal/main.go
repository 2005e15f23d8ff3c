package main

import (
	"context"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"careers-portal/internal/core/auth"
	"careers-portal/internal/core/cache"
	"careers-portal/internal/core/config"
	"careers-portal/internal/core/database"
	"careers-portal/internal/core/logger"
	"careers-portal/internal/core/server"
	"careers-portal/internal/repo"
	"careers-portal/internal/service"
	"careers-portal/internal/storage/upload"
	"careers-portal/internal/transport/http/handler"
	"careers-portal/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected",
		zap.String("driver", cfg.DB.Driver),
		zap.String("dsn", database.MaskDSN(cfg.DB.DSN)),
	)
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 上传目录
	store := upload.New(cfg.Upload.Dir, cfg.Upload.AllowedExt)
	if err := store.EnsureDir(); err != nil {
		log.Fatal("create upload dir", zap.String("dir", cfg.Upload.Dir), zap.Error(err))
	}

	// 会话
	jwter := &auth.JWTer{
		Secret: []byte(cfg.Session.Secret),
		Issuer: cfg.Session.Issuer,
		TTL:    cfg.Session.TTL(),
	}
	adminAuth, err := service.NewAdminAuth(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash,
		jwter, mustRevoker(cfg, log), log)
	if err != nil {
		log.Fatal("admin auth", zap.Error(err))
	}

	applicants := repo.NewApplicantRepo(db)
	r, err := router.NewEngine(router.Deps{
		Log:    log,
		Cfg:    cfg,
		Public: handler.NewPublicHandler(service.NewIntake(applicants, store, log), log),
		Admin: handler.NewAdminHandler(service.NewAdminView(applicants, store, log), adminAuth,
			handler.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure}, log),
		Auth:   adminAuth,
		Health: func(ctx context.Context) error { return database.Ping(ctx, db) },
	})
	if err != nil {
		log.Fatal("build router", zap.Error(err))
	}

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)
	baseURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	log.Info("portal starting",
		zap.String("env", cfg.App.Env),
		zap.String("open", baseURL+"/careers"),
		zap.String("admin", baseURL+"/admin"),
		zap.String("health", baseURL+"/health"),
	)

	if err := server.Run(srv, log, 10*time.Second); err != nil {
		log.Error("portal stopped with error", zap.Error(err))
		return
	}
	log.Info("portal stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

// mustRevoker 配置了 redis 则共享吊销表，否则进程内
func mustRevoker(cfg *config.Config, l *zap.Logger) auth.Revoker {
	if cfg.Redis.Addr == "" {
		l.Info("session revocation in memory (redis.addr empty)")
		return auth.NewMemoryRevoker()
	}
	rdb, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		l.Fatal("redis config", zap.Error(err))
	}
	if err := cache.Ping(context.Background(), rdb); err != nil {
		l.Fatal("redis ping", zap.Error(err))
	}
	l.Info("redis connected", zap.String("addr", database.MaskDSN(cfg.Redis.Addr)))
	return auth.NewRedisRevoker(rdb)
}
