package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"PostBoard/internal/app/server"
	"PostBoard/internal/config"
	"PostBoard/internal/delivery/http"
	"PostBoard/internal/service"
	"PostBoard/internal/service/auth"
	"PostBoard/internal/service/post"
	"PostBoard/internal/storage/elastic"
	"PostBoard/internal/storage/minio_storage"
	"PostBoard/internal/storage/postgres"
	"PostBoard/internal/storage/redisstore"
	"PostBoard/pkg/logger"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	if err := pg.InitSchema(context.Background()); err != nil {
		log.FatalErr("error initializing schema", err)
	}

	rdb, err := redisstore.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.FatalErr("error connecting to redis", err)
	}
	defer rdb.Close()

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	searchRepo := elastic.NewPostSearchRepository(esClient, cfg.ES.Index)
	if err := searchRepo.CreateIndexIfNotExist(context.Background()); err != nil {
		log.FatalErr("error creating search index", err)
	}

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	attachments, err := minio_storage.NewAttachmentStorage(minioStorage, cfg.Minio.Bucket, cfg.Minio.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing attachment bucket", err)
	}

	userRepo := postgres.NewUserPostgres(pg.Pool)
	postRepo := postgres.NewPostPostgres(pg.Pool)
	sessions := redisstore.NewSessionStore(rdb, cfg.JWT.RefreshTTL)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := auth.NewAuthService(log, jwtManager, userRepo, sessions)
	postService := post.NewPostService(log, postRepo, searchRepo, attachments)
	u := service.Collection{AuthService: authService, PostService: postService}

	r := http.InitRoutes(log, u, pg, cfg.HTTPServer.TemplatesDir)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server error", err)
	}

	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("shutdown error", err)
	}
}
