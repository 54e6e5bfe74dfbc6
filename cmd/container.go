// cmd/container.go
//
// Composition root. Owns infrastructure (storage, Redis, Postgres) and wires
// the extraction modules together. This is the only place that knows about
// every module.
package main

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/pdfscope/pdfscope/pkg/config"
	"github.com/pdfscope/pdfscope/pkg/docstore"
	"github.com/pdfscope/pdfscope/pkg/extraction"
	"github.com/pdfscope/pdfscope/pkg/extraction/extractionhttp"
	"github.com/pdfscope/pdfscope/pkg/extraction/extractioninfra"
	"github.com/pdfscope/pdfscope/pkg/extraction/extractionsrv"
	"github.com/pdfscope/pdfscope/pkg/fsx"
	"github.com/pdfscope/pdfscope/pkg/fsx/fsxlocal"
	"github.com/pdfscope/pdfscope/pkg/fsx/fsxs3"
	"github.com/pdfscope/pdfscope/pkg/logx"
	"github.com/pdfscope/pdfscope/pkg/pipeline/ocrpipe"
	"github.com/pdfscope/pdfscope/pkg/pipeline/structural"
	"github.com/pdfscope/pdfscope/pkg/preview"
	"github.com/pdfscope/pdfscope/pkg/raster"
)

// Container holds shared infrastructure and the composed services.
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem

	// Services
	Documents         *docstore.Store
	Previews          *preview.Service
	Extraction        *extractionsrv.Service
	ExtractionHandler *extractionhttp.Handlers
}

func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}

	c.initFileStorage()
	c.initRedis()
	c.initDatabase()
	c.initModules()

	return c
}

func (c *Container) initFileStorage() {
	switch c.Config.Storage.Mode {
	case "s3":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.TODO(),
			awsConfig.WithRegion(c.Config.Storage.S3Region))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		client := s3.NewFromConfig(awsCfg)
		c.FileSystem = fsxs3.NewS3FileSystem(client, c.Config.Storage.S3Bucket, c.Config.Storage.S3Prefix)
		logx.Infof("S3 storage configured (bucket: %s, region: %s)",
			c.Config.Storage.S3Bucket, c.Config.Storage.S3Region)

	case "local":
		localFS, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.LocalDir)
		if err != nil {
			logx.Fatalf("Failed to initialize local file system: %v", err)
		}
		c.FileSystem = localFS
		logx.Infof("Local storage configured (path: %s)", localFS.BasePath())

	default:
		logx.Fatalf("Unknown STORAGE_MODE: %s (use 'local' or 's3')", c.Config.Storage.Mode)
	}
}

// initRedis connects only when the preview cache runs on Redis.
func (c *Container) initRedis() {
	if c.Config.Preview.CacheBackend != "redis" {
		return
	}
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Preview.RedisAddr,
		Password: c.Config.Preview.RedisPassword,
		DB:       c.Config.Preview.RedisDB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v", err)
	}
	logx.Info("Redis connected")
}

// initDatabase connects only when results persist to Postgres.
func (c *Container) initDatabase() {
	if c.Config.Results.Store != "postgres" {
		return
	}
	db, err := sqlx.Connect("postgres", c.Config.Results.PostgresDSN)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	c.DB = db
	logx.Info("Database connected")
}

func (c *Container) initModules() {
	c.Documents = docstore.New(c.FileSystem)

	renderer := raster.New()

	var cache preview.Cache
	if c.Redis != nil {
		cache = preview.NewRedisCache(c.Redis, c.Config.Preview.RedisTTL)
	} else {
		cache = preview.NewStorageCache(c.FileSystem)
	}
	c.Previews = preview.NewService(c.Documents, renderer, cache, c.Config.Extraction.PreviewDPI)

	var results extraction.ResultStore
	if c.DB != nil {
		results = extractioninfra.NewPostgresResultStore(c.DB)
	} else {
		results = extractioninfra.NewStorageResultStore(c.FileSystem)
	}

	ocrEngine := ocrpipe.NewTesseractEngine()
	registry := extraction.NewRegistry(
		structural.New(),
		ocrpipe.New(ocrEngine, renderer, c.Config.Extraction.OCRLanguages, c.Config.Extraction.OCRWorkers),
	)
	if !ocrEngine.Available() {
		logx.Warn("OCR engine not compiled in; the ocr pipeline will report unavailable")
	}

	c.Extraction = extractionsrv.New(
		registry,
		c.Documents,
		results,
		c.Config.Extraction.PreviewDPI,
		c.Config.Extraction.PipelineTimeout,
	)
	c.ExtractionHandler = extractionhttp.NewHandlers(c.Extraction, c.Documents, c.Previews)
}

func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.WithError(err).Warn("closing database")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.WithError(err).Warn("closing redis")
		}
	}
}
