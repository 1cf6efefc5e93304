// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"lumina/video-api/ai"
	"lumina/video-api/aws"
	"lumina/video-api/db"
	"lumina/video-api/middleware"
	"lumina/video-api/service"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB       *gorm.DB
	Router   *gin.Engine
	S3       *aws.S3Client
	AI       ai.Completer
	Analyzer *service.Analyzer
	Searcher *service.Searcher
	Answerer *service.Answerer
}

func NewRouter() (*API, error) {
	a := &API{}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = database

	makeLogger()

	a.AI = ai.NewClient()
	a.Analyzer = &service.Analyzer{DB: database, AI: a.AI}
	a.Searcher = &service.Searcher{DB: database, AI: a.AI}
	a.Answerer = &service.Answerer{DB: database, AI: a.AI}

	if viper.GetString("aws.bucket") != "" {
		s3, err := aws.NewS3()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}
		a.S3 = s3
	}

	a.Router = gin.New()
	a.registerRoutes()

	service.StuckVideoCleanup(
		viper.GetDuration("cleanup.interval"),
		viper.GetDuration("cleanup.max_age"),
		database,
	)

	return a, nil
}

func (a *API) registerRoutes() {
	router := a.Router

	router.Use(
		// Demo trust model: anyone may call anything from anywhere
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS", "HEAD"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:   []string{"Content-Length"},
			MaxAge:          12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true

	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
	}

	intel := main.Group("", middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	}), middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/analyze		-> Fabricates and stores segment metadata for a video
		intel.POST("/analyze", a.Analyze)

		// POST /api/search		-> Ranks segments against a free-text query
		intel.POST("/search", a.Search)

		// POST /api/qa			-> Answers a question about one video
		intel.POST("/qa", a.QA)
	}

	videos := main.Group("/videos")
	{
		// GET /api/videos		-> Lists all videos, newest first (polled by the client)
		videos.GET("", cacheFor(5), a.VideoFetchBulk)

		// GET /api/videos/:id		-> Returns a single video
		videos.GET("/:id", a.VideoFetch)

		// GET /api/videos/:id/segments	-> Returns a video's segments for the timeline
		videos.GET("/:id/segments", a.VideoSegments)

		// POST /api/videos		-> Uploads a new video and stores it in the bucket
		videos.POST("", middleware.BodySizeLimiter(maxUploadSize), a.VideoUpload)

		// DELETE /api/videos/:id	-> Deletes a video, its segments and its history
		videos.DELETE("/:id", a.VideoDelete)
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
