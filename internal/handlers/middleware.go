package handlers

import (
	"strconv"
	"time"

	"github.com/Brownie44l1/seg-api/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestID propagates X-Request-ID, generating one when absent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// HTTPLogger writes one access log line and request metrics per request.
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		statusCode := c.Writer.Status()

		tags := []string{
			metrics.Tag(metrics.TagPath, route),
			metrics.Tag(metrics.TagMethod, c.Request.Method),
			metrics.Tag(metrics.TagHTTPStatusCode, strconv.Itoa(statusCode)),
		}
		metrics.Incr(metrics.APIRequestCount, tags)
		metrics.Timing(metrics.APIRequestLatency, latency, tags)

		log.Info().
			Str("request_id", c.GetString(requestIDKey)).
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", statusCode).
			Dur("latency", latency).
			Msg("access")
	}
}

func CORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	return cors.New(corsConfig)
}

func NewRouter(h *Handler, appEnv string) *gin.Engine {
	if appEnv == "prod" || appEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), HTTPLogger(), CORS())

	router.GET("/health", h.Health)
	router.GET("/config", h.Config)
	router.POST("/infer/", h.Infer)
	router.POST("/infer-csv/", h.InferCSV)
	return router
}
