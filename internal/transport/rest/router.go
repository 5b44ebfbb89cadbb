package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type Options struct {
	RequestTimeout time.Duration
	// CreateRate and CreateBurst bound POST /api/bookings. Zero disables it.
	CreateRate  float64
	CreateBurst int
	Metrics     bool
}

func NewRouter(svc bookingsService, log *slog.Logger, opts Options) *gin.Engine {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http.bookings"))

	var limiter *rate.Limiter
	if opts.CreateRate > 0 {
		burst := opts.CreateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.CreateRate), burst)
	}

	h := &BookingsHandler{svc: svc, log: log}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors())
	router.Use(requestLogger(log))
	router.Use(timeout(opts.RequestTimeout))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api")
	{
		api.GET("/bookings", h.List)
		api.POST("/bookings", rateLimit(limiter), h.Create)
		api.POST("/bookings/reset", h.Reset)
		api.DELETE("/bookings/:id", h.Delete)
		api.GET("/availability/:weekday/:timeSlot", h.Availability)
	}

	return router
}
