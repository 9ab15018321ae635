package api

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"

	"github.com/bitmark-inc/aqi-predictor/external/aqi"
	"github.com/bitmark-inc/aqi-predictor/logmodule"
	"github.com/bitmark-inc/aqi-predictor/model"
	"github.com/bitmark-inc/aqi-predictor/score"
	"github.com/bitmark-inc/aqi-predictor/store"
)

const metricsPrefix = "aqi"

var log *logrus.Entry

//go:embed templates/*.tmpl
var templateFiles embed.FS

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Stores
	sessions store.SessionStore

	// Regressor loaded at start up
	model model.Regressor
	scale score.Scale

	// External services
	stations aqi.AQI

	metrics tally.TestScope
}

// NewServer new instance of server. stations may be nil when no station
// token is configured.
func NewServer(
	sessions store.SessionStore,
	regressor model.Regressor,
	scale score.Scale,
	stations aqi.AQI) *Server {
	return &Server{
		sessions: sessions,
		model:    regressor,
		scale:    scale,
		stations: stations,
		metrics:  tally.NewTestScope(metricsPrefix, map[string]string{}),
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFiles, "templates/*.tmpl")))

	pageRoute := r.Group("/")
	pageRoute.Use(logmodule.Ginrus("Page"))
	pageRoute.Use(s.localizerMiddleware())
	pageRoute.Use(s.sessionMiddleware())
	{
		pageRoute.GET("", s.index)
		pageRoute.POST("/predict", s.predictForm)
		pageRoute.GET("/result", s.result)
		pageRoute.GET("/chart", s.chart)
		pageRoute.GET("/report", s.downloadReport)
		pageRoute.GET("/report/qr.png", s.reportQRCode)
		pageRoute.DELETE("/session", s.clearSession)
		pageRoute.POST("/session/clear", s.clearSession)
	}

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		AllowAllOrigins:  true,
		MaxAge:           12 * time.Hour,
	}))
	apiRoute.Use(s.localizerMiddleware())
	{
		apiRoute.GET("/information", s.information)
		apiRoute.GET("/categories", s.categories)
		apiRoute.POST("/predict", s.predictJSON)
		apiRoute.GET("/stations/aqi", s.stationAQI)
	}

	metricRoute := r.Group("/metrics")
	metricRoute.Use(logmodule.Ginrus("Metric"))
	metricRoute.Use(s.apikeyAuthentication(viper.GetString("server.apikey.metric")))
	{
		metricRoute.GET("/predictions", s.predictionMetrics)
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer)
	return true
}

func (s *Server) apikeyAuthentication(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiToken := c.GetHeader("Api-Token")
		if apiToken == "" || apiToken != key {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func (s *Server) healthz(c *gin.Context) {
	err := s.sessions.Ping(c.Request.Context())
	if shouldInterupt(err, c) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

func (s *Server) information(c *gin.Context) {
	modelInfo := map[string]interface{}{}
	if a, ok := s.model.(*model.Artifact); ok {
		modelInfo["kind"] = a.Kind
		modelInfo["features"] = a.Features
		modelInfo["rows"] = a.Rows
		modelInfo["trained_at"] = a.TrainedAt
	}

	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": viper.GetString("server.version"),
			},
			"scale":          s.scale.Name,
			"model":          modelInfo,
			"station_lookup": s.stations != nil,
		},
	})
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
