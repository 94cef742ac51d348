package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpapi "github.com/Valentin39220/bini-crm/internal/api/http"
	"github.com/Valentin39220/bini-crm/internal/api/http/middleware"
	prospectshttp "github.com/Valentin39220/bini-crm/internal/prospects/http"
	"github.com/Valentin39220/bini-crm/internal/prospects/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Logger         *zap.Logger
	Service        *service.ProspectService
	Storage        httpapi.Pinger
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))

	if len(dep.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-Id"},
			ExposeHeaders:    []string{"X-Request-Id", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Storage)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(dep.RateLimit, dep.RateBurst))

	prospectsHandler := prospectshttp.New(dep.Service)
	prospectsHandler.Register(api)

	return r
}
