package router

import (
	"strconv"

	"gota/internal/middleware"
	"gota/internal/rest"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func SetupCafeRoutes(api *echo.Group, handler *rest.CafeHandler, viewsPerSecond float64) {
	optionalAuth := middleware.OptionalAuth()

	cafes := api.Group("/cafes", optionalAuth)
	cafes.GET("", handler.List)
	cafes.GET("/recent", handler.Recent)
	cafes.GET("/:id/score", handler.Score)
	cafes.POST("/:id/views", handler.RecordView, ViewRateLimiter(viewsPerSecond))

	api.GET("/zones", handler.Zones)
}

func SetupRankingAdminRoutes(api *echo.Group, handler *rest.RankingAdminHandler) {
	admin := api.Group("/admin/ranking", middleware.AuthMiddleware(), middleware.AdminOnly())

	admin.GET("/weights", handler.GetWeights)
	admin.PUT("/weights", handler.UpsertWeights)
}

func SetupMetricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// ViewRateLimiter limits view recording per authenticated user, or per client
// IP for anonymous requests, with a burst of twice the rate. It must run after
// OptionalAuth.
func ViewRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(perSecond),
		Burst: burst,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store:               store,
		IdentifierExtractor: viewLimitKey,
	})
}

func viewLimitKey(c echo.Context) (string, error) {
	if userID, ok := c.Get("user_id").(uint); ok {
		return "user:" + strconv.FormatUint(uint64(userID), 10), nil
	}
	return "ip:" + c.RealIP(), nil
}
