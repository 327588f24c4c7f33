package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"seatlock-coordinator/internal/handler/api"
	"seatlock-coordinator/internal/handler/middleware"
	"seatlock-coordinator/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, lockHandler *api.LockHandler, bookingHandler *api.BookingHandler, availabilityHandler *api.AvailabilityHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, lockHandler, bookingHandler, availabilityHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, lockHandler *api.LockHandler, bookingHandler *api.BookingHandler, availabilityHandler *api.AvailabilityHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		locks := apiGroup.Group("/locks")
		{
			addRoutes(locks, []route{
				{Method: http.MethodPost, Path: "", Handler: lockHandler.LockSeat},
				{Method: http.MethodPost, Path: "/bulk", Handler: lockHandler.LockSeats},
				{Method: http.MethodPost, Path: "/unlock", Handler: lockHandler.UnlockSeat},
				{Method: http.MethodPost, Path: "/release-all", Handler: lockHandler.ReleaseAll},
				{Method: http.MethodGet, Path: "/mine", Handler: availabilityHandler.ListMine},
			})
		}

		availability := apiGroup.Group("/availability")
		{
			addRoutes(availability, []route{
				{Method: http.MethodGet, Path: "", Handler: availabilityHandler.ListAvailability},
				{Method: http.MethodGet, Path: "/seat", Handler: availabilityHandler.CheckOne},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.MarkAsBooked},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
