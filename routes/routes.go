package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studio-backend/config"
	"studio-backend/controllers"
	"studio-backend/services"
	"studio-backend/utils"
)

// Deps are the long-lived services the handlers need.
type Deps struct {
	Booking     *services.BookingService
	Reminders   *services.ReminderScheduler
	Cache       *utils.ResponseCache
	CORSOrigins []string
	Location    *time.Location
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger())

	catalog := &controllers.CatalogController{Cache: deps.Cache}
	appointments := &controllers.AppointmentController{Booking: deps.Booking}
	dashboard := &controllers.DashboardController{Booking: deps.Booking}
	reports := &controllers.ReportController{Loc: deps.Location}
	reminders := &controllers.ReminderController{Scheduler: deps.Reminders}

	requireAuth := utils.AuthMiddleware(controllers.VerifyActiveUser)
	cached := deps.Cache.Middleware()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/login", controllers.Login)

	// Public catalog for the landing page
	r.GET("/services", cached, catalog.GetServices)
	r.GET("/categories", cached, catalog.GetCategories)
	r.GET("/portfolio", cached, catalog.GetPortfolio)
	r.GET("/portfolio/highlights", cached, catalog.GetHighlights)
	r.GET("/studio", cached, catalog.GetStudio)

	users := r.Group("/users")
	{
		users.POST("/login", controllers.Login)

		users.Use(requireAuth)
		users.GET("/me", controllers.Me)
		users.PUT("/me/profile", controllers.UpdateProfile)
		users.PUT("/me/password", controllers.ChangePassword)
		users.GET("", controllers.GetUsers)
		users.POST("", controllers.CreateUser)
		users.PUT("/:id/active", controllers.ToggleUserActive)
	}

	admin := r.Group("")
	admin.Use(requireAuth)
	{
		appts := admin.Group("/appointments")
		{
			appts.GET("", appointments.ListAppointments)
			appts.GET("/:id", appointments.GetAppointment)
			appts.POST("", appointments.CreateAppointment)
			appts.PUT("/:id", appointments.UpdateAppointment)
			appts.DELETE("/:id", appointments.DeleteAppointment)
		}

		admin.GET("/dashboard/stats", dashboard.GetDashboardStats)
		admin.GET("/reports", reports.GetReportAnalytics)

		clients := admin.Group("/clients")
		{
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.POST("", controllers.CreateClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
		}

		svc := admin.Group("/services")
		{
			svc.GET("/admin", catalog.GetAllServices)
			svc.POST("", catalog.CreateService)
			svc.PUT("/:id", catalog.UpdateService)
			svc.DELETE("/:id", catalog.DeleteService)
		}

		categories := admin.Group("/categories")
		{
			categories.GET("/admin", catalog.GetAllCategories)
			categories.POST("", catalog.CreateCategory)
			categories.PUT("/reorder", catalog.ReorderCategories)
			categories.PUT("/:id", catalog.UpdateCategory)
			categories.DELETE("/:id", catalog.DeleteCategory)
		}

		portfolio := admin.Group("/portfolio")
		{
			portfolio.GET("/admin", catalog.GetAllPortfolio)
			portfolio.POST("", catalog.CreatePortfolioItem)
			portfolio.PUT("/:id", catalog.UpdatePortfolioItem)
			portfolio.DELETE("/:id", catalog.DeletePortfolioItem)
		}

		admin.PUT("/studio", catalog.UpdateStudio)

		templates := admin.Group("/templates")
		{
			templates.GET("", controllers.GetTemplates)
			templates.POST("", controllers.CreateTemplate)
			templates.PUT("/:id", controllers.UpdateTemplate)
			templates.DELETE("/:id", controllers.DeleteTemplate)
		}

		admin.GET("/notifications", controllers.GetNotificationLogs)
		if deps.Reminders != nil {
			admin.POST("/reminders/run", reminders.RunReminders)
		}
	}

	return r
}
