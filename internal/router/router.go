// Package router assembles the HTTP API: middleware, public routes, the
// bearer-protected /api/v1 surface and the API-key protected ops routes.
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"rentwise/internal/config"
	_ "rentwise/internal/docs" // Import swagger docs
	"rentwise/internal/handlers"
	"rentwise/internal/middleware"
	"rentwise/internal/schedule"
	"rentwise/internal/services"
	"rentwise/internal/validator"
	"rentwise/internal/worker"
)

// Services bundles the service layer the router dispatches to.
type Services struct {
	Realtors services.RealtorServicer
	Units    services.UnitServicer
	Tenants  services.TenantServicer
	Leases   services.LeaseServicer
	Payments services.PaymentServicer
	Audit    services.AuditServicer
}

// NewServices wires the GORM-backed services.
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	leases := services.NewLeaseService(db, schedule.NewGenerator(cfg.ScheduleHorizon))
	return &Services{
		Realtors: services.NewRealtorService(db),
		Units:    services.NewUnitService(db),
		Tenants:  services.NewTenantService(db, leases),
		Leases:   leases,
		Payments: services.NewPaymentService(db, cfg.LateAfterDays, cfg.OverdueAfterDays),
		Audit:    services.NewAuditService(db),
	}
}

// New builds the gin engine.
func New(cfg *config.Config, svc *Services, reconciler handlers.Reconciler) *gin.Engine {
	validator.Register()

	profileHandler := handlers.NewProfileHandler(svc.Realtors, svc.Audit)
	unitHandler := handlers.NewUnitHandler(svc.Units, svc.Audit)
	tenantHandler := handlers.NewTenantHandler(svc.Tenants, svc.Audit)
	leaseHandler := handlers.NewLeaseHandler(svc.Leases, svc.Audit)
	paymentHandler := handlers.NewPaymentHandler(svc.Payments, svc.Audit)
	opsHandler := handlers.NewOpsHandler(reconciler)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Operational routes for external schedulers
	ops := v1.Group("/ops")
	ops.Use(middleware.OpsAuthMiddleware(cfg.OpsAPIKey))
	ops.POST("/reconcile", opsHandler.Reconcile)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", profileHandler.GetProfile)
	protected.PUT("/profile", profileHandler.UpdateProfile)

	units := protected.Group("/units")
	units.POST("", unitHandler.CreateUnit)
	units.GET("", unitHandler.GetRealtorUnits)
	units.GET("/:id", unitHandler.GetUnitByID)

	tenants := protected.Group("/tenants")
	tenants.POST("", tenantHandler.CreateTenant)
	tenants.GET("", tenantHandler.GetRealtorTenants)
	tenants.GET("/:id", tenantHandler.GetTenantByID)
	tenants.PUT("/:id", tenantHandler.UpdateTenant)
	tenants.DELETE("/:id", tenantHandler.DeleteTenant)

	leases := protected.Group("/leases")
	leases.POST("", leaseHandler.CreateLease)
	leases.GET("", leaseHandler.GetRealtorLeases)
	leases.GET("/:id", leaseHandler.GetLeaseByID)
	leases.PATCH("/:id", leaseHandler.UpdateLease)
	leases.DELETE("/:id", leaseHandler.DeleteLease)
	leases.GET("/:id/schedule", leaseHandler.GetLeaseSchedule)
	leases.GET("/:id/summary", leaseHandler.GetLeaseSummary)
	leases.GET("/:id/history", leaseHandler.GetLeaseHistory)

	payments := protected.Group("/payments")
	payments.GET("", paymentHandler.GetPayments)
	payments.POST("/:id/record", paymentHandler.RecordPayment)
	payments.PATCH("/:id/status", paymentHandler.UpdatePaymentStatus)

	return router
}

// corsConfig allows the configured origins. An empty list or "*" allows any
// origin without credentials.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-API-Key"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// NewReconciler wires the schedule maintenance worker to the services.
func NewReconciler(svc *Services) *worker.Reconciler {
	return worker.NewReconciler(svc.Payments, svc.Leases)
}
