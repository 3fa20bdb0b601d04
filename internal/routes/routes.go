package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/jrtechsistemas/studio-scheduler/internal/audit"
	"github.com/jrtechsistemas/studio-scheduler/internal/cache"
	"github.com/jrtechsistemas/studio-scheduler/internal/config"
	domain "github.com/jrtechsistemas/studio-scheduler/internal/domain/booking"
	"github.com/jrtechsistemas/studio-scheduler/internal/handlers"
	infraRepo "github.com/jrtechsistemas/studio-scheduler/internal/infra/repository"
	"github.com/jrtechsistemas/studio-scheduler/internal/middleware"
	"github.com/jrtechsistemas/studio-scheduler/internal/payments/mercadopago"
	"github.com/jrtechsistemas/studio-scheduler/internal/usecase/availability"
	ucBooking "github.com/jrtechsistemas/studio-scheduler/internal/usecase/booking"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	catalogCache := cache.New(cfg.RedisURL)

	// gateway nil = pagamento online desligado (tudo vira pagar na hora)
	var gateway domain.PaymentGateway
	if cfg.MPAccessToken != "" {
		gw, err := mercadopago.New(cfg.MPAccessToken, cfg.PixExpirationMinutes)
		if err != nil {
			log.Printf("mercadopago indisponível, cobrança online desabilitada: %v", err)
		} else {
			gateway = gw
		}
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	freeSlotsUC := availability.NewGetFreeSlots(bookingRepo)
	freeDaysUC := availability.NewGetFreeDays(bookingRepo)

	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, gateway, auditDispatcher)
	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, auditDispatcher)
	updateBookingUC := ucBooking.NewUpdateBooking(bookingRepo, auditDispatcher)
	reresolveUC := ucBooking.NewReResolveBooking(bookingRepo, auditDispatcher)
	settleUC := ucBooking.NewSettlePayment(bookingRepo, gateway, auditDispatcher)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	businessHandler := handlers.NewBusinessHandler(db)

	serviceHandler := handlers.NewServiceHandler(db, catalogCache)
	categoryHandler := handlers.NewCategoryHandler(db, catalogCache)
	professionalHandler := handlers.NewProfessionalHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	expenseHandler := handlers.NewExpenseHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		db,
		bookingRepo,
		updateBookingUC,
		cancelBookingUC,
		reresolveUC,
	)

	publicHandler := handlers.NewPublicHandler(
		db,
		bookingRepo,
		catalogCache,
		freeDaysUC,
		freeSlotsUC,
		createBookingUC,
		cancelBookingUC,
	)

	integrationHandler := handlers.NewIntegrationHandler(
		bookingRepo,
		freeDaysUC,
		freeSlotsUC,
		createBookingUC,
	)

	webhookHandler := handlers.NewWebhookHandler(settleUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 📈 OBSERVABILIDADE
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA (por slug)
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/catalog", publicHandler.GetCatalog)
			publicAPI.GET("/:slug/professionals", publicHandler.ListProfessionals)
			publicAPI.GET("/:slug/free-days", publicHandler.GetFreeDays)
			publicAPI.GET("/:slug/free-slots", publicHandler.GetFreeSlots)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
			publicAPI.GET("/:slug/bookings", publicHandler.ListClientBookings)
			publicAPI.PATCH("/:slug/bookings/:id/cancel", publicHandler.CancelBooking)
		}

		// ------------------------------
		// 💸 WEBHOOK DO PROVEDOR
		// ------------------------------
		api.POST("/webhooks/mercadopago", webhookHandler.HandlePaymentNotification)

		// ------------------------------
		// 🤖 INTEGRAÇÕES (X-Api-Token)
		// ------------------------------
		integrationAPI := api.Group("/integration")
		integrationAPI.Use(middleware.APITokenMiddleware(db))
		{
			integrationAPI.GET("/catalog", integrationHandler.GetCatalog)
			integrationAPI.GET("/free-days", integrationHandler.GetFreeDays)
			integrationAPI.GET("/free-slots", integrationHandler.GetFreeSlots)
			integrationAPI.POST("/bookings", integrationHandler.CreateBooking)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA (PAINEL)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/business", businessHandler.GetMeBusiness)
			secured.PATCH("/me/business", businessHandler.UpdateMeBusiness)
			secured.GET("/me/business/api-token", businessHandler.GetAPIToken)

			secured.GET("/me/clients", clientHandler.List)

			// ------------------------------
			// CATÁLOGO
			// ------------------------------
			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/categories", categoryHandler.List)
			secured.POST("/me/categories", categoryHandler.Create)
			secured.PATCH("/me/categories/:id", categoryHandler.Update)
			secured.DELETE("/me/categories/:id", categoryHandler.Delete)

			// ------------------------------
			// EQUIPE E AGENDA
			// ------------------------------
			secured.GET("/me/professionals", professionalHandler.List)
			secured.POST("/me/professionals", professionalHandler.Create)
			secured.PATCH("/me/professionals/:id", professionalHandler.Update)
			secured.DELETE("/me/professionals/:id", professionalHandler.Delete)

			secured.GET("/me/professionals/:id/schedule", scheduleHandler.GetWorkBlocks)
			secured.PUT("/me/professionals/:id/schedule", scheduleHandler.UpdateWorkBlocks)
			secured.GET("/me/professionals/:id/day-blocks", scheduleHandler.ListDayBlocks)
			secured.POST("/me/professionals/:id/day-blocks", scheduleHandler.CreateDayBlock)
			secured.DELETE("/me/professionals/:id/day-blocks/:blockId", scheduleHandler.DeleteDayBlock)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/me/bookings", bookingHandler.ListByDate)
			secured.GET("/me/bookings/:id", bookingHandler.Get)
			secured.PATCH("/me/bookings/:id", bookingHandler.Update)
			secured.PATCH("/me/bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/me/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/me/bookings/:id/selection", bookingHandler.ReResolve)

			// ------------------------------
			// FINANCEIRO
			// ------------------------------
			secured.GET("/me/expenses", expenseHandler.List)
			secured.POST("/me/expenses", expenseHandler.Create)
			secured.PATCH("/me/expenses/:id", expenseHandler.Update)
			secured.DELETE("/me/expenses/:id", expenseHandler.Delete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
