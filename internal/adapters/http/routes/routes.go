package routes

import (
	"time"

	"courrier-registry/internal/adapters/http/handlers"
	"courrier-registry/internal/adapters/http/middleware"
	"courrier-registry/internal/adapters/persistence/repositories"
	"courrier-registry/internal/adapters/storage"
	"courrier-registry/internal/config"
	"courrier-registry/internal/core/services"
	"courrier-registry/internal/pkg/password"
	"courrier-registry/internal/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, store storage.AttachmentStore) {
	// Initialize repositories
	courrierRepo := repositories.NewCourrierRepository(db)
	suiviRepo := repositories.NewSuiviRepository(db)
	userRepo := repositories.NewUserRepository(db)
	txManager := repositories.NewTxManager(db)

	// Initialize services
	v := validator.MustNew()
	courrierService := services.NewCourrierService(courrierRepo, suiviRepo, txManager, store, v)
	suiviService := services.NewSuiviService(suiviRepo, courrierRepo, txManager, v)
	userService := services.NewUserService(userRepo, txManager, v, password.NewHasher(cfg.Security.BcryptCost))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, func() error {
		return config.HealthCheck(db)
	})
	courrierHandler := handlers.NewCourrierHandler(courrierService)
	suiviHandler := handlers.NewSuiviHandler(suiviService)
	userHandler := handlers.NewUserHandler(userService)

	// Health check & root routes
	app.Get("/", middleware.CacheControl(time.Hour), healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api", middleware.NoStore())
	setupCourrierRoutes(api.Group("/courriers"), courrierHandler)
	setupSuiviRoutes(api.Group("/suivis"), suiviHandler)
	setupUserRoutes(api.Group("/users"), userHandler)
}

// setupCourrierRoutes registers fixed paths before /:id
func setupCourrierRoutes(router fiber.Router, h *handlers.CourrierHandler) {
	router.Post("/", h.Create)
	router.Get("/", h.List)
	router.Get("/numero/:numCourrier", h.GetByNumero)
	router.Get("/type/:type", h.ListByType)
	router.Get("/nature/:nature", h.ListByNature)
	router.Get("/date-between", h.ListByDateBetween)
	router.Get("/date/:date", h.ListByDate)
	router.Get("/destinataire/:destinataire", h.ListByDestinataire)
	router.Get("/expediteur/:expediteur", h.ListByExpediteur)
	router.Get("/objet/:objet", h.ListByObjet)
	router.Get("/check/numero/:numCourrier", h.CheckNumero)
	router.Post("/:id/upload-pdf", h.UploadPdf)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
}

func setupSuiviRoutes(router fiber.Router, h *handlers.SuiviHandler) {
	router.Post("/", h.Create)
	router.Get("/", h.List)
	router.Get("/courrier/:courrierId", h.ListByCourrier)
	router.Delete("/courrier/:courrierId", h.DeleteByCourrier)
	router.Get("/date-between", h.ListByDateBetween)
	router.Get("/date/:date", h.ListByDate)
	router.Get("/instruction/:instruction", h.ListByInstruction)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
}

func setupUserRoutes(router fiber.Router, h *handlers.UserHandler) {
	router.Post("/", h.Create)
	router.Get("/", h.List)
	router.Get("/username/:username", h.GetByUsername)
	router.Get("/email/:email", h.GetByEmail)
	router.Get("/matricule/:matricule", h.GetByMatricule)
	router.Get("/check/username/:username", h.CheckUsername)
	router.Get("/check/email/:email", h.CheckEmail)
	router.Get("/check/matricule/:matricule", h.CheckMatricule)
	router.Patch("/:id/active", h.SetActive)
	router.Get("/:id", h.Get)
	router.Put("/:id", h.Update)
	router.Delete("/:id", h.Delete)
}
