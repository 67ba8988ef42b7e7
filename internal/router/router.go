package router

import (
	"database/sql"

	"github.com/Industrias-CTS/inventario-sub001/internal/handlers"
	"github.com/Industrias-CTS/inventario-sub001/internal/middleware"
	"github.com/Industrias-CTS/inventario-sub001/internal/repositories"
	"github.com/Industrias-CTS/inventario-sub001/internal/services"
	"github.com/Industrias-CTS/inventario-sub001/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	componentRepo := repositories.NewComponentRepository(db)
	movementTypeRepo := repositories.NewMovementTypeRepository(db)
	movementRepo := repositories.NewMovementRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)

	refGen := utils.NewUUIDRefGenerator()

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	componentService := services.NewComponentService(componentRepo, movementRepo, db)
	stockService := services.NewStockService(movementTypeRepo, componentRepo, movementRepo, refGen, db)
	invoiceService := services.NewInvoiceService(movementTypeRepo, componentRepo, movementRepo, refGen, db)
	reservationService := services.NewReservationService(reservationRepo, componentRepo, refGen, db)
	recipeService := services.NewRecipeService(recipeRepo, componentRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	componentHandler := handlers.NewComponentHandler(componentService)
	movementHandler := handlers.NewMovementHandler(stockService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupAuthRoutes(apiV1, authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupComponentRoutes(authenticated, componentHandler)
		SetupMovementRoutes(authenticated, movementHandler)
		SetupInvoiceRoutes(authenticated, invoiceHandler)
		SetupReservationRoutes(authenticated, reservationHandler)
		SetupRecipeRoutes(authenticated, recipeHandler)
		SetupCatalogRoutes(authenticated)
	}
}
