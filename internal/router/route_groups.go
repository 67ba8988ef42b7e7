package router

import (
	"github.com/Industrias-CTS/inventario-sub001/internal/handlers"
	"github.com/Industrias-CTS/inventario-sub001/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh-token", authHandler.RefreshToken)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.GetProfile)
		}
	}
}

// SetupComponentRoutes sets up the component catalog routes.
func SetupComponentRoutes(authenticatedGroup *gin.RouterGroup, componentHandler *handlers.ComponentHandler) {
	componentRoutes := authenticatedGroup.Group("/components")
	componentRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		componentRoutes.POST("", componentHandler.CreateComponent)
		componentRoutes.GET("", componentHandler.GetComponents)
		componentRoutes.GET("/:id", componentHandler.GetComponentByID)
		componentRoutes.GET("/code/:code", componentHandler.GetComponentByCode)
		componentRoutes.PUT("/:id", componentHandler.UpdateComponent)
		componentRoutes.DELETE("/:id", componentHandler.DeleteComponent)
	}
}

// SetupMovementRoutes sets up the stock movement routes.
func SetupMovementRoutes(authenticatedGroup *gin.RouterGroup, movementHandler *handlers.MovementHandler) {
	movementRoutes := authenticatedGroup.Group("/movements")
	movementRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		movementRoutes.POST("", movementHandler.CreateMovement)
		movementRoutes.GET("", movementHandler.GetMovements)
	}
}

// SetupInvoiceRoutes sets up the invoice processing routes.
func SetupInvoiceRoutes(authenticatedGroup *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler) {
	invoiceRoutes := authenticatedGroup.Group("/invoices")
	invoiceRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		invoiceRoutes.POST("", invoiceHandler.ProcessInvoice)
	}
}

// SetupReservationRoutes sets up the reservation routes.
func SetupReservationRoutes(authenticatedGroup *gin.RouterGroup, reservationHandler *handlers.ReservationHandler) {
	reservationRoutes := authenticatedGroup.Group("/reservations")
	reservationRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		reservationRoutes.POST("", reservationHandler.CreateReservation)
		reservationRoutes.GET("", reservationHandler.GetReservations)
		reservationRoutes.PATCH("/:id/release", reservationHandler.ReleaseReservation)
	}
}

// SetupRecipeRoutes sets up the recipe routes.
func SetupRecipeRoutes(authenticatedGroup *gin.RouterGroup, recipeHandler *handlers.RecipeHandler) {
	recipeRoutes := authenticatedGroup.Group("/recipes")
	recipeRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		recipeRoutes.POST("", recipeHandler.CreateRecipe)
		recipeRoutes.GET("", recipeHandler.GetRecipes)
		recipeRoutes.GET("/:id", recipeHandler.GetRecipeByID)
		recipeRoutes.GET("/:id/cost", recipeHandler.GetRecipeCost)
		recipeRoutes.PUT("/:id", recipeHandler.UpdateRecipe)
		recipeRoutes.DELETE("/:id", recipeHandler.DeleteRecipe)
	}
}

// SetupCatalogRoutes sets up the category, unit and movement-type routes.
// These still use the old direct handlers.
func SetupCatalogRoutes(authenticatedGroup *gin.RouterGroup) {
	categoryRoutes := authenticatedGroup.Group("/categories")
	categoryRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		categoryRoutes.POST("", handlers.CreateCategory)
		categoryRoutes.GET("", handlers.GetCategories)
		categoryRoutes.PUT("/:id", handlers.UpdateCategory)
		categoryRoutes.DELETE("/:id", handlers.DeleteCategory)
	}

	unitRoutes := authenticatedGroup.Group("/units")
	unitRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		unitRoutes.POST("", handlers.CreateUnit)
		unitRoutes.GET("", handlers.GetUnits)
		unitRoutes.PUT("/:id", handlers.UpdateUnit)
		unitRoutes.DELETE("/:id", handlers.DeleteUnit)
	}

	movementTypeRoutes := authenticatedGroup.Group("/movement-types")
	movementTypeRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		movementTypeRoutes.GET("", handlers.GetMovementTypes)
	}
}
