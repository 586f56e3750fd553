package fundRoutes

import (
	fundController "mft/controllers/fund"
	"mft/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupFundRoutes(app *fiber.App) {
	app.Get("/fund-houses", middleware.JWTMiddleware, fundController.ListFundHouses)
	app.Get("/fund-schemes", middleware.JWTMiddleware, fundController.ListFundSchemes)
}
