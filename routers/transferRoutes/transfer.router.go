package transferRoutes

import (
	transferController "mft/controllers/transfer"
	"mft/middleware"
	transferValidator "mft/validators/transfer"

	"github.com/gofiber/fiber/v2"
)

func SetupTransferRoutes(app *fiber.App) {
	transferGroup := app.Group("/transfers")

	transferGroup.Get("/", middleware.JWTMiddleware, transferController.ListTransfers)
	transferGroup.Post("/", transferValidator.Create(), middleware.JWTMiddleware, transferController.CreateTransfer)

	transferGroup.Get("/stats", middleware.JWTMiddleware, transferController.TransferStats)
	transferGroup.Post("/bulk-status", transferValidator.BulkStatus(), middleware.JWTMiddleware, transferController.BulkStatusUpdate)

	transferGroup.Get("/:id", middleware.JWTMiddleware, transferController.GetTransfer)
	transferGroup.Put("/:id", transferValidator.Update(), middleware.JWTMiddleware, transferController.UpdateTransfer)
	transferGroup.Patch("/:id", transferValidator.Update(), middleware.JWTMiddleware, transferController.UpdateTransfer)
	transferGroup.Delete("/:id", middleware.JWTMiddleware, transferController.DeleteTransfer)
	transferGroup.Post("/:id/document", middleware.JWTMiddleware, transferController.UploadDocument)
}
