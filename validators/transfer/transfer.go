package transferValidator

import (
	"time"

	"mft/middleware"
	"mft/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Create validates a transfer creation request
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TransferType   string          `json:"transfer_type"`
			SourceSchemeID uint            `json:"source_scheme_id"`
			TargetSchemeID *uint           `json:"target_scheme_id"`
			Units          decimal.Decimal `json:"units"`
			Amount         decimal.Decimal `json:"amount"`
			NavAtTransfer  decimal.Decimal `json:"nav_at_transfer"`
			TransferDate   string          `json:"transfer_date"`
			Notes          string          `json:"notes"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.TransferType != string(models.TransferTypeIn) && reqData.TransferType != string(models.TransferTypeOut) {
			errors["transfer_type"] = "Transfer type must be either 'in' or 'out'!"
		}

		if reqData.SourceSchemeID == 0 {
			errors["source_scheme_id"] = "Source scheme is required!"
		}

		// Transfer-out must name the scheme the units move into
		if reqData.TransferType == string(models.TransferTypeOut) && (reqData.TargetSchemeID == nil || *reqData.TargetSchemeID == 0) {
			errors["target_scheme_id"] = "Target scheme is required for transfer out."
		}

		if reqData.Units.LessThanOrEqual(decimal.Zero) {
			errors["units"] = "Units must be greater than zero."
		}

		if reqData.Amount.LessThanOrEqual(decimal.Zero) {
			errors["amount"] = "Amount must be greater than zero."
		}

		if reqData.NavAtTransfer.IsNegative() {
			errors["nav_at_transfer"] = "NAV cannot be negative!"
		}

		if reqData.TransferDate == "" {
			errors["transfer_date"] = "Transfer date is required!"
		} else if _, err := time.Parse(dateLayout, reqData.TransferDate); err != nil {
			errors["transfer_date"] = "Transfer date must be in YYYY-MM-DD format!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransferCreate", reqData)
		return c.Next()
	}
}

// Update validates a transfer update request. Only status, notes and the document
// reference are updatable after creation; everything else is immutable.
func Update() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Status   *string `json:"status"`
			Notes    *string `json:"notes"`
			Document *string `json:"document"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Status != nil && !models.IsValidTransferStatus(models.TransferStatus(*reqData.Status)) {
			errors["status"] = "Invalid status."
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransferUpdate", reqData)
		return c.Next()
	}
}

// BulkStatus validates a bulk status update request
func BulkStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TransferIDs []uint `json:"transfer_ids"`
			Status      string `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.TransferIDs) == 0 {
			errors["transfer_ids"] = "transfer_ids and status are required."
		}

		if reqData.Status == "" {
			errors["status"] = "transfer_ids and status are required."
		} else if !models.IsValidTransferStatus(models.TransferStatus(reqData.Status)) {
			errors["status"] = "Invalid status."
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBulkStatus", reqData)
		return c.Next()
	}
}
