package transferController

import (
	"fmt"
	"strings"
	"time"

	"mft/database"
	"mft/middleware"
	"mft/models"
	"mft/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// transferResponse shapes a transfer for the wire, resolving code->label display
// fields and joined scheme names at the presentation boundary.
func transferResponse(t models.Transfer) fiber.Map {
	targetName := ""
	if t.TargetScheme != nil {
		targetName = t.TargetScheme.Name
	}
	return fiber.Map{
		"id":                    t.ID,
		"user_id":               t.UserID,
		"transfer_type":         t.TransferType,
		"transfer_type_display": models.TransferTypeLabels[t.TransferType],
		"source_scheme_id":      t.SourceSchemeID,
		"source_scheme_name":    t.SourceScheme.Name,
		"target_scheme_id":      t.TargetSchemeID,
		"target_scheme_name":    targetName,
		"units":                 t.Units,
		"amount":                t.Amount,
		"nav_at_transfer":       t.NavAtTransfer,
		"status":                t.Status,
		"status_display":        models.TransferStatusLabels[t.Status],
		"reference_number":      t.ReferenceNumber,
		"transfer_date":         time.Time(t.TransferDate).Format(dateLayout),
		"requested_at":          t.CreatedAt,
		"processed_at":          t.ProcessedAt,
		"completed_at":          t.CompletedAt,
		"notes":                 t.Notes,
		"document":              t.DocumentPath,
	}
}

func orderClause(param string, allowed map[string]string, fallback string) string {
	if param == "" {
		return fallback
	}
	desc := strings.HasPrefix(param, "-")
	field := strings.TrimPrefix(param, "-")
	column, ok := allowed[field]
	if !ok {
		return fallback
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// ListTransfers returns the caller's transfers with filtering, search and ordering
func ListTransfers(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db
	query := db.Model(&models.Transfer{}).Where("transfers.user_id = ?", userId)

	if transferType := c.Query("transfer_type"); transferType != "" {
		query = query.Where("transfers.transfer_type = ?", transferType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("transfers.status = ?", status)
	}
	if transferDate := c.Query("transfer_date"); transferDate != "" {
		date, err := time.Parse(dateLayout, transferDate)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "transfer_date must be in YYYY-MM-DD format!", nil)
		}
		query = query.Where("transfers.transfer_date = ?", date)
	}

	if search := c.Query("search"); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.
			Joins("JOIN fund_schemes AS source_schemes ON source_schemes.id = transfers.source_scheme_id").
			Joins("LEFT JOIN fund_schemes AS target_schemes ON target_schemes.id = transfers.target_scheme_id").
			Where(
				"LOWER(transfers.reference_number) LIKE ? OR LOWER(source_schemes.name) LIKE ? OR LOWER(target_schemes.name) LIKE ?",
				term, term, term,
			)
	}

	ordering := orderClause(c.Query("ordering"), map[string]string{
		"requested_at":  "transfers.created_at",
		"transfer_date": "transfers.transfer_date",
		"amount":        "transfers.amount",
	}, "transfers.created_at DESC")

	var total int64
	query.Count(&total)

	var transfers []models.Transfer
	if err := query.
		Preload("SourceScheme").
		Preload("SourceScheme.FundHouse").
		Preload("TargetScheme").
		Order(ordering).Offset(offset).Limit(limit).
		Find(&transfers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transfers!", nil)
	}

	response := make([]fiber.Map, 0, len(transfers))
	for _, t := range transfers {
		response = append(response, transferResponse(t))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transfers fetched!", fiber.Map{
		"transfers": response,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// CreateTransfer records a new transfer instruction owned by the caller
func CreateTransfer(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_active = ?", userId, true).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedTransferCreate").(*struct {
		TransferType   string          `json:"transfer_type"`
		SourceSchemeID uint            `json:"source_scheme_id"`
		TargetSchemeID *uint           `json:"target_scheme_id"`
		Units          decimal.Decimal `json:"units"`
		Amount         decimal.Decimal `json:"amount"`
		NavAtTransfer  decimal.Decimal `json:"nav_at_transfer"`
		TransferDate   string          `json:"transfer_date"`
		Notes          string          `json:"notes"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var sourceScheme models.FundScheme
	if err := db.Where("id = ? AND is_active = ?", reqData.SourceSchemeID, true).First(&sourceScheme).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Source scheme not found!", nil)
	}

	var targetScheme *models.FundScheme
	if reqData.TargetSchemeID != nil && *reqData.TargetSchemeID != 0 {
		var scheme models.FundScheme
		if err := db.Where("id = ? AND is_active = ?", *reqData.TargetSchemeID, true).First(&scheme).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Target scheme not found!", nil)
		}
		targetScheme = &scheme
	}

	transferDate, _ := time.Parse(dateLayout, reqData.TransferDate)

	transfer := models.Transfer{
		UserID:         userId,
		TransferType:   models.TransferType(reqData.TransferType),
		SourceSchemeID: sourceScheme.ID,
		Units:          reqData.Units,
		Amount:         reqData.Amount,
		NavAtTransfer:  reqData.NavAtTransfer,
		Status:         models.TransferStatusPending,
		TransferDate:   datatypes.Date(transferDate),
		Notes:          reqData.Notes,
	}
	if targetScheme != nil {
		id := targetScheme.ID
		transfer.TargetSchemeID = &id
	}

	// Reference number is assigned in BeforeCreate; a collision surfaces here as a
	// uniqueness violation and is not retried in-process.
	if err := db.Create(&transfer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create transfer!", nil)
	}

	transfer.SourceScheme = sourceScheme
	transfer.TargetScheme = targetScheme

	go utils.SendTransferRequestedEmail(
		user.Email, user.Name, transfer.ReferenceNumber,
		models.TransferTypeLabels[transfer.TransferType], transfer.Amount.String(),
	)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Transfer created!", transferResponse(transfer))
}

// GetTransfer returns a single transfer owned by the caller
func GetTransfer(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transfer id!", nil)
	}

	var transfer models.Transfer
	if err := database.Database.Db.
		Preload("SourceScheme").
		Preload("SourceScheme.FundHouse").
		Preload("TargetScheme").
		Where("id = ? AND user_id = ?", id, userId).
		First(&transfer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transfer not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transfer fetched!", transferResponse(transfer))
}

// UpdateTransfer updates the restricted field set of a caller-owned transfer.
// Type, schemes, units, amount and the reference number are immutable after
// creation; processed/completed timestamps stay with the workflows that own them.
func UpdateTransfer(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transfer id!", nil)
	}

	reqData, ok := c.Locals("validatedTransferUpdate").(*struct {
		Status   *string `json:"status"`
		Notes    *string `json:"notes"`
		Document *string `json:"document"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var transfer models.Transfer
	if err := db.
		Preload("SourceScheme").
		Preload("TargetScheme").
		Where("id = ? AND user_id = ?", id, userId).
		First(&transfer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transfer not found!", nil)
	}

	if reqData.Status != nil {
		transfer.Status = models.TransferStatus(*reqData.Status)
	}
	if reqData.Notes != nil {
		transfer.Notes = *reqData.Notes
	}
	if reqData.Document != nil {
		transfer.DocumentPath = *reqData.Document
	}

	if err := db.Save(&transfer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update transfer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transfer updated!", transferResponse(transfer))
}

// DeleteTransfer deletes a caller-owned transfer unless it is in flight or settled
func DeleteTransfer(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transfer id!", nil)
	}

	db := database.Database.Db

	var transfer models.Transfer
	if err := db.Where("id = ? AND user_id = ?", id, userId).First(&transfer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transfer not found!", nil)
	}

	if !transfer.IsDeletable() {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Cannot delete completed or processing transfers.", nil)
	}

	if err := db.Delete(&transfer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete transfer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transfer deleted!", nil)
}

// TransferStats returns aggregate statistics over the caller's transfers
func TransferStats(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	db := database.Database.Db

	var total, pending, completed, inCount, outCount int64
	db.Model(&models.Transfer{}).Where("user_id = ?", userId).Count(&total)
	db.Model(&models.Transfer{}).Where("user_id = ? AND status = ?", userId, models.TransferStatusPending).Count(&pending)
	db.Model(&models.Transfer{}).Where("user_id = ? AND status = ?", userId, models.TransferStatusCompleted).Count(&completed)
	db.Model(&models.Transfer{}).Where("user_id = ? AND transfer_type = ?", userId, models.TransferTypeIn).Count(&inCount)
	db.Model(&models.Transfer{}).Where("user_id = ? AND transfer_type = ?", userId, models.TransferTypeOut).Count(&outCount)

	totalAmount := decimal.Zero
	row := db.Model(&models.Transfer{}).
		Where("user_id = ?", userId).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&totalAmount); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch statistics!", nil)
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.Transfer{}).
		Where("user_id = ?", userId).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch statistics!", nil)
	}

	transfersByStatus := make(map[string]int64, len(statusRows))
	for _, r := range statusRows {
		transfersByStatus[r.Status] = r.Count
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transfer statistics fetched!", fiber.Map{
		"total_transfers":     total,
		"pending_transfers":   pending,
		"completed_transfers": completed,
		"total_amount":        totalAmount,
		"transfers_by_type": fiber.Map{
			"in":  inCount,
			"out": outCount,
		},
		"transfers_by_status": transfersByStatus,
	})
}

// BulkStatusUpdate sets the status on the caller-owned subset of the given transfer
// ids with a single set-based update. Ids owned by other users are silently
// excluded.
func BulkStatusUpdate(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedBulkStatus").(*struct {
		TransferIDs []uint `json:"transfer_ids"`
		Status      string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	result := db.Model(&models.Transfer{}).
		Where("id IN ? AND user_id = ?", reqData.TransferIDs, userId).
		Update("status", reqData.Status)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update transfers!", nil)
	}

	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No valid transfers found.", nil)
	}

	message := fmt.Sprintf("Successfully updated %d transfers to %s.", result.RowsAffected, reqData.Status)
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"updated": result.RowsAffected,
		"status":  reqData.Status,
	})
}

// UploadDocument stores a supporting document for a caller-owned transfer in the
// external blob store and keeps the object key on the transfer.
func UploadDocument(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transfer id!", nil)
	}

	db := database.Database.Db

	var transfer models.Transfer
	if err := db.Where("id = ? AND user_id = ?", id, userId).First(&transfer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transfer not found!", nil)
	}

	file, err := c.FormFile("document")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Document file is required!", nil)
	}

	objectKey, err := utils.UploadTransferDocument(file, transfer.ReferenceNumber)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload document!", nil)
	}

	transfer.DocumentPath = objectKey
	if err := db.Save(&transfer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update transfer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document uploaded!", fiber.Map{
		"transfer_id": transfer.ID,
		"document":    objectKey,
	})
}
