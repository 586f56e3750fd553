package transferController_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"mft/config"
	"mft/database"
	"mft/middleware"
	"mft/models"
	transferRoutes "mft/routers/transferRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

var app *fiber.App

func TestMain(m *testing.M) {
	config.LoadConfig()
	database.ConnectTestDb()

	app = fiber.New()
	transferRoutes.SetupTransferRoutes(app)

	os.Exit(m.Run())
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func createUser(t *testing.T, email string) (models.User, string) {
	t.Helper()
	db := database.Database.Db

	user := models.User{Name: "Tester", Email: email, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Email)
	require.NoError(t, err)

	return user, token
}

var fixtureSeq int

func createScheme(t *testing.T, active bool) models.FundScheme {
	t.Helper()
	db := database.Database.Db
	fixtureSeq++

	house := models.FundHouse{
		Name:     fmt.Sprintf("Transfer House %d", fixtureSeq),
		Code:     fmt.Sprintf("TH%03d", fixtureSeq),
		IsActive: true,
	}
	require.NoError(t, db.Create(&house).Error)

	scheme := models.FundScheme{
		Name:        fmt.Sprintf("Transfer Scheme %d", fixtureSeq),
		Code:        fmt.Sprintf("TS%03d", fixtureSeq),
		FundHouseID: house.ID,
		FundType:    models.FundTypeEquity,
		Nav:         decimal.RequireFromString("500.0000"),
		IsActive:    active,
	}
	require.NoError(t, db.Create(&scheme).Error)

	return scheme
}

func createStoredTransfer(t *testing.T, user models.User, scheme models.FundScheme, status models.TransferStatus, amount string) models.Transfer {
	t.Helper()
	db := database.Database.Db

	transfer := models.Transfer{
		UserID:         user.ID,
		TransferType:   models.TransferTypeIn,
		SourceSchemeID: scheme.ID,
		Units:          decimal.RequireFromString("1.0000"),
		Amount:         decimal.RequireFromString(amount),
		NavAtTransfer:  decimal.RequireFromString("500.0000"),
		Status:         status,
		TransferDate:   datatypes.Date(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, db.Create(&transfer).Error)
	return transfer
}

func doRequest(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()

	var req = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func dataMap(t *testing.T, env envelope) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestCreateTransferOut(t *testing.T) {
	_, token := createUser(t, "create-out@example.com")
	source := createScheme(t, true)
	target := createScheme(t, true)

	body := fmt.Sprintf(`{
		"transfer_type": "out",
		"source_scheme_id": %d,
		"target_scheme_id": %d,
		"units": 10.0000,
		"amount": 5000.00,
		"nav_at_transfer": 500.00,
		"transfer_date": "2024-01-15",
		"notes": "rebalancing"
	}`, source.ID, target.ID)

	code, env := doRequest(t, "POST", "/transfers/", token, body)
	require.Equal(t, fiber.StatusCreated, code)

	data := dataMap(t, env)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "Pending", data["status_display"])
	assert.Equal(t, "Transfer Out", data["transfer_type_display"])
	assert.Equal(t, source.Name, data["source_scheme_name"])
	assert.Equal(t, target.Name, data["target_scheme_name"])
	assert.Equal(t, "2024-01-15", data["transfer_date"])
	assert.Regexp(t, regexp.MustCompile(`^TRF-[0-9A-F]{8}$`), data["reference_number"])
}

func TestCreateTransferOutWithoutTargetPersistsNothing(t *testing.T) {
	user, token := createUser(t, "create-no-target@example.com")
	source := createScheme(t, true)

	body := fmt.Sprintf(`{
		"transfer_type": "out",
		"source_scheme_id": %d,
		"units": 10,
		"amount": 5000,
		"nav_at_transfer": 500,
		"transfer_date": "2024-01-15"
	}`, source.ID)

	code, env := doRequest(t, "POST", "/transfers/", token, body)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Validation failed!", env.Message)

	var count int64
	database.Database.Db.Model(&models.Transfer{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateTransferRejectsInactiveSourceScheme(t *testing.T) {
	_, token := createUser(t, "create-inactive@example.com")
	source := createScheme(t, false)

	body := fmt.Sprintf(`{
		"transfer_type": "in",
		"source_scheme_id": %d,
		"units": 1,
		"amount": 100,
		"nav_at_transfer": 100,
		"transfer_date": "2024-01-15"
	}`, source.ID)

	code, env := doRequest(t, "POST", "/transfers/", token, body)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Source scheme not found!", env.Message)
}

func TestCreateTransferIgnoresOwnerInPayload(t *testing.T) {
	user, token := createUser(t, "create-owner@example.com")
	other, _ := createUser(t, "create-owner-other@example.com")
	source := createScheme(t, true)

	body := fmt.Sprintf(`{
		"user_id": %d,
		"transfer_type": "in",
		"source_scheme_id": %d,
		"units": 1,
		"amount": 100,
		"nav_at_transfer": 100,
		"transfer_date": "2024-01-15"
	}`, other.ID, source.ID)

	code, env := doRequest(t, "POST", "/transfers/", token, body)
	require.Equal(t, fiber.StatusCreated, code)

	data := dataMap(t, env)
	assert.EqualValues(t, user.ID, data["user_id"])
}

func TestGetTransferScopedToOwner(t *testing.T) {
	owner, ownerToken := createUser(t, "get-owner@example.com")
	_, strangerToken := createUser(t, "get-stranger@example.com")
	scheme := createScheme(t, true)
	transfer := createStoredTransfer(t, owner, scheme, models.TransferStatusPending, "100.00")

	code, _ := doRequest(t, "GET", fmt.Sprintf("/transfers/%d", transfer.ID), ownerToken, "")
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = doRequest(t, "GET", fmt.Sprintf("/transfers/%d", transfer.ID), strangerToken, "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestListTransfersScopedToCaller(t *testing.T) {
	userA, tokenA := createUser(t, "list-a@example.com")
	userB, _ := createUser(t, "list-b@example.com")
	scheme := createScheme(t, true)

	createStoredTransfer(t, userA, scheme, models.TransferStatusPending, "10.00")
	createStoredTransfer(t, userA, scheme, models.TransferStatusCompleted, "20.00")
	createStoredTransfer(t, userB, scheme, models.TransferStatusPending, "30.00")

	code, env := doRequest(t, "GET", "/transfers/", tokenA, "")
	require.Equal(t, fiber.StatusOK, code)

	data := dataMap(t, env)
	transfers := data["transfers"].([]interface{})
	assert.Len(t, transfers, 2)
	for _, raw := range transfers {
		entry := raw.(map[string]interface{})
		assert.EqualValues(t, userA.ID, entry["user_id"])
	}
}

func TestListTransfersFilterByStatus(t *testing.T) {
	user, token := createUser(t, "list-filter@example.com")
	scheme := createScheme(t, true)

	createStoredTransfer(t, user, scheme, models.TransferStatusPending, "10.00")
	createStoredTransfer(t, user, scheme, models.TransferStatusFailed, "20.00")

	code, env := doRequest(t, "GET", "/transfers/?status=failed", token, "")
	require.Equal(t, fiber.StatusOK, code)

	data := dataMap(t, env)
	transfers := data["transfers"].([]interface{})
	require.Len(t, transfers, 1)
	entry := transfers[0].(map[string]interface{})
	assert.Equal(t, "failed", entry["status"])
}

func TestListTransfersSearchByReference(t *testing.T) {
	user, token := createUser(t, "list-search@example.com")
	scheme := createScheme(t, true)

	transfer := createStoredTransfer(t, user, scheme, models.TransferStatusPending, "10.00")
	createStoredTransfer(t, user, scheme, models.TransferStatusPending, "20.00")

	code, env := doRequest(t, "GET", "/transfers/?search="+transfer.ReferenceNumber, token, "")
	require.Equal(t, fiber.StatusOK, code)

	data := dataMap(t, env)
	transfers := data["transfers"].([]interface{})
	require.Len(t, transfers, 1)
	entry := transfers[0].(map[string]interface{})
	assert.Equal(t, transfer.ReferenceNumber, entry["reference_number"])
}

func TestUpdateTransferKeepsImmutableFields(t *testing.T) {
	user, token := createUser(t, "update-immutable@example.com")
	scheme := createScheme(t, true)
	transfer := createStoredTransfer(t, user, scheme, models.TransferStatusPending, "100.00")

	body := `{"status": "cancelled", "notes": "no longer needed", "amount": 999999, "reference_number": "TRF-HACKED00"}`
	code, env := doRequest(t, "PATCH", fmt.Sprintf("/transfers/%d", transfer.ID), token, body)
	require.Equal(t, fiber.StatusOK, code)

	data := dataMap(t, env)
	assert.Equal(t, "cancelled", data["status"])
	assert.Equal(t, "no longer needed", data["notes"])
	assert.Equal(t, transfer.ReferenceNumber, data["reference_number"])

	var reloaded models.Transfer
	require.NoError(t, database.Database.Db.First(&reloaded, transfer.ID).Error)
	assert.True(t, reloaded.Amount.Equal(decimal.RequireFromString("100.00")))
	assert.Equal(t, transfer.ReferenceNumber, reloaded.ReferenceNumber)
}

func TestDeleteTransferBlockedWhileInFlight(t *testing.T) {
	user, token := createUser(t, "delete-blocked@example.com")
	scheme := createScheme(t, true)

	for _, status := range []models.TransferStatus{models.TransferStatusProcessing, models.TransferStatusCompleted} {
		transfer := createStoredTransfer(t, user, scheme, status, "100.00")

		code, env := doRequest(t, "DELETE", fmt.Sprintf("/transfers/%d", transfer.ID), token, "")
		assert.Equal(t, fiber.StatusConflict, code)
		assert.Equal(t, "Cannot delete completed or processing transfers.", env.Message)

		var reloaded models.Transfer
		assert.NoError(t, database.Database.Db.First(&reloaded, transfer.ID).Error)
		assert.Equal(t, status, reloaded.Status)
	}
}

func TestDeleteTransferAllowedWhenSettledOrIdle(t *testing.T) {
	user, token := createUser(t, "delete-allowed@example.com")
	scheme := createScheme(t, true)

	for _, status := range []models.TransferStatus{models.TransferStatusPending, models.TransferStatusFailed, models.TransferStatusCancelled} {
		transfer := createStoredTransfer(t, user, scheme, status, "100.00")

		code, _ := doRequest(t, "DELETE", fmt.Sprintf("/transfers/%d", transfer.ID), token, "")
		assert.Equal(t, fiber.StatusOK, code)

		code, _ = doRequest(t, "GET", fmt.Sprintf("/transfers/%d", transfer.ID), token, "")
		assert.Equal(t, fiber.StatusNotFound, code)
	}
}

func TestTransferStats(t *testing.T) {
	user, token := createUser(t, "stats@example.com")
	scheme := createScheme(t, true)

	createStoredTransfer(t, user, scheme, models.TransferStatusPending, "100.00")
	createStoredTransfer(t, user, scheme, models.TransferStatusPending, "200.00")
	createStoredTransfer(t, user, scheme, models.TransferStatusCompleted, "300.00")

	code, env := doRequest(t, "GET", "/transfers/stats", token, "")
	require.Equal(t, fiber.StatusOK, code)

	data := dataMap(t, env)
	assert.EqualValues(t, 3, data["total_transfers"])
	assert.EqualValues(t, 2, data["pending_transfers"])
	assert.EqualValues(t, 1, data["completed_transfers"])

	total, err := decimal.NewFromString(fmt.Sprintf("%v", data["total_amount"]))
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("600")), "total_amount = %v", data["total_amount"])

	byType := data["transfers_by_type"].(map[string]interface{})
	assert.EqualValues(t, 3, byType["in"])
	assert.EqualValues(t, 0, byType["out"])

	byStatus := data["transfers_by_status"].(map[string]interface{})
	assert.EqualValues(t, 2, byStatus["pending"])
	assert.EqualValues(t, 1, byStatus["completed"])
}

func TestBulkStatusUpdateSkipsForeignTransfers(t *testing.T) {
	owner, ownerToken := createUser(t, "bulk-owner@example.com")
	stranger, _ := createUser(t, "bulk-stranger@example.com")
	scheme := createScheme(t, true)

	owned := createStoredTransfer(t, owner, scheme, models.TransferStatusPending, "100.00")
	foreign := createStoredTransfer(t, stranger, scheme, models.TransferStatusPending, "100.00")

	body := fmt.Sprintf(`{"transfer_ids": [%d, %d], "status": "cancelled"}`, owned.ID, foreign.ID)
	code, env := doRequest(t, "POST", "/transfers/bulk-status", ownerToken, body)
	require.Equal(t, fiber.StatusOK, code)

	data := dataMap(t, env)
	assert.EqualValues(t, 1, data["updated"])

	var reloadedOwned, reloadedForeign models.Transfer
	require.NoError(t, database.Database.Db.First(&reloadedOwned, owned.ID).Error)
	require.NoError(t, database.Database.Db.First(&reloadedForeign, foreign.ID).Error)
	assert.Equal(t, models.TransferStatusCancelled, reloadedOwned.Status)
	assert.Equal(t, models.TransferStatusPending, reloadedForeign.Status)
}

func TestBulkStatusUpdateWithNoOwnedIds(t *testing.T) {
	_, token := createUser(t, "bulk-none@example.com")
	stranger, _ := createUser(t, "bulk-none-stranger@example.com")
	scheme := createScheme(t, true)

	foreign := createStoredTransfer(t, stranger, scheme, models.TransferStatusPending, "100.00")

	body := fmt.Sprintf(`{"transfer_ids": [%d], "status": "cancelled"}`, foreign.ID)
	code, env := doRequest(t, "POST", "/transfers/bulk-status", token, body)

	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "No valid transfers found.", env.Message)
}

func TestTransfersRequireAuth(t *testing.T) {
	code, _ := doRequest(t, "GET", "/transfers/", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = doRequest(t, "GET", "/transfers/stats", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}
