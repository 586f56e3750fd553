package fundController

import (
	"strings"
	"time"

	"mft/database"
	"mft/middleware"
	"mft/models"

	"github.com/gofiber/fiber/v2"
)

// orderClause resolves an ordering query param ("name", "-nav", ...) against a
// whitelist of sortable columns. A leading '-' sorts descending.
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

func schemeResponse(scheme models.FundScheme) fiber.Map {
	navDate := ""
	if scheme.NavDate != nil {
		navDate = time.Time(*scheme.NavDate).Format("2006-01-02")
	}
	return fiber.Map{
		"id":                scheme.ID,
		"name":              scheme.Name,
		"code":              scheme.Code,
		"fund_house_id":     scheme.FundHouseID,
		"fund_house_name":   scheme.FundHouse.Name,
		"fund_type":         scheme.FundType,
		"fund_type_display": models.FundTypeLabels[scheme.FundType],
		"nav":               scheme.Nav,
		"nav_date":          navDate,
		"is_active":         scheme.IsActive,
		"created_at":        scheme.CreatedAt,
		"updated_at":        scheme.UpdatedAt,
	}
}

// ListFundHouses returns active fund houses with search and ordering
func ListFundHouses(c *fiber.Ctx) error {
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
	query := db.Model(&models.FundHouse{}).Where("is_active = ?", true)

	if search := c.Query("search"); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", term, term)
	}

	ordering := orderClause(c.Query("ordering"), map[string]string{
		"name": "name",
		"code": "code",
	}, "name ASC")

	var total int64
	query.Count(&total)

	var houses []models.FundHouse
	if err := query.Order(ordering).Offset(offset).Limit(limit).Find(&houses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch fund houses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Fund houses fetched!", fiber.Map{
		"fund_houses": houses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ListFundSchemes returns active fund schemes with their owning house name
func ListFundSchemes(c *fiber.Ctx) error {
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
	query := db.Model(&models.FundScheme{}).
		Joins("JOIN fund_houses ON fund_houses.id = fund_schemes.fund_house_id").
		Where("fund_schemes.is_active = ?", true)

	if fundType := c.Query("fund_type"); fundType != "" {
		query = query.Where("fund_schemes.fund_type = ?", fundType)
	}
	if fundHouse := c.QueryInt("fund_house", 0); fundHouse > 0 {
		query = query.Where("fund_schemes.fund_house_id = ?", fundHouse)
	}

	if search := c.Query("search"); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(fund_schemes.name) LIKE ? OR LOWER(fund_schemes.code) LIKE ? OR LOWER(fund_houses.name) LIKE ?",
			term, term, term,
		)
	}

	ordering := orderClause(c.Query("ordering"), map[string]string{
		"name":     "fund_schemes.name",
		"nav":      "fund_schemes.nav",
		"nav_date": "fund_schemes.nav_date",
	}, "fund_houses.name ASC, fund_schemes.name ASC")

	var total int64
	query.Count(&total)

	var schemes []models.FundScheme
	if err := query.Preload("FundHouse").
		Order(ordering).Offset(offset).Limit(limit).Find(&schemes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch fund schemes!", nil)
	}

	response := make([]fiber.Map, 0, len(schemes))
	for _, scheme := range schemes {
		response = append(response, schemeResponse(scheme))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Fund schemes fetched!", fiber.Map{
		"fund_schemes": response,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
