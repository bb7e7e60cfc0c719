package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/repository"
	"github.com/eventar/marketplace-core/internal/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
	payURL  string
}

func NewCatalogHandler(catalog *service.CatalogService, payURL string) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, payURL: payURL}
}

// GET /api/performers?service=photo&city=..&min_price=..&max_price=..&min_rating=..&free_on=..&sort=..&page=..&page_size=..
func (h *CatalogHandler) SearchPerformers(c *gin.Context) {
	var filter repository.PerformerFilter

	if raw := c.Query("service"); raw != "" {
		code := model.ServiceCode(raw)
		if !code.Valid() {
			abortWithError(c, service.ErrInvalidService)
			return
		}
		filter.ServiceType = &code
	}
	filter.City = c.Query("city")
	filter.MinPrice, _ = strconv.ParseInt(c.Query("min_price"), 10, 64)
	filter.MaxPrice, _ = strconv.ParseInt(c.Query("max_price"), 10, 64)
	filter.MinRating, _ = strconv.ParseFloat(c.Query("min_rating"), 64)
	filter.Sort = c.Query("sort")
	if raw := c.Query("free_on"); raw != "" {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			abortWithError(c, err)
			return
		}
		filter.FreeOn = d
	}

	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	result, err := h.catalog.SearchPerformers(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		abortWithError(c, err)
		return
	}

	performers := make([]gin.H, 0, len(result.Items))
	for _, p := range result.Items {
		item := gin.H{
			"id":         p.ID,
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"city":       p.City,
			"rating":     p.Rating,
		}
		if p.ServiceType != nil {
			item["service_type"] = *p.ServiceType
		}
		if p.CompanyName != "" {
			item["company_name"] = p.CompanyName
		}
		performers = append(performers, item)
	}
	c.JSON(http.StatusOK, gin.H{
		"performers": performers,
		"page":       result.Page,
		"page_size":  result.PageSize,
		"total":      result.Total,
	})
}

// GET /api/performers/:id/tariffs
func (h *CatalogHandler) ListTariffs(c *gin.Context) {
	performerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	tariffs, err := h.catalog.ListTariffs(c.Request.Context(), performerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]gin.H, 0, len(tariffs))
	for _, t := range tariffs {
		out = append(out, gin.H{
			"id":          t.ID,
			"name":        t.Name,
			"price":       t.Price,
			"description": t.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tariffs": out})
}

// POST /api/tariffs
func (h *CatalogHandler) SaveTariff(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	var in struct {
		ID          *uuid.UUID `json:"id"`
		Name        string     `json:"name" binding:"required"`
		Price       int64      `json:"price" binding:"required"`
		Description string     `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tariffID, err := h.catalog.SaveTariff(
		c.Request.Context(), performerID, in.ID, in.Name, in.Price, in.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tariff_id": tariffID})
}

// DELETE /api/tariffs/:id
func (h *CatalogHandler) DeleteTariff(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	tariffID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteTariff(c.Request.Context(), performerID, tariffID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/subscription/pay
// Оплата подписки обрабатывается внешним сервисом: здесь только редирект.
func (h *CatalogHandler) SubscriptionPayRedirect(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, h.payURL)
}
