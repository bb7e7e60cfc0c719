package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	customerID, ok := actorID(c)
	if !ok {
		return
	}
	var in struct {
		Title       string              `json:"title" binding:"required"`
		EventDate   string              `json:"event_date" binding:"required"` // YYYY-MM-DD
		City        string              `json:"city"`
		Venue       string              `json:"venue"`
		GuestCount  int                 `json:"guest_count"`
		Description string              `json:"description"`
		BudgetMin   int64               `json:"budget_min"`
		BudgetMax   int64               `json:"budget_max"`
		Services    []model.ServiceCode `json:"services" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := calendar.ParseDate(in.EventDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	orderID, err := h.orders.CreateRequest(c.Request.Context(), customerID, service.CreateRequestInput{
		Title:       in.Title,
		EventDate:   date,
		City:        in.City,
		Venue:       in.Venue,
		GuestCount:  in.GuestCount,
		Description: in.Description,
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		Services:    in.Services,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
}

// PUT /api/orders/:id
func (h *OrderHandler) Edit(c *gin.Context) {
	customerID, ok := actorID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Title       string              `json:"title" binding:"required"`
		EventDate   string              `json:"event_date" binding:"required"` // YYYY-MM-DD
		City        string              `json:"city"`
		Venue       string              `json:"venue"`
		GuestCount  int                 `json:"guest_count"`
		Description string              `json:"description"`
		BudgetMin   int64               `json:"budget_min"`
		BudgetMax   int64               `json:"budget_max"`
		Services    []model.ServiceCode `json:"services" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := calendar.ParseDate(in.EventDate)
	if err != nil {
		abortWithError(c, err)
		return
	}
	err = h.orders.Edit(c.Request.Context(), orderID, customerID, service.CreateRequestInput{
		Title:       in.Title,
		EventDate:   date,
		City:        in.City,
		Venue:       in.Venue,
		GuestCount:  in.GuestCount,
		Description: in.Description,
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		Services:    in.Services,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapOrder(order))
}

// GET /api/orders/:id/slots
func (h *OrderHandler) OpenSlots(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	slots, err := h.orders.OpenSlots(c.Request.Context(), orderID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"open_slots": slots})
}

// POST /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Cancel(c.Request.Context(), orderID, actor); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": model.OrderStatusCancelled})
}

// DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, ok := actorID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), orderID, actor); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/orders/:id/withdraw
func (h *OrderHandler) Withdraw(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Withdraw(c.Request.Context(), orderID, performerID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": model.OrderStatusNew})
}

// POST /api/orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Complete(c.Request.Context(), orderID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": model.OrderStatusCompleted})
}

// POST /api/orders/:id/reviews
func (h *OrderHandler) SubmitReview(c *gin.Context) {
	fromID, ok := actorID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Rating int    `json:"rating" binding:"required"`
		Text   string `json:"text"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.orders.SubmitReview(c.Request.Context(), orderID, fromID, in.Rating, in.Text); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// GET /api/orders/my
func (h *OrderHandler) ListMine(c *gin.Context) {
	customerID, ok := actorID(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": mapOrders(orders)})
}

// GET /api/orders/available
func (h *OrderHandler) ListAvailable(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListAvailableForPerformer(c.Request.Context(), performerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": mapOrders(orders)})
}

// GET /api/orders/active
func (h *OrderHandler) ListActive(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListActiveByPerformer(c.Request.Context(), performerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": mapOrders(orders)})
}

func mapOrder(o *model.Order) gin.H {
	out := gin.H{
		"id":          o.ID,
		"customer_id": o.CustomerID,
		"order_type":  o.OrderType,
		"status":      o.Status,
		"title":       o.Title,
		"event_date":  time.Time(o.EventDate).Format("2006-01-02"),
		"city":        o.City,
		"services":    o.Services,
		"budget_min":  o.BudgetMin,
		"budget_max":  o.BudgetMax,
	}
	if o.PerformerID != nil {
		out["performer_id"] = *o.PerformerID
	}
	if len(o.Selected) > 0 {
		selected := gin.H{}
		for _, s := range o.Selected {
			selected[string(s.ServiceCode)] = s.PerformerID
		}
		out["selected_performers"] = selected
	}
	return out
}

func mapOrders(orders []model.Order) []gin.H {
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, mapOrder(&orders[i]))
	}
	return out
}
