package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/service"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// POST /api/bookings
func (h *BookingHandler) CreateDirectBooking(c *gin.Context) {
	customerID, ok := actorID(c)
	if !ok {
		return
	}
	var in struct {
		PerformerID uuid.UUID `json:"performer_id" binding:"required"`
		Date        string    `json:"date" binding:"required"` // YYYY-MM-DD
		TariffID    uuid.UUID `json:"tariff_id" binding:"required"`
		Details     string    `json:"details"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := calendar.ParseDate(in.Date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	orderID, err := h.bookings.CreateDirectBooking(
		c.Request.Context(), customerID, in.PerformerID, date, in.TariffID, in.Details)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
}

// POST /api/orders/:id/proposals
func (h *BookingHandler) CreateProposal(c *gin.Context) {
	customerID, ok := actorID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		PerformerID uuid.UUID `json:"performer_id" binding:"required"`
		Date        string    `json:"date" binding:"required"` // YYYY-MM-DD
		TariffID    uuid.UUID `json:"tariff_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := calendar.ParseDate(in.Date)
	if err != nil {
		abortWithError(c, err)
		return
	}
	proposalID, err := h.bookings.CreateProposal(
		c.Request.Context(), customerID, orderID, in.PerformerID, date, in.TariffID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"proposal_id": proposalID})
}

// POST /api/proposals/:id/accept
func (h *BookingHandler) AcceptProposal(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	proposalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.bookings.AcceptProposal(c.Request.Context(), proposalID, performerID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": model.ProposalStatusAccepted})
}

// POST /api/proposals/:id/reject
func (h *BookingHandler) RejectProposal(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	proposalID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.bookings.RejectProposal(c.Request.Context(), proposalID, performerID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": model.ProposalStatusRejected})
}

// GET /api/proposals/my
func (h *BookingHandler) ListPending(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	proposals, err := h.bookings.ListPendingProposals(c.Request.Context(), performerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]gin.H, 0, len(proposals))
	for _, p := range proposals {
		item := gin.H{
			"id":           p.ID,
			"order_id":     p.OrderID,
			"performer_id": p.PerformerID,
			"tariff_id":    p.TariffID,
			"date":         time.Time(p.Date).Format("2006-01-02"),
			"status":       p.Status,
		}
		if p.Tariff != nil {
			item["tariff"] = gin.H{
				"id":    p.Tariff.ID,
				"name":  p.Tariff.Name,
				"price": p.Tariff.Price,
			}
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"proposals": out})
}
