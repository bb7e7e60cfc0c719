package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/service"
)

type CalendarHandler struct {
	calendars *service.CalendarService
}

func NewCalendarHandler(calendars *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendars: calendars}
}

// GET /api/performers/:id/calendar
func (h *CalendarHandler) ListBusyDates(c *gin.Context) {
	performerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	busy, err := h.calendars.ListBusyDates(c.Request.Context(), performerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]gin.H, 0, len(busy))
	for _, bd := range busy {
		out = append(out, gin.H{
			"date":   time.Time(bd.Date).Format("2006-01-02"),
			"source": bd.Source,
		})
	}
	c.JSON(http.StatusOK, gin.H{"busy_dates": out})
}

// PUT /api/calendar
// Полная замена ручных отметок занятости текущего исполнителя.
func (h *CalendarHandler) SetManualDates(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	var in struct {
		Dates []string `json:"dates"` // YYYY-MM-DD
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dates := make([]time.Time, 0, len(in.Dates))
	for _, raw := range in.Dates {
		d, err := calendar.ParseDate(raw)
		if err != nil {
			abortWithError(c, err)
			return
		}
		dates = append(dates, d)
	}
	if err := h.calendars.SetManualDates(c.Request.Context(), performerID, dates); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
