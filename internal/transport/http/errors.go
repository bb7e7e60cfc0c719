package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/service"
)

// statusFor переводит типизированные ошибки ядра в HTTP-статусы.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTariffNotFound),
		errors.Is(err, service.ErrResponseNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyBusy),
		errors.Is(err, service.ErrAlreadyApplied),
		errors.Is(err, service.ErrSlotAlreadyFilled),
		errors.Is(err, service.ErrOrderNotOpen),
		errors.Is(err, service.ErrOrderClosed),
		errors.Is(err, service.ErrProposalNotPending),
		errors.Is(err, service.ErrProposalExists),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrNotAssigned):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidService),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, calendar.ErrDateOutOfWindow):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// actorID извлекает идентификатор действующего пользователя.
// Аутентификация вне ядра: id уже проверенного пользователя передаёт
// внешний слой через заголовок.
func actorID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-ID header is required"})
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
