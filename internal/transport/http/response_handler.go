package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/service"
)

type ResponseHandler struct {
	responses *service.ResponseService
}

func NewResponseHandler(responses *service.ResponseService) *ResponseHandler {
	return &ResponseHandler{responses: responses}
}

// POST /api/orders/:id/responses
func (h *ResponseHandler) Submit(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Price   int64  `json:"price"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	responseID, err := h.responses.Submit(c.Request.Context(), orderID, performerID, in.Price, in.Message)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"response_id": responseID})
}

// POST /api/responses/:id/confirm
func (h *ResponseHandler) Confirm(c *gin.Context) {
	customerID, ok := actorID(c)
	if !ok {
		return
	}
	responseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.responses.Confirm(c.Request.Context(), responseID, customerID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/responses/:id/reject
func (h *ResponseHandler) Reject(c *gin.Context) {
	customerID, ok := actorID(c)
	if !ok {
		return
	}
	responseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.responses.Reject(c.Request.Context(), responseID, customerID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/orders/:id/responses?service=photo
func (h *ResponseHandler) ListCandidates(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	code := model.ServiceCode(c.Query("service"))
	responses, err := h.responses.ListCandidates(c.Request.Context(), orderID, code)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": mapResponses(responses)})
}

// GET /api/responses/my
func (h *ResponseHandler) ListMine(c *gin.Context) {
	performerID, ok := actorID(c)
	if !ok {
		return
	}
	responses, err := h.responses.ListByPerformer(c.Request.Context(), performerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": mapResponses(responses)})
}

func mapResponses(responses []model.OrderResponse) []gin.H {
	out := make([]gin.H, 0, len(responses))
	for _, r := range responses {
		item := gin.H{
			"id":           r.ID,
			"order_id":     r.OrderID,
			"performer_id": r.PerformerID,
			"service_code": r.ServiceCode,
			"price":        r.Price,
			"message":      r.Message,
			"created_at":   r.CreatedAt,
		}
		if r.Performer != nil {
			item["performer"] = gin.H{
				"id":         r.Performer.ID,
				"first_name": r.Performer.FirstName,
				"last_name":  r.Performer.LastName,
				"city":       r.Performer.City,
				"rating":     r.Performer.Rating,
			}
		}
		out = append(out, item)
	}
	return out
}
