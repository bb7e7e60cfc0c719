package http

import "github.com/gin-gonic/gin"

// NewRouter собирает таблицу маршрутов API.
func NewRouter(
	orders *OrderHandler,
	responses *ResponseHandler,
	bookings *BookingHandler,
	calendars *CalendarHandler,
	catalog *CatalogHandler,
) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")

	// Заказы.
	api.POST("/orders", orders.Create)
	api.GET("/orders/my", orders.ListMine)
	api.GET("/orders/available", orders.ListAvailable)
	api.GET("/orders/active", orders.ListActive)
	api.GET("/orders/:id", orders.Get)
	api.PUT("/orders/:id", orders.Edit)
	api.GET("/orders/:id/slots", orders.OpenSlots)
	api.POST("/orders/:id/cancel", orders.Cancel)
	api.DELETE("/orders/:id", orders.Delete)
	api.POST("/orders/:id/withdraw", orders.Withdraw)
	api.POST("/orders/:id/complete", orders.Complete)
	api.POST("/orders/:id/reviews", orders.SubmitReview)

	// Отклики.
	api.POST("/orders/:id/responses", responses.Submit)
	api.GET("/orders/:id/responses", responses.ListCandidates)
	api.GET("/responses/my", responses.ListMine)
	api.POST("/responses/:id/confirm", responses.Confirm)
	api.POST("/responses/:id/reject", responses.Reject)

	// Прямое бронирование и предложения.
	api.POST("/bookings", bookings.CreateDirectBooking)
	api.POST("/orders/:id/proposals", bookings.CreateProposal)
	api.GET("/proposals/my", bookings.ListPending)
	api.POST("/proposals/:id/accept", bookings.AcceptProposal)
	api.POST("/proposals/:id/reject", bookings.RejectProposal)

	// Каталог, тарифы, календарь.
	api.GET("/performers", catalog.SearchPerformers)
	api.GET("/performers/:id/tariffs", catalog.ListTariffs)
	api.GET("/performers/:id/calendar", calendars.ListBusyDates)
	api.PUT("/calendar", calendars.SetManualDates)
	api.POST("/tariffs", catalog.SaveTariff)
	api.DELETE("/tariffs/:id", catalog.DeleteTariff)
	api.GET("/subscription/pay", catalog.SubscriptionPayRedirect)

	return r
}
