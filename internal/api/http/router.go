package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"toolshare-backend/internal/security"
	"toolshare-backend/internal/service"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Quotes        service.QuoteService
	Checkout      service.CheckoutService
	Tools         service.ToolService
	Bookings      service.BookingService
	Notifications service.NotificationService
	Tokens        security.TokenManager
}

// NewRouter builds the API router. Catalog reads are public; quoting,
// checkout, bookings and notifications require a bearer token.
func NewRouter(h Handlers) *mux.Router {
	quoteHandler := NewQuoteHandler(h.Quotes)
	checkoutHandler := NewCheckoutHandler(h.Checkout)
	toolHandler := NewToolHandler(h.Tools)
	bookingHandler := NewBookingHandler(h.Bookings)
	notificationHandler := NewNotificationHandler(h.Notifications)

	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public catalog endpoints
	api.HandleFunc("/tools", toolHandler.ListTools).Methods(http.MethodGet)
	api.HandleFunc("/tools/{id:[0-9]+}", toolHandler.GetTool).Methods(http.MethodGet)
	api.HandleFunc("/insurance-plans", quoteHandler.ListInsurancePlans).Methods(http.MethodGet)
	api.HandleFunc("/promos/validate", quoteHandler.ValidatePromo).Methods(http.MethodPost)

	// Authenticated endpoints
	auth := api.NewRoute().Subrouter()
	auth.Use(AuthMiddleware(h.Tokens))

	auth.HandleFunc("/quotes", quoteHandler.BuildQuote).Methods(http.MethodPost)

	auth.HandleFunc("/checkout/sessions", checkoutHandler.OpenSession).Methods(http.MethodPost)
	auth.HandleFunc("/checkout/sessions/{id}", checkoutHandler.GetSession).Methods(http.MethodGet)
	auth.HandleFunc("/checkout/sessions/{id}", checkoutHandler.UpdateSession).Methods(http.MethodPatch)
	auth.HandleFunc("/checkout/sessions/{id}/promo", checkoutHandler.ApplyPromo).Methods(http.MethodPost)
	auth.HandleFunc("/checkout/sessions/{id}/submit", checkoutHandler.SubmitSession).Methods(http.MethodPost)

	auth.HandleFunc("/bookings", bookingHandler.ListBookings).Methods(http.MethodGet)
	auth.HandleFunc("/bookings/{id:[0-9]+}", bookingHandler.GetBooking).Methods(http.MethodGet)

	auth.HandleFunc("/notifications", notificationHandler.ListNotifications).Methods(http.MethodGet)
	auth.HandleFunc("/notifications/{id:[0-9]+}/read", notificationHandler.MarkAsRead).Methods(http.MethodPost)

	return r
}
