package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/repository"
	"github.com/Domenick1991/skybooking/internal/service/flights"
	"github.com/Domenick1991/skybooking/internal/service/pricing"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	pricing pricing.PricingUseCase
}

type flightResponse struct {
	ID             int64             `json:"id"`
	FlightCode     string            `json:"flight_id"`
	Airline        string            `json:"airline"`
	DepartureCity  string            `json:"departure_city"`
	ArrivalCity    string            `json:"arrival_city"`
	DepartureTime  string            `json:"departure_time"`
	ArrivalTime    string            `json:"arrival_time"`
	Duration       string            `json:"duration"`
	BasePrice      int64             `json:"base_price"`
	AvailableSeats int               `json:"available_seats"`
	Aircraft       string            `json:"aircraft"`
	Pricing        domain.PriceQuote `json:"pricing"`
}

func NewFlightHandler(service flights.FlightUseCase, pricingSvc pricing.PricingUseCase) *FlightHandler {
	return &FlightHandler{service: service, pricing: pricingSvc}
}

func (h *FlightHandler) Register(router *gin.RouterGroup, optionalAuth, requireAuth gin.HandlerFunc) {
	router.GET("/", optionalAuth, h.list)
	router.GET("/cities", h.cities)
	router.GET("/:id", optionalAuth, h.get)
	router.POST("/:id/attempt", requireAuth, h.attempt)
}

func (h *FlightHandler) list(c *gin.Context) {
	limit := repository.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	filter := repository.FlightFilter{
		DepartureCity: c.Query("departure_city"),
		ArrivalCity:   c.Query("arrival_city"),
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.DefaultQuery("sort_order", "asc"),
		Limit:         limit,
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]flightResponse, 0, len(list))
	for i := range list {
		out = append(out, h.toResponse(c, &list[i]))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "data": out})
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.toResponse(c, flight)})
}

func (h *FlightHandler) attempt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}
	account, _ := accountID(c)

	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.pricing.RecordAttempt(c.Request.Context(), account, flight.ID); err != nil {
		respondError(c, err)
		return
	}

	quote := h.pricing.Quote(c.Request.Context(), account, flight.ID, flight.BasePrice)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"flight_id": flight.ID,
		"pricing":   quote,
	}})
}

func (h *FlightHandler) cities(c *gin.Context) {
	cities, err := h.service.Cities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cities})
}

// toResponse attaches the caller's quote when authenticated; anonymous
// callers always see the base price.
func (h *FlightHandler) toResponse(c *gin.Context, f *domain.Flight) flightResponse {
	quote := domain.NeutralQuote(f.BasePrice)
	if account, ok := accountID(c); ok {
		quote = h.pricing.Quote(c.Request.Context(), account, f.ID, f.BasePrice)
	}
	return flightResponse{
		ID:             f.ID,
		FlightCode:     f.Code,
		Airline:        f.Airline,
		DepartureCity:  f.DepartureCity,
		ArrivalCity:    f.ArrivalCity,
		DepartureTime:  f.DepartureTime,
		ArrivalTime:    f.ArrivalTime,
		Duration:       f.Duration,
		BasePrice:      f.BasePrice,
		AvailableSeats: f.AvailableSeats,
		Aircraft:       f.Aircraft,
		Pricing:        quote,
	}
}
