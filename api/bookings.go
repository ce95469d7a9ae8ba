package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/skybooking/internal/domain"
	"github.com/Domenick1991/skybooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightID       int64  `json:"flight_id"`
	PassengerName  string `json:"passenger_name"`
	PassengerEmail string `json:"passenger_email"`
	PassengerPhone string `json:"passenger_phone"`
}

type bookingResponse struct {
	ID              int64                 `json:"id"`
	PNR             string                `json:"pnr"`
	PassengerName   string                `json:"passenger_name"`
	PassengerEmail  string                `json:"passenger_email"`
	PassengerPhone  string                `json:"passenger_phone,omitempty"`
	FlightDetails   flightDetailsResponse `json:"flight_details"`
	BasePrice       int64                 `json:"base_price"`
	SurgeApplied    bool                  `json:"surge_applied"`
	SurgePercentage int64                 `json:"surge_percentage"`
	FinalPrice      int64                 `json:"final_price"`
	Status          string                `json:"status"`
	BookingDate     string                `json:"booking_date"`
}

type flightDetailsResponse struct {
	FlightCode    string `json:"flight_id"`
	Airline       string `json:"airline"`
	DepartureCity string `json:"departure_city"`
	ArrivalCity   string `json:"arrival_city"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	Duration      string `json:"duration"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	router.Use(requireAuth)
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/pnr/:pnr", h.getByPNR)
	router.GET("/:id", h.get)
	router.GET("/:id/ticket", h.ticket)
}

func (h *BookingHandler) create(c *gin.Context) {
	account, _ := accountID(c)

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), account, booking.CreateBookingInput{
		FlightID:       req.FlightID,
		PassengerName:  req.PassengerName,
		PassengerEmail: req.PassengerEmail,
		PassengerPhone: req.PassengerPhone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking confirmed successfully!",
		"data": gin.H{
			"booking": toBookingResponse(result.Booking),
			"wallet":  gin.H{"newBalance": result.NewBalance},
		},
	})
}

func (h *BookingHandler) list(c *gin.Context) {
	account, _ := accountID(c)

	bookings, err := h.service.ListBookings(c.Request.Context(), account)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(out), "data": out})
}

func (h *BookingHandler) get(c *gin.Context) {
	account, _ := accountID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), account, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": toBookingResponse(b)})
}

func (h *BookingHandler) getByPNR(c *gin.Context) {
	account, _ := accountID(c)

	b, err := h.service.GetBookingByPNR(c.Request.Context(), account, c.Param("pnr"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": toBookingResponse(b)})
}

func (h *BookingHandler) ticket(c *gin.Context) {
	account, _ := accountID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	b, data, contentType, err := h.service.Ticket(c.Request.Context(), account, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ticket-%s.txt", b.PNR))
	c.Data(http.StatusOK, contentType, data)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		PNR:            b.PNR,
		PassengerName:  b.PassengerName,
		PassengerEmail: b.PassengerEmail,
		PassengerPhone: b.PassengerPhone,
		FlightDetails: flightDetailsResponse{
			FlightCode:    b.FlightDetails.FlightCode,
			Airline:       b.FlightDetails.Airline,
			DepartureCity: b.FlightDetails.DepartureCity,
			ArrivalCity:   b.FlightDetails.ArrivalCity,
			DepartureTime: b.FlightDetails.DepartureTime,
			ArrivalTime:   b.FlightDetails.ArrivalTime,
			Duration:      b.FlightDetails.Duration,
		},
		BasePrice:       b.BasePrice,
		SurgeApplied:    b.SurgeApplied,
		SurgePercentage: b.SurgePercentage,
		FinalPrice:      b.FinalPrice,
		Status:          string(b.Status),
		BookingDate:     b.BookingDate.Format(time.RFC3339),
	}
}
