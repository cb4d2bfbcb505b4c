package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itemshare/service-sharing/internal/application"
	"github.com/itemshare/service-sharing/internal/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListByBooker)
		bookings.GET("/owner", h.ListByOwner)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PATCH("/:bookingId", h.ApproveBooking)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	bookerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), bookerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ApproveBooking handles PATCH /bookings/:bookingId?approved=true|false.
func (h *BookingHandler) ApproveBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return
	}

	raw, exists := c.GetQuery("approved")
	if !exists {
		response.BadRequest(c, "missing approved parameter")
		return
	}
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		response.BadRequest(c, "invalid approved parameter")
		return
	}

	result, err := h.service.ApproveBooking(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /bookings/:bookingId.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "bookingId")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListByBooker handles GET /bookings?state=&from=&size=.
func (h *BookingHandler) ListByBooker(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	from, size, ok := pagination(c)
	if !ok {
		return
	}
	state := c.DefaultQuery("state", "ALL")

	result, err := h.service.GetBookerBookings(c.Request.Context(), userID, state, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListByOwner handles GET /bookings/owner?state=&from=&size=.
func (h *BookingHandler) ListByOwner(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	from, size, ok := pagination(c)
	if !ok {
		return
	}
	state := c.DefaultQuery("state", "ALL")

	result, err := h.service.GetOwnerBookings(c.Request.Context(), userID, state, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
