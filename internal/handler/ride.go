package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"wheelshare/internal/domain"
	"wheelshare/internal/service"
)

// RideHandler handles HTTP requests for rides.
//
// The authenticated principal (customer id) is resolved by an upstream
// gateway and carried explicitly in each request; the core never parses
// credentials.
type RideHandler struct {
	rideService     *service.RideService
	dispatchService *service.DispatchService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService, dispatchService *service.DispatchService) *RideHandler {
	return &RideHandler{
		rideService:     rideService,
		dispatchService: dispatchService,
	}
}

// EstimateFareRequest is the HTTP request body for a fare estimate.
type EstimateFareRequest struct {
	SourceLat      float64 `json:"source_lat"`
	SourceLng      float64 `json:"source_lng"`
	DestinationLat float64 `json:"destination_lat"`
	DestinationLng float64 `json:"destination_lng"`
}

// EstimateFareResponse is the HTTP response for a fare estimate.
type EstimateFareResponse struct {
	DistanceKm    float64 `json:"distance_km"`
	EstimatedFare string  `json:"estimated_fare"`
}

// RequestRideRequest is the HTTP request body for requesting a ride.
type RequestRideRequest struct {
	CustomerID         string  `json:"customer_id"`
	SourceLat          float64 `json:"source_lat"`
	SourceLng          float64 `json:"source_lng"`
	SourceAddress      string  `json:"source_address"`
	DestinationLat     float64 `json:"destination_lat"`
	DestinationLng     float64 `json:"destination_lng"`
	DestinationAddress string  `json:"destination_address"`
	EstimatedFare      string  `json:"estimated_fare,omitempty"`
}

// RequestRideResponse is the HTTP response for requesting a ride.
type RequestRideResponse struct {
	RideID        string  `json:"ride_id"`
	DistanceKm    float64 `json:"distance_km"`
	EstimatedFare string  `json:"estimated_fare"`
	Status        string  `json:"status"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID                 string  `json:"id"`
	CustomerID         string  `json:"customer_id"`
	DriverID           string  `json:"driver_id,omitempty"`
	SourceLat          float64 `json:"source_lat"`
	SourceLng          float64 `json:"source_lng"`
	SourceAddress      string  `json:"source_address"`
	DestinationLat     float64 `json:"destination_lat"`
	DestinationLng     float64 `json:"destination_lng"`
	DestinationAddress string  `json:"destination_address"`
	DistanceKm         float64 `json:"distance_km"`
	Fare               string  `json:"fare"`
	FinalFare          string  `json:"final_fare,omitempty"`
	Status             string  `json:"status"`
	RequestedAt        string  `json:"requested_at"`
	AcceptedAt         string  `json:"accepted_at,omitempty"`
	CompletedAt        string  `json:"completed_at,omitempty"`
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func toRideResponse(ride *domain.Ride) RideResponse {
	resp := RideResponse{
		ID:                 ride.ID,
		CustomerID:         ride.CustomerID,
		DriverID:           ride.DriverID,
		SourceLat:          ride.SourceLat,
		SourceLng:          ride.SourceLng,
		SourceAddress:      ride.SourceAddress,
		DestinationLat:     ride.DestinationLat,
		DestinationLng:     ride.DestinationLng,
		DestinationAddress: ride.DestinationAddress,
		DistanceKm:         ride.DistanceKm,
		Fare:               ride.Fare.StringFixed(2),
		Status:             string(ride.Status),
		RequestedAt:        ride.RequestedAt.Format(timeFormat),
	}
	if ride.FinalFare.Valid {
		resp.FinalFare = ride.FinalFare.Decimal.StringFixed(2)
	}
	if !ride.AcceptedAt.IsZero() {
		resp.AcceptedAt = ride.AcceptedAt.Format(timeFormat)
	}
	if !ride.CompletedAt.IsZero() {
		resp.CompletedAt = ride.CompletedAt.Format(timeFormat)
	}
	return resp
}

// EstimateFare handles POST /api/rides/estimate-fare
func (h *RideHandler) EstimateFare(c *gin.Context) {
	var req EstimateFareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quote, err := h.rideService.Quote(c.Request.Context(), req.SourceLat, req.SourceLng, req.DestinationLat, req.DestinationLng)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, EstimateFareResponse{
		DistanceKm:    quote.DistanceKm,
		EstimatedFare: quote.EstimatedFare.StringFixed(2),
	})
}

// RequestRide handles POST /api/rides/request
func (h *RideHandler) RequestRide(c *gin.Context) {
	var req RequestRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	var quoted decimal.Decimal
	if req.EstimatedFare != "" {
		parsed, err := decimal.NewFromString(req.EstimatedFare)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid estimated_fare"})
			return
		}
		quoted = parsed
	}

	ride, err := h.rideService.Request(c.Request.Context(), service.RequestRideCommand{
		CustomerID:         req.CustomerID,
		SourceLat:          req.SourceLat,
		SourceLng:          req.SourceLng,
		SourceAddress:      req.SourceAddress,
		DestinationLat:     req.DestinationLat,
		DestinationLng:     req.DestinationLng,
		DestinationAddress: req.DestinationAddress,
		QuotedFare:         quoted,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, RequestRideResponse{
		RideID:        ride.ID,
		DistanceKm:    ride.DistanceKm,
		EstimatedFare: ride.Fare.StringFixed(2),
		Status:        string(ride.Status),
	})
}

// GetPendingRides handles GET /api/rides/pending
func (h *RideHandler) GetPendingRides(c *gin.Context) {
	rides, err := h.dispatchService.PendingRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetRide handles GET /api/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride))
}

// CancelRideRequest is the HTTP request body for cancelling a ride.
type CancelRideRequest struct {
	CustomerID string `json:"customer_id"`
}

// CancelRide handles POST /api/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	var req CancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.dispatchService.CancelRide(c.Request.Context(), c.Param("id"), req.CustomerID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": "ride cancelled successfully"})
}

// GetHistory handles GET /api/rides/history
func (h *RideHandler) GetHistory(c *gin.Context) {
	customerID := c.Query("customer_id")

	rides, err := h.rideService.HistoryForCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}

	respondJSON(c, http.StatusOK, response)
}
