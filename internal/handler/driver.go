package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"wheelshare/internal/service"
)

// DriverHandler handles HTTP requests for drivers: presence, location,
// nearby-ride polling and the ride lifecycle operations a driver performs.
type DriverHandler struct {
	driverService   *service.DriverService
	dispatchService *service.DispatchService
	rideService     *service.RideService
	walletService   *service.WalletService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(
	driverService *service.DriverService,
	dispatchService *service.DispatchService,
	rideService *service.RideService,
	walletService *service.WalletService,
) *DriverHandler {
	return &DriverHandler{
		driverService:   driverService,
		dispatchService: dispatchService,
		rideService:     rideService,
		walletService:   walletService,
	}
}

// DriverIDRequest carries the acting driver's id.
type DriverIDRequest struct {
	DriverID string `json:"driver_id"`
}

// UpdateLocationRequest is the HTTP request body for a location report.
type UpdateLocationRequest struct {
	DriverID string  `json:"driver_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// NearbyRideResponse is one ranked entry in the nearby-rides response.
type NearbyRideResponse struct {
	RideID           string  `json:"ride_id"`
	PickupAddress    string  `json:"pickup_address"`
	DropAddress      string  `json:"drop_address"`
	PickupLat        float64 `json:"pickup_lat"`
	PickupLng        float64 `json:"pickup_lng"`
	DropLat          float64 `json:"drop_lat"`
	DropLng          float64 `json:"drop_lng"`
	DistanceKm       float64 `json:"distance_km"`
	Fare             string  `json:"fare"`
	DriverEarning    string  `json:"driver_earning"`
	DistanceToPickup float64 `json:"distance_to_pickup"`
}

// DriverResponse is the HTTP representation of a driver.
type DriverResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	IsAvailable bool    `json:"is_available"`
	IsVerified  bool    `json:"is_verified"`
	Lat         float64 `json:"lat,omitempty"`
	Lng         float64 `json:"lng,omitempty"`
}

// ListDrivers handles GET /api/drivers
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.driverService.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, DriverResponse{
			ID:          d.ID,
			Name:        d.Name,
			Phone:       d.Phone,
			IsAvailable: d.IsAvailable,
			IsVerified:  d.IsVerified,
			Lat:         d.Lat,
			Lng:         d.Lng,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// NearbyDriverResponse is one driver position on the live map view.
type NearbyDriverResponse struct {
	DriverID string  `json:"driver_id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// GetNearbyDrivers handles GET /api/drivers/nearby
func (h *DriverHandler) GetNearbyDrivers(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lat"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid lng"})
		return
	}

	var radiusKm float64
	if raw := c.Query("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid radius_km"})
			return
		}
	}

	drivers, err := h.driverService.NearbyDrivers(c.Request.Context(), lat, lng, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]NearbyDriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, NearbyDriverResponse{
			DriverID: d.DriverID,
			Lat:      d.Lat,
			Lng:      d.Lng,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// GoOnline handles POST /api/driver/go-online
func (h *DriverHandler) GoOnline(c *gin.Context) {
	var req DriverIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.GoOnline(c.Request.Context(), req.DriverID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": "driver is online"})
}

// GoOffline handles POST /api/driver/go-offline
func (h *DriverHandler) GoOffline(c *gin.Context) {
	var req DriverIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.driverService.GoOffline(c.Request.Context(), req.DriverID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": "driver is offline"})
}

// UpdateLocation handles POST /api/driver/update-location
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.driverService.UpdateLocation(c.Request.Context(), service.UpdateLocationCommand{
		DriverID: req.DriverID,
		Lat:      req.Lat,
		Lng:      req.Lng,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": "location updated"})
}

// GetNearbyRides handles GET /api/driver/nearby-rides
func (h *DriverHandler) GetNearbyRides(c *gin.Context) {
	driverID := c.Query("driver_id")

	rides, err := h.dispatchService.NearbyRides(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]NearbyRideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, NearbyRideResponse{
			RideID:           r.RideID,
			PickupAddress:    r.PickupAddress,
			DropAddress:      r.DropAddress,
			PickupLat:        r.PickupLat,
			PickupLng:        r.PickupLng,
			DropLat:          r.DropLat,
			DropLng:          r.DropLng,
			DistanceKm:       r.DistanceKm,
			Fare:             r.Fare.StringFixed(2),
			DriverEarning:    r.DriverEarning.StringFixed(2),
			DistanceToPickup: r.PickupDistanceKm,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// AcceptRide handles POST /api/driver/accept-ride/:rideId
func (h *DriverHandler) AcceptRide(c *gin.Context) {
	var req DriverIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.dispatchService.AcceptRide(c.Request.Context(), c.Param("rideId"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message": "ride accepted",
		"ride":    toRideResponse(ride),
	})
}

// StartRide handles POST /api/driver/start-ride/:rideId
func (h *DriverHandler) StartRide(c *gin.Context) {
	var req DriverIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.dispatchService.StartRide(c.Request.Context(), c.Param("rideId"), req.DriverID); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"message": "ride started successfully"})
}

// CompleteRide handles POST /api/driver/complete-ride/:rideId
func (h *DriverHandler) CompleteRide(c *gin.Context) {
	var req DriverIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.dispatchService.CompleteRide(c.Request.Context(), c.Param("rideId"), req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message": "ride completed successfully",
		"ride":    toRideResponse(ride),
	})
}

// GetMyRides handles GET /api/driver/my-rides
func (h *DriverHandler) GetMyRides(c *gin.Context) {
	driverID := c.Query("driver_id")

	rides, err := h.rideService.ActiveForDriver(c.Request.Context(), driverID)
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

// WalletEntryResponse is one line of the wallet history response.
type WalletEntryResponse struct {
	ID          string `json:"id"`
	RideID      string `json:"ride_id"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// WalletHistoryResponse is the HTTP response for wallet history.
type WalletHistoryResponse struct {
	Entries []WalletEntryResponse `json:"wallet_history"`
	Balance string                `json:"total_balance"`
}

// GetWalletHistory handles GET /api/driver/wallet/history
func (h *DriverHandler) GetWalletHistory(c *gin.Context) {
	driverID := c.Query("driver_id")

	statement, err := h.walletService.Statement(c.Request.Context(), driverID)
	if err != nil {
		respondError(c, err)
		return
	}

	entries := make([]WalletEntryResponse, 0, len(statement.Entries))
	for _, e := range statement.Entries {
		entries = append(entries, WalletEntryResponse{
			ID:          e.ID,
			RideID:      e.RideID,
			Amount:      e.Amount.StringFixed(2),
			Type:        string(e.Type),
			Description: e.Description,
			CreatedAt:   e.CreatedAt.Format(timeFormat),
		})
	}

	respondJSON(c, http.StatusOK, WalletHistoryResponse{
		Entries: entries,
		Balance: statement.Balance.StringFixed(2),
	})
}
