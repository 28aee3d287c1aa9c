package handlers

import (
	"net/http"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
	priceService  *service.PriceService
}

// NewSystemHandler creates a new SystemHandler. priceService may be nil when
// no price feed is configured.
func NewSystemHandler(systemService *service.SystemService, priceService *service.PriceService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
		priceService:  priceService,
	}
}

// Health checks the health of the system and database connectivity
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthStatus, 503 Service Unavailable when the database is unreachable
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.systemService.CheckHealth(r.Context())
	if status.Error != "" {
		response.RespondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	response.RespondJSON(w, http.StatusOK, status)
}

// Version handles GET requests to retrieve version information and feature availability.
// Returns the application version, database version, available features, and any pending migrations.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with VersionInfo
// Error: 500 Internal Server Error if version check fails
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	info, err := h.systemService.CheckVersion(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetVersionInfo.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, info)
}

// RefreshPrices refetches every tracked price. Guarded by middleware.APIKey.
//
// Endpoint: POST /api/system/prices/refresh
// Response: 200 OK with PriceRefreshResponse
// Error: 502 Bad Gateway if the price feed fails
// Error: 503 Service Unavailable if no price feed is configured
func (h *SystemHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	if h.priceService == nil {
		response.RespondError(w, http.StatusServiceUnavailable, "price feed is not configured", "")
		return
	}

	result, err := h.priceService.Refresh(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRetrievePrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
