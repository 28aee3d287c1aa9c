package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/service"
)

// WalletHandler handles HTTP requests for the caller's wallets.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// Wallets handles GET /api/v1/wallets.
func (h *WalletHandler) Wallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.walletService.GetWallets(r.Context(), middleware.OwnerID(r.Context()))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWallets)
		return
	}
	response.RespondData(w, http.StatusOK, wallets)
}

// Wallet handles GET /api/v1/wallets/{uuid}.
func (h *WalletHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.walletService.GetWallet(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWallet)
		return
	}
	response.RespondJSON(w, http.StatusOK, wallet)
}

// CreateWallet handles POST /api/v1/wallets with {address, chain}.
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveWallet)
		return
	}

	wallet, err := h.walletService.CreateWallet(r.Context(), middleware.OwnerID(r.Context()), doc)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveWallet)
		return
	}
	response.RespondJSON(w, http.StatusCreated, wallet)
}

// UpdateWallet handles PUT /api/v1/wallets/{uuid}.
func (h *WalletHandler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveWallet)
		return
	}

	wallet, err := h.walletService.UpdateWallet(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "uuid"), doc)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveWallet)
		return
	}
	response.RespondJSON(w, http.StatusOK, wallet)
}

// DeleteWallet handles DELETE /api/v1/wallets/{uuid} and returns the removed wallet.
func (h *WalletHandler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.walletService.DeleteWallet(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveWallet)
		return
	}
	response.RespondJSON(w, http.StatusOK, wallet)
}
