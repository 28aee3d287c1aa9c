package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/service"
)

// maxUploadSize caps imported CSV files.
const maxUploadSize = 10 << 20

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transaction and portfolio services. Every route
// runs behind middleware.Authenticate.
type TransactionHandler struct {
	transactionService *service.TransactionService
	portfolioService   *service.PortfolioService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependencies.
func NewTransactionHandler(transactionService *service.TransactionService, portfolioService *service.PortfolioService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		portfolioService:   portfolioService,
	}
}

// Transactions handles GET requests listing the caller's transactions.
//
// Endpoint: GET /api/v1/transactions?asset={symbol}&tag={tag}
// Response: 200 OK with {"data": [Transaction]}
// Error: 400 Bad Request if both asset and tag are given
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseTransactionFilter(r.URL.Query().Get("asset"), r.URL.Query().Get("tag"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	transactions, err := h.transactionService.GetTransactions(r.Context(), middleware.OwnerID(r.Context()), filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondData(w, http.StatusOK, transactions)
}

// Transaction handles GET requests for one of the caller's transactions.
//
// Endpoint: GET /api/v1/transactions/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if the id is invalid (validated by middleware)
// Error: 404 Not Found if the transaction does not exist or belongs to another user
func (h *TransactionHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.transactionService.GetTransaction(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusOK, tx)
}

// CreateTransaction handles POST requests creating a transaction for the caller.
// The body carries asset, amount, historical_price, currency, tags, date and type;
// owner_id comes from the token.
//
// Endpoint: POST /api/v1/transactions
// Response: 201 Created with Transaction
// Error: 400 Bad Request if the body is not JSON or a field is invalid
// Error: 403 Forbidden if the body names another owner
// Error: 422 Unprocessable Entity if fields are missing, unknown or of the wrong type
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveTransaction)
		return
	}

	tx, err := h.transactionService.CreateTransaction(r.Context(), middleware.OwnerID(r.Context()), doc)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusCreated, tx)
}

// UpdateTransaction handles PUT requests replacing some fields of a transaction.
//
// Endpoint: PUT /api/v1/transactions/{uuid}
// Response: 200 OK with the updated Transaction
// Error: 400 Bad Request if the body is not JSON or a field is invalid
// Error: 403 Forbidden if the body names another owner
// Error: 404 Not Found if the transaction does not exist or belongs to another user
// Error: 422 Unprocessable Entity if a key is unknown or a value has the wrong type
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveTransaction)
		return
	}

	tx, err := h.transactionService.UpdateTransaction(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "uuid"), doc)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusOK, tx)
}

// DeleteTransaction handles DELETE requests and returns the removed transaction.
//
// Endpoint: DELETE /api/v1/transactions/{uuid}
// Response: 200 OK with the deleted Transaction
// Error: 404 Not Found if the transaction does not exist or belongs to another user
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.transactionService.DeleteTransaction(r.Context(), middleware.OwnerID(r.Context()), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusOK, tx)
}

// Portfolio handles GET requests aggregating the caller's transactions.
//
// Endpoint: GET /api/v1/transactions/portfolio?asset={symbol}&prices=true
// Response: 200 OK with {"data": Portfolio}, data is null when there are no transactions
// Error: 400 Bad Request if prices is not a boolean
// Error: 500 Internal Server Error if aggregation fails
func (h *TransactionHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	query, err := request.ParsePortfolioQuery(r.URL.Query().Get("asset"), r.URL.Query().Get("prices"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	p, err := h.portfolioService.GetPortfolio(r.Context(), middleware.OwnerID(r.Context()), query)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCalculatePortfolio)
		return
	}

	response.RespondData(w, http.StatusOK, p)
}

// ImportFile handles multipart uploads of a CSV export in the "file" field.
// Rows are asset,amount,historical_price,date,type.
//
// Endpoint: POST /api/v1/transactions/file
// Response: 201 Created with ImportResponse
// Error: 400 Bad Request if no file is attached
// Error: 422 Unprocessable Entity if a row is malformed
func (h *TransactionHandler) ImportFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "a CSV file is required", err.Error())
		return
	}
	defer file.Close()

	created, err := h.transactionService.ImportCSV(r.Context(), middleware.OwnerID(r.Context()), file)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToImportTransactions)
		return
	}

	response.RespondJSON(w, http.StatusCreated, model.ImportResponse{
		ProcessedFile: header.Filename,
		Imported:      len(created),
		Transactions:  created,
	})
}
