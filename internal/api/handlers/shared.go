package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/store"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/validation"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

// errInvalidBody marks a body that is not valid JSON.
var errInvalidBody = errors.New("invalid request body")

// parseJSON decodes the request body into a T.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return req, nil
}

// readDocument reads the request body as a raw record. Malformed JSON is
// errInvalidBody; well-formed JSON that is not an object is ErrTypeMismatch.
func readDocument(r *http.Request) (store.Document, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if !json.Valid(body) {
		return nil, errInvalidBody
	}
	return store.Decode(body)
}

// statusFor maps an error from the service layer to an HTTP status.
func statusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr),
		errors.Is(err, errInvalidBody),
		errors.Is(err, apperrors.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrOwnerChange):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrWalletNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrQuoteNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrSchemaMismatch),
		errors.Is(err, apperrors.ErrTypeMismatch),
		errors.Is(err, apperrors.ErrInvalidCSVRow):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status statusFor picks. Server
// errors are reported under fallback; client errors under their own message.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	status := statusFor(err)
	message := err.Error()

	var verr *validation.Error
	switch {
	case status == http.StatusInternalServerError:
		message = fallback.Error()
	case errors.As(err, &verr):
		response.RespondError(w, status, "validation failed", verr.Fields)
		return
	case status == http.StatusNotFound:
		for _, notFound := range []error{
			apperrors.ErrTransactionNotFound,
			apperrors.ErrWalletNotFound,
			apperrors.ErrUserNotFound,
			apperrors.ErrQuoteNotFound,
		} {
			if errors.Is(err, notFound) {
				message = notFound.Error()
			}
		}
	}
	response.RespondError(w, status, message, err.Error())
}
