package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/service"
	"github.com/ndewijer/Crypto-Portfolio-Tracker-Backend/internal/validation"
)

// UserHandler handles registration, login and the current-user endpoint.
type UserHandler struct {
	authService *service.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Register handles POST requests creating a user and returns a bearer token.
//
// Endpoint: POST /api/v1/users
// Request Body: {"username": "...", "password": "..."}
// Response: 201 Created with Token
// Error: 400 Bad Request if the body is invalid
// Error: 409 Conflict if the username is taken
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CredentialsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateCredentials(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAuthenticate)
		return
	}

	token, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToAuthenticate)
		return
	}

	response.RespondJSON(w, http.StatusCreated, token)
}

// Authenticate handles login with either a form body (username, password)
// or the same fields as JSON.
//
// Endpoint: POST /api/v1/users/auth
// Response: 200 OK with Token
// Error: 401 Unauthorized if the credentials do not match
func (h *UserHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	req, err := credentials(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "username and password are required")
		return
	}

	token, err := h.authService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
			response.RespondError(w, http.StatusUnauthorized, "incorrect username or password", "")
			return
		}
		respondServiceError(w, err, apperrors.ErrFailedToAuthenticate)
		return
	}

	response.RespondJSON(w, http.StatusOK, token)
}

// Me handles GET requests returning the user a bearer token belongs to.
//
// Endpoint: GET /api/v1/users/me
// Response: 200 OK with UserResponse
// Error: 401 Unauthorized if the token is missing, invalid or its user is gone
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		response.RespondError(w, http.StatusUnauthorized, "not authenticated", "missing bearer token")
		return
	}

	user, err := h.authService.Me(r.Context(), token)
	if err != nil {
		if statusFor(err) == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
			response.RespondError(w, http.StatusUnauthorized, "could not validate credentials", "")
			return
		}
		respondServiceError(w, err, apperrors.ErrFailedToAuthenticate)
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}

func credentials(r *http.Request) (request.CredentialsRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodySize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return request.CredentialsRequest{}, err
		}
		return request.CredentialsRequest{
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}, nil
	default:
		return parseJSON[request.CredentialsRequest](r)
	}
}
