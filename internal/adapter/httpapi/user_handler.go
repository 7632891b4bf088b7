package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/debeshghorui/Roomsy/internal/domain"
	"github.com/debeshghorui/Roomsy/internal/platform/logger"
	"github.com/debeshghorui/Roomsy/internal/platform/metrics"
	"github.com/debeshghorui/Roomsy/internal/usecase"
)

// UserHandler exposes registration, authentication and profile endpoints.
type UserHandler struct {
	identity *usecase.IdentityUsecase
	metrics  *metrics.Manager
	logger   *logger.Logger
}

func NewUserHandler(identity *usecase.IdentityUsecase, m *metrics.Manager, log *logger.Logger) *UserHandler {
	return &UserHandler{identity: identity, metrics: m, logger: log.Named("UserHandler")}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type availabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

func (h *UserHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, h.metrics, "signup", domain.NewValidationError("body", "invalid request body"))
		return
	}

	user, err := h.identity.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(w, h.logger, h.metrics, "signup", err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserDTO(user))
}

func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, h.metrics, "login", domain.NewValidationError("body", "invalid request body"))
		return
	}

	token, err := h.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, h.logger, h.metrics, "login", err)
		return
	}

	user, err := h.identity.ProfileByUsername(r.Context(), req.Username)
	if err != nil {
		respondError(w, h.logger, h.metrics, "login", err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: toUserDTO(user)})
}

func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Logout(r.Context(), principalFrom(r.Context())); err != nil {
		respondError(w, h.logger, h.metrics, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r.Context())
	if principal == nil {
		respondError(w, h.logger, h.metrics, "profile", domain.ErrUnauthenticated)
		return
	}

	user, err := h.identity.Profile(r.Context(), principal.UserID.Hex())
	if err != nil {
		respondError(w, h.logger, h.metrics, "profile", err)
		return
	}
	respondJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, h.metrics, "update_profile", domain.NewValidationError("body", "invalid request body"))
		return
	}

	user, err := h.identity.UpdateProfile(r.Context(), principalFrom(r.Context()), req.Username, req.Email)
	if err != nil {
		respondError(w, h.logger, h.metrics, "update_profile", err)
		return
	}
	respondJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) HandleCheckUsername(w http.ResponseWriter, r *http.Request) {
	available, err := h.identity.UsernameAvailable(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		respondError(w, h.logger, h.metrics, "check_username", err)
		return
	}

	message := "username is available"
	if !available {
		message = "username is already taken"
	}
	respondJSON(w, http.StatusOK, availabilityResponse{Available: available, Message: message})
}
