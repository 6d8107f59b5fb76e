package handlers

import (
	"errors"
	"net/http"
	"time"

	"erms/auth"
	"erms/middleware"
	"erms/models"
	"erms/respond"
	"erms/store"

	"go.uber.org/zap"
)

type RegisterRequest struct {
	Email               string           `json:"email" validate:"required,email,max=255"`
	Name                string           `json:"name" validate:"required,max=255"`
	Role                models.Role      `json:"role" validate:"required,enum"`
	Password            string           `json:"password" validate:"required,min=5,max=72"`
	Skills              []string         `json:"skills" validate:"omitempty,dive,required"`
	Seniority           models.Seniority `json:"seniority" validate:"enum"`
	MaxCapacity         *int             `json:"maxCapacity" validate:"omitempty,min=0"`
	Department          string           `json:"department" validate:"max=255"`
	AvailablePercentage *int             `json:"availablePercentage" validate:"omitempty,min=0,max=100"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type CapacityResponse struct {
	EngineerID  uint `json:"engineerId"`
	MaxCapacity int  `json:"maxCapacity"`
	Allocated   int  `json:"allocated"`
	Available   int  `json:"available"`
}

type UserHandler struct {
	store    *store.Store
	auth     *auth.Service
	validate *Validator
	log      *zap.Logger
	now      func() time.Time
}

func NewUserHandler(st *store.Store, authSvc *auth.Service, v *Validator, log *zap.Logger) *UserHandler {
	return &UserHandler{
		store:    st,
		auth:     authSvc,
		validate: v,
		log:      log,
		now:      time.Now,
	}
}

// Register handles POST /users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.validate.decodeAndValidate(w, r, &req) {
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if _, err := h.store.Users.GetByEmail(r.Context(), email); err == nil {
		respond.Error(w, http.StatusBadRequest, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		serverError(w, h.log, "lookup user by email failed", err)
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		serverError(w, h.log, "hash password failed", err)
		return
	}

	user := models.User{
		Email:               email,
		Name:                req.Name,
		Role:                req.Role,
		Skills:              nonNil(req.Skills),
		Seniority:           req.Seniority,
		MaxCapacity:         req.MaxCapacity,
		Department:          req.Department,
		AvailablePercentage: models.DefaultAvailablePercentage,
		PasswordHash:        hash,
	}
	if req.AvailablePercentage != nil {
		user.AvailablePercentage = *req.AvailablePercentage
	}

	if err := h.store.Users.Create(r.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respond.Error(w, http.StatusBadRequest, "Email already registered")
			return
		}
		serverError(w, h.log, "create user failed", err)
		return
	}

	h.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	respond.JSON(w, http.StatusOK, user)
}

// Token handles POST /users/token. The body is a form with username (the
// email) and password, urlencoded or multipart.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	var missing []FieldError
	if username == "" {
		missing = append(missing, FieldError{Field: "username", Message: "field required"})
	}
	if password == "" {
		missing = append(missing, FieldError{Field: "password", Message: "field required"})
	}
	if missing != nil {
		respond.Error(w, http.StatusUnprocessableEntity, missing)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respond.Unauthorized(w, "Incorrect email or password")
			return
		}
		serverError(w, h.log, "authenticate failed", err)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		serverError(w, h.log, "issue token failed", err)
		return
	}

	respond.JSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, middleware.GetUserFromContext(r.Context()))
}

// List handles GET /users/ (managers only).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users.List(r.Context())
	if err != nil {
		serverError(w, h.log, "list users failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// Get handles GET /users/{id}. Engineers may only read their own profile.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	target, ok := h.visibleUser(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, target)
}

// Capacity handles GET /users/{id}/capacity: maxCapacity minus the allocation of
// assignments that have not ended before today.
func (h *UserHandler) Capacity(w http.ResponseWriter, r *http.Request) {
	target, ok := h.visibleUser(w, r)
	if !ok {
		return
	}

	assignments, err := h.store.Assignments.ListByEngineer(r.Context(), target.ID)
	if err != nil {
		serverError(w, h.log, "list engineer assignments failed", err)
		return
	}

	now := h.now()
	today := models.NewDate(now.Year(), now.Month(), now.Day())
	resp := CapacityResponse{EngineerID: target.ID}
	if target.MaxCapacity != nil {
		resp.MaxCapacity = *target.MaxCapacity
	}
	for i := range assignments {
		if assignments[i].ActiveOn(today) {
			resp.Allocated += assignments[i].AllocationPercentage
		}
	}
	resp.Available = resp.MaxCapacity - resp.Allocated

	respond.JSON(w, http.StatusOK, resp)
}

func (h *UserHandler) visibleUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	current := middleware.GetUserFromContext(r.Context())
	if !current.CanView(id) {
		respond.Forbidden(w)
		return nil, false
	}

	target, err := h.store.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return nil, false
		}
		serverError(w, h.log, "get user failed", err)
		return nil, false
	}
	return target, true
}

func serverError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	respond.Error(w, http.StatusInternalServerError, "Internal server error")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
