package handlers

import (
	"errors"
	"net/http"

	"erms/events"
	"erms/middleware"
	"erms/models"
	"erms/policy"
	"erms/respond"
	"erms/store"

	"go.uber.org/zap"
)

type AssignmentRequest struct {
	EngineerID           uint         `json:"engineerId" validate:"required"`
	ProjectID            uint         `json:"projectId" validate:"required"`
	AllocationPercentage *int         `json:"allocationPercentage" validate:"required,min=0,max=100"`
	StartDate            *models.Date `json:"startDate"`
	EndDate              *models.Date `json:"endDate"`
	Role                 string       `json:"role" validate:"max=255"`
}

type AssignmentHandler struct {
	store    *store.Store
	events   events.Publisher
	validate *Validator
	log      *zap.Logger
}

func NewAssignmentHandler(st *store.Store, pub events.Publisher, v *Validator, log *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		store:    st,
		events:   pub,
		validate: v,
		log:      log,
	}
}

// Create handles POST /assignments/ (managers only). The engineer and project
// must exist; duplicate engineer/project pairs are allowed.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AssignmentRequest
	if !h.validate.decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	engineer, err := h.store.Users.GetByID(ctx, req.EngineerID)
	switch {
	case errors.Is(err, store.ErrNotFound) || (err == nil && !engineer.IsEngineer()):
		respond.Error(w, http.StatusNotFound, "Engineer not found")
		return
	case err != nil:
		serverError(w, h.log, "get engineer failed", err)
		return
	}

	if _, err := h.store.Projects.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Project not found")
			return
		}
		serverError(w, h.log, "get project failed", err)
		return
	}

	assignment := models.Assignment{
		EngineerID:           req.EngineerID,
		ProjectID:            req.ProjectID,
		AllocationPercentage: *req.AllocationPercentage,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Role:                 req.Role,
	}
	if err := h.store.Assignments.Create(ctx, &assignment); err != nil {
		serverError(w, h.log, "create assignment failed", err)
		return
	}

	view, err := h.store.Assignments.GetView(ctx, assignment.ID)
	if err != nil {
		serverError(w, h.log, "reload assignment failed", err)
		return
	}

	if err := h.events.Publish(ctx, events.SubjectAssignmentCreated, view); err != nil {
		h.log.Warn("publish assignment created failed", zap.Error(err), zap.Uint("assignment_id", assignment.ID))
	}

	h.log.Info("assignment created",
		zap.Uint("assignment_id", assignment.ID),
		zap.Uint("engineer_id", assignment.EngineerID),
		zap.Uint("project_id", assignment.ProjectID))
	respond.JSON(w, http.StatusOK, view)
}

// List handles GET /assignments/. Engineers only see their own rows.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	views, err := h.store.Assignments.ListViews(r.Context(), policy.AssignmentScope(user))
	if err != nil {
		serverError(w, h.log, "list assignments failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, views)
}

// Get handles GET /assignments/{id}.
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user := middleware.GetUserFromContext(r.Context())

	view, err := h.store.Assignments.GetView(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Assignment not found")
			return
		}
		serverError(w, h.log, "get assignment failed", err)
		return
	}

	if !policy.CanViewAssignment(user, &view.Assignment) {
		respond.Forbidden(w)
		return
	}
	respond.JSON(w, http.StatusOK, view)
}
