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

type ProjectRequest struct {
	Name           string               `json:"name" validate:"required,max=255"`
	Description    string               `json:"description" validate:"max=1024"`
	StartDate      *models.Date         `json:"startDate"`
	EndDate        *models.Date         `json:"endDate"`
	RequiredSkills []string             `json:"requiredSkills" validate:"omitempty,dive,required"`
	TeamSize       *int                 `json:"teamSize" validate:"omitempty,min=0"`
	Status         models.ProjectStatus `json:"status" validate:"omitempty,enum"`
}

type ProjectHandler struct {
	store    *store.Store
	events   events.Publisher
	validate *Validator
	log      *zap.Logger
}

func NewProjectHandler(st *store.Store, pub events.Publisher, v *Validator, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		store:    st,
		events:   pub,
		validate: v,
		log:      log,
	}
}

// Create handles POST /projects/ (managers only). The caller becomes the project's manager.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if !h.validate.decodeAndValidate(w, r, &req) {
		return
	}
	manager := middleware.GetUserFromContext(r.Context())

	project := models.Project{
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		RequiredSkills: nonNil(req.RequiredSkills),
		TeamSize:       req.TeamSize,
		Status:         req.Status,
		ManagerID:      manager.ID,
	}
	if project.Status == "" {
		project.Status = models.StatusPlanning
	}

	if err := h.store.Projects.Create(r.Context(), &project); err != nil {
		serverError(w, h.log, "create project failed", err)
		return
	}

	h.log.Info("project created", zap.Uint("project_id", project.ID), zap.Uint("manager_id", manager.ID))
	respond.JSON(w, http.StatusOK, project)
}

// List handles GET /projects/. Engineers only see projects they are assigned to.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	status := models.ProjectStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respond.Error(w, http.StatusUnprocessableEntity, []FieldError{{Field: "status", Message: "unsupported value " + string(status)}})
		return
	}
	user := middleware.GetUserFromContext(r.Context())

	projects, err := h.store.Projects.List(r.Context(), policy.ProjectScope(user, status))
	if err != nil {
		serverError(w, h.log, "list projects failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, projects)
}

// Get handles GET /projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user := middleware.GetUserFromContext(r.Context())

	project, err := h.store.Projects.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Project not found")
			return
		}
		serverError(w, h.log, "get project failed", err)
		return
	}

	allowed, err := policy.CanViewProject(r.Context(), h.store.Assignments, user, project.ID)
	if err != nil {
		serverError(w, h.log, "check project access failed", err)
		return
	}
	if !allowed {
		respond.Forbidden(w)
		return
	}

	respond.JSON(w, http.StatusOK, project)
}

// Delete handles DELETE /projects/{id} (managers only). Assignments that
// reference the project are kept; a project.deleted event is published instead.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	manager := middleware.GetUserFromContext(r.Context())

	if err := h.store.Projects.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Project not found")
			return
		}
		serverError(w, h.log, "delete project failed", err)
		return
	}

	evt := events.ProjectDeleted{ProjectID: id, ManagerID: manager.ID}
	if err := h.events.Publish(r.Context(), events.SubjectProjectDeleted, evt); err != nil {
		h.log.Warn("publish project deleted failed", zap.Error(err), zap.Uint("project_id", id))
	}

	h.log.Info("project deleted", zap.Uint("project_id", id), zap.Uint("manager_id", manager.ID))
	respond.Message(w, http.StatusOK, "Project deleted successfully")
}
