package leave

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Apply(actor *auth.User, dto ApplyLeaveDTO) (*LeaveApplication, error)
	ListForEmployee(employeeID int64) ([]*LeaveApplication, error)
	ListAll(statusFilter string) ([]*AdminLeaveView, error)
	GetByID(id int64, actor *auth.User) (*LeaveApplication, error)
	Review(id int64, actor *auth.User, dto ReviewLeaveDTO) (*LeaveApplication, error)
	Delete(id int64, actor *auth.User) error
	Stats() (*Stats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	identity, ok := auth.UserFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return identity, true
}

func (h *Handler) leaveID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid leave ID")
		return 0, false
	}
	return id, true
}

// ApplyLeave handles POST /leaves
func (h *Handler) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto ApplyLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	application, err := h.Service.Apply(identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, application)
}

// GetMyLeaves handles GET /leaves/my-leaves
func (h *Handler) GetMyLeaves(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	applications, err := h.Service.ListForEmployee(identity.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, applications)
}

// GetAllLeaves handles GET /leaves/all?status=
func (h *Handler) GetAllLeaves(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}

	views, err := h.Service.ListAll(r.URL.Query().Get("status"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, views)
}

// GetLeaveStats handles GET /leaves/stats
func (h *Handler) GetLeaveStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}

	stats, err := h.Service.Stats()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, stats)
}

// GetLeave handles GET /leaves/{id}
func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.leaveID(w, r)
	if !ok {
		return
	}

	application, err := h.Service.GetByID(id, identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, application)
}

// ReviewLeave handles PUT /leaves/{id}
func (h *Handler) ReviewLeave(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.leaveID(w, r)
	if !ok {
		return
	}

	var dto ReviewLeaveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	application, err := h.Service.Review(id, identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, application)
}

// DeleteLeave handles DELETE /leaves/{id}
func (h *Handler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.leaveID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id, identity); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccessMessage(w, http.StatusOK, "leave deleted successfully")
}
