package leave

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
)

// Repository defines the data access methods for leave applications.
type Repository interface {
	Create(application *LeaveApplication) error
	GetByID(id int64) (*LeaveApplication, error)
	GetByEmployeeID(employeeID int64) ([]*LeaveApplication, error)
	GetAll(statusFilter string) ([]*LeaveApplication, error)
	// UpdateReview transitions a Pending application and reports how many
	// rows matched, so a lost race surfaces as zero rows.
	UpdateReview(id int64, status, adminComment string, reviewerID int64, reviewedAt time.Time) (int64, error)
	Delete(id int64) error
	CountByStatus() (*Stats, error)
}

// DirectoryEntry is the user info resolved for admin listings.
type DirectoryEntry struct {
	Name       string
	Department string
}

// UserDirectory resolves employee and reviewer info for the admin view.
type UserDirectory interface {
	DirectoryByIDs(ids []int64) (map[int64]DirectoryEntry, error)
}

// Service applies the leave workflow rules: validation, day counting,
// ownership checks, and the Pending -> {Approved, Rejected} state machine.
type Service struct {
	repo      Repository
	directory UserDirectory
	logger    *slog.Logger
}

func NewService(repo Repository, directory UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

// Apply creates a Pending application for the actor. The actor's name and
// email are captured as a snapshot on the record.
func (s *Service) Apply(actor *auth.User, dto ApplyLeaveDTO) (*LeaveApplication, error) {
	start, end, err := dto.Validate()
	if err != nil {
		s.logger.Warn("leave validation failed", "error", err, "employee_id", actor.ID)
		return nil, err
	}

	application := &LeaveApplication{
		EmployeeID:    actor.ID,
		EmployeeName:  actor.Name,
		EmployeeEmail: actor.Email,
		LeaveType:     dto.LeaveType,
		StartDate:     start,
		EndDate:       end,
		Reason:        dto.Reason,
		Status:        StatusPending,
		AppliedAt:     time.Now(),
	}

	if err := s.repo.Create(application); err != nil {
		s.logger.Error("failed to create leave application", "error", err, "employee_id", actor.ID)
		return nil, internal.NewInternalError("failed to create leave application", err)
	}

	application.TotalDays = TotalDays(application.StartDate, application.EndDate)

	s.logger.Info("leave application submitted",
		"leave_id", application.ID,
		"employee_id", actor.ID,
		"leave_type", dto.LeaveType,
		"total_days", application.TotalDays)

	return application, nil
}

// ListForEmployee returns the employee's own applications, newest first.
func (s *Service) ListForEmployee(employeeID int64) ([]*LeaveApplication, error) {
	applications, err := s.repo.GetByEmployeeID(employeeID)
	if err != nil {
		s.logger.Error("failed to list leaves for employee", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to fetch leaves", err)
	}
	return applications, nil
}

// ListAll returns every application, optionally filtered by status, each
// annotated with the employee's department and the reviewer's name.
func (s *Service) ListAll(statusFilter string) ([]*AdminLeaveView, error) {
	if statusFilter != "" && !ValidStatus(statusFilter) {
		return nil, internal.NewValidationError("invalid status filter", internal.ErrCodeInvalidStatus)
	}

	applications, err := s.repo.GetAll(statusFilter)
	if err != nil {
		s.logger.Error("failed to list all leaves", "error", err)
		return nil, internal.NewInternalError("failed to fetch leaves", err)
	}

	ids := make([]int64, 0, 2*len(applications))
	seen := make(map[int64]bool)
	for _, a := range applications {
		if !seen[a.EmployeeID] {
			seen[a.EmployeeID] = true
			ids = append(ids, a.EmployeeID)
		}
		if a.ReviewedBy != nil && !seen[*a.ReviewedBy] {
			seen[*a.ReviewedBy] = true
			ids = append(ids, *a.ReviewedBy)
		}
	}

	entries, err := s.directory.DirectoryByIDs(ids)
	if err != nil {
		s.logger.Error("failed to resolve user directory", "error", err)
		return nil, internal.NewInternalError("failed to fetch leaves", err)
	}

	views := make([]*AdminLeaveView, len(applications))
	for i, a := range applications {
		view := &AdminLeaveView{LeaveApplication: *a}
		if entry, ok := entries[a.EmployeeID]; ok {
			view.EmployeeDepartment = entry.Department
		}
		if a.ReviewedBy != nil {
			if entry, ok := entries[*a.ReviewedBy]; ok {
				view.ReviewerName = entry.Name
			}
		}
		views[i] = view
	}
	return views, nil
}

// GetByID returns a single application, visible to its owner or an admin.
func (s *Service) GetByID(id int64, actor *auth.User) (*LeaveApplication, error) {
	application, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrLeaveNotFound
	}

	if !actor.IsAdmin() && application.EmployeeID != actor.ID {
		s.logger.Warn("unauthorized leave access",
			"leave_id", id,
			"user_id", actor.ID,
			"owner_id", application.EmployeeID)
		return nil, internal.ErrUnauthorizedAccess
	}

	return application, nil
}

// Review applies an admin decision to a Pending application. Reviewing an
// already-decided application fails with a conflict rather than silently
// overwriting the earlier decision.
func (s *Service) Review(id int64, actor *auth.User, dto ReviewLeaveDTO) (*LeaveApplication, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	application, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrLeaveNotFound
	}

	if !application.IsPending() {
		s.logger.Warn("review rejected: leave already decided",
			"leave_id", id,
			"current_status", application.Status)
		return nil, internal.ErrAlreadyReviewed
	}

	reviewedAt := time.Now()
	affected, err := s.repo.UpdateReview(id, dto.Status, dto.AdminComment, actor.ID, reviewedAt)
	if err != nil {
		s.logger.Error("failed to update leave status", "error", err, "leave_id", id)
		return nil, internal.NewInternalError("failed to update leave status", err)
	}
	if affected == 0 {
		// Another reviewer decided it between our read and write.
		return nil, internal.ErrAlreadyReviewed
	}

	application.Status = dto.Status
	application.AdminComment = dto.AdminComment
	application.ReviewedBy = &actor.ID
	application.ReviewedAt = &reviewedAt

	s.logger.Info("leave reviewed",
		"leave_id", id,
		"reviewer_id", actor.ID,
		"decision", dto.Status)

	return application, nil
}

// Delete removes an application. Admins may delete at any status; the owning
// employee only while it is still Pending.
func (s *Service) Delete(id int64, actor *auth.User) error {
	application, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrLeaveNotFound
	}

	if !actor.IsAdmin() {
		if application.EmployeeID != actor.ID || !application.IsPending() {
			s.logger.Warn("unauthorized leave deletion",
				"leave_id", id,
				"user_id", actor.ID,
				"status", application.Status)
			return internal.ErrUnauthorizedAccess
		}
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete leave", "error", err, "leave_id", id)
		return internal.NewInternalError("failed to delete leave", err)
	}

	s.logger.Info("leave deleted", "leave_id", id, "user_id", actor.ID)
	return nil
}

// Stats returns per-status counts across all applications.
func (s *Service) Stats() (*Stats, error) {
	stats, err := s.repo.CountByStatus()
	if err != nil {
		s.logger.Error("failed to compute leave stats", "error", err)
		return nil, internal.NewInternalError("failed to fetch statistics", err)
	}
	return stats, nil
}
