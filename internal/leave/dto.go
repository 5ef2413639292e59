package leave

import (
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

const maxReasonLength = 500

// ApplyLeaveDTO is the request payload for submitting a leave application.
// Dates are calendar dates without a time-of-day component.
type ApplyLeaveDTO struct {
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// Validate checks the payload and returns the parsed start and end dates.
func (dto ApplyLeaveDTO) Validate() (start, end time.Time, err error) {
	if !ValidLeaveType(dto.LeaveType) {
		return start, end, internal.NewValidationError("invalid leave type", internal.ErrCodeInvalidLeaveType)
	}
	if dto.StartDate == "" {
		return start, end, internal.NewValidationError("start date is required", internal.ErrCodeInvalidDate)
	}
	if dto.EndDate == "" {
		return start, end, internal.NewValidationError("end date is required", internal.ErrCodeInvalidDate)
	}

	start, err = parseDate(dto.StartDate)
	if err != nil {
		return start, end, internal.NewValidationError("start date must be a valid date", internal.ErrCodeInvalidDate)
	}
	end, err = parseDate(dto.EndDate)
	if err != nil {
		return start, end, internal.NewValidationError("end date must be a valid date", internal.ErrCodeInvalidDate)
	}

	if end.Before(start) {
		return start, end, internal.NewValidationError("end date cannot be before start date", internal.ErrCodeInvalidDate)
	}

	reason := strings.TrimSpace(dto.Reason)
	if reason == "" {
		return start, end, internal.NewValidationError("reason is required", internal.ErrCodeInvalidReason)
	}
	if len(reason) > maxReasonLength {
		return start, end, internal.NewValidationError("reason cannot exceed 500 characters", internal.ErrCodeInvalidReason)
	}

	return start, end, nil
}

// ReviewLeaveDTO is the request payload for the admin review decision.
type ReviewLeaveDTO struct {
	Status       string `json:"status"`
	AdminComment string `json:"admin_comment"`
}

func (dto ReviewLeaveDTO) Validate() error {
	if dto.Status != StatusApproved && dto.Status != StatusRejected {
		return internal.NewValidationError("invalid status, must be Approved or Rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// Stats holds per-status counts across all leave applications.
type Stats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
