package leave

import (
	"time"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	TypeSick      = "Sick Leave"
	TypeCasual    = "Casual Leave"
	TypeAnnual    = "Annual Leave"
	TypeMaternity = "Maternity Leave"
	TypePaternity = "Paternity Leave"
	TypeOther     = "Other"
)

// LeaveTypes is the set of accepted leave types.
var LeaveTypes = []string{TypeSick, TypeCasual, TypeAnnual, TypeMaternity, TypePaternity, TypeOther}

func ValidLeaveType(t string) bool {
	for _, lt := range LeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// LeaveApplication is a single time-off request. Employee name and email are
// snapshots taken at apply time and are never re-synced with the user record.
type LeaveApplication struct {
	ID            int64      `json:"id"`
	EmployeeID    int64      `json:"employee_id"`
	EmployeeName  string     `json:"employee_name"`
	EmployeeEmail string     `json:"employee_email"`
	LeaveType     string     `json:"leave_type"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	AdminComment  string     `json:"admin_comment"`
	AppliedAt     time.Time  `json:"applied_at"`
	ReviewedBy    *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	TotalDays     int        `json:"total_days"`
}

// AdminLeaveView is a leave application annotated with directory info for
// the admin listing: the employee's department and the reviewer's name.
type AdminLeaveView struct {
	LeaveApplication
	EmployeeDepartment string `json:"employee_department,omitempty"`
	ReviewerName       string `json:"reviewer_name,omitempty"`
}

func (l *LeaveApplication) IsPending() bool {
	return l.Status == StatusPending
}

// normalizeDate pins a timestamp to UTC midnight so day arithmetic is
// insensitive to time-of-day and timezone representation.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TotalDays returns the inclusive calendar-day count between two dates.
// The difference is taken as an absolute value so a record persisted with
// end before start still yields a positive count at read time.
func TotalDays(start, end time.Time) int {
	s := normalizeDate(start)
	e := normalizeDate(end)
	days := int(e.Sub(s).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days + 1
}

func ToDataModel(l *LeaveApplication) *leaveDatamodel.LeaveApplication {
	return &leaveDatamodel.LeaveApplication{
		ID:            l.ID,
		EmployeeID:    l.EmployeeID,
		EmployeeName:  l.EmployeeName,
		EmployeeEmail: l.EmployeeEmail,
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate,
		EndDate:       l.EndDate,
		Reason:        l.Reason,
		Status:        l.Status,
		AdminComment:  l.AdminComment,
		AppliedAt:     l.AppliedAt,
		ReviewedBy:    l.ReviewedBy,
		ReviewedAt:    l.ReviewedAt,
	}
}

func FromDataModel(m *leaveDatamodel.LeaveApplication) *LeaveApplication {
	return &LeaveApplication{
		ID:            m.ID,
		EmployeeID:    m.EmployeeID,
		EmployeeName:  m.EmployeeName,
		EmployeeEmail: m.EmployeeEmail,
		LeaveType:     m.LeaveType,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Reason:        m.Reason,
		Status:        m.Status,
		AdminComment:  m.AdminComment,
		AppliedAt:     m.AppliedAt,
		ReviewedBy:    m.ReviewedBy,
		ReviewedAt:    m.ReviewedAt,
		TotalDays:     TotalDays(m.StartDate, m.EndDate),
	}
}

func FromDataModelSlice(models []*leaveDatamodel.LeaveApplication) []*LeaveApplication {
	result := make([]*LeaveApplication, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
