package leave

import "time"

type LeaveApplication struct {
	ID            int64      `gorm:"primaryKey"`
	EmployeeID    int64      `gorm:"column:employee_id;not null;index"`
	EmployeeName  string     `gorm:"column:employee_name;not null"`
	EmployeeEmail string     `gorm:"column:employee_email;not null"`
	LeaveType     string     `gorm:"column:leave_type;not null"`
	StartDate     time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate       time.Time  `gorm:"column:end_date;type:date;not null"`
	Reason        string     `gorm:"column:reason;not null"`
	Status        string     `gorm:"column:status;not null;default:Pending;index"`
	AdminComment  string     `gorm:"column:admin_comment;default:''"`
	AppliedAt     time.Time  `gorm:"column:applied_at;default:now()"`
	ReviewedBy    *int64     `gorm:"column:reviewed_by"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at"`
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
