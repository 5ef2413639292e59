package postgres

import (
	"time"

	"gorm.io/gorm"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
)

// LeaveRepository implements the leave.Repository interface using GORM.
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(application *leave.LeaveApplication) error {
	m := leave.ToDataModel(application)
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	application.ID = m.ID
	return nil
}

func (r *LeaveRepository) GetByID(id int64) (*leave.LeaveApplication, error) {
	var m leaveDatamodel.LeaveApplication
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return leave.FromDataModel(&m), nil
}

func (r *LeaveRepository) GetByEmployeeID(employeeID int64) ([]*leave.LeaveApplication, error) {
	var models []*leaveDatamodel.LeaveApplication
	err := r.db.Where("employee_id = ?", employeeID).
		Order("applied_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(models), nil
}

func (r *LeaveRepository) GetAll(statusFilter string) ([]*leave.LeaveApplication, error) {
	query := r.db.Order("applied_at DESC")
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var models []*leaveDatamodel.LeaveApplication
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(models), nil
}

// UpdateReview performs a conditional update: only a Pending row is
// transitioned, so concurrent reviews cannot both win.
func (r *LeaveRepository) UpdateReview(id int64, status, adminComment string, reviewerID int64, reviewedAt time.Time) (int64, error) {
	result := r.db.Model(&leaveDatamodel.LeaveApplication{}).
		Where("id = ? AND status = ?", id, leave.StatusPending).
		Updates(map[string]interface{}{
			"status":        status,
			"admin_comment": adminComment,
			"reviewed_by":   reviewerID,
			"reviewed_at":   reviewedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *LeaveRepository) Delete(id int64) error {
	return r.db.Delete(&leaveDatamodel.LeaveApplication{}, id).Error
}

func (r *LeaveRepository) CountByStatus() (*leave.Stats, error) {
	stats := &leave.Stats{}

	type statusCount struct {
		Status string
		Count  int64
	}

	var counts []statusCount
	err := r.db.Model(&leaveDatamodel.LeaveApplication{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	for _, c := range counts {
		stats.Total += c.Count
		switch c.Status {
		case leave.StatusPending:
			stats.Pending = c.Count
		case leave.StatusApproved:
			stats.Approved = c.Count
		case leave.StatusRejected:
			stats.Rejected = c.Count
		}
	}
	return stats, nil
}
