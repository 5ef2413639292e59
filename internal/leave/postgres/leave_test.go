package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
)

func TestLeavePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Leave Postgres Suite")
}

// SQLiteLeaveApplication is a SQLite-compatible model for testing
type SQLiteLeaveApplication struct {
	ID            int64      `gorm:"primaryKey"`
	EmployeeID    int64      `gorm:"column:employee_id;index;not null"`
	EmployeeName  string     `gorm:"column:employee_name;not null"`
	EmployeeEmail string     `gorm:"column:employee_email;not null"`
	LeaveType     string     `gorm:"column:leave_type;not null"`
	StartDate     time.Time  `gorm:"column:start_date;not null"`
	EndDate       time.Time  `gorm:"column:end_date;not null"`
	Reason        string     `gorm:"column:reason;not null"`
	Status        string     `gorm:"column:status;default:Pending;index"`
	AdminComment  string     `gorm:"column:admin_comment"`
	AppliedAt     time.Time  `gorm:"column:applied_at"`
	ReviewedBy    *int64     `gorm:"column:reviewed_by"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at"`
}

func (SQLiteLeaveApplication) TableName() string {
	return "leave_applications"
}

var _ = Describe("Leave PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo leave.Repository
	)

	newApplication := func(employeeID int64, appliedAt time.Time) *leave.LeaveApplication {
		return &leave.LeaveApplication{
			EmployeeID:    employeeID,
			EmployeeName:  "Fadhil",
			EmployeeEmail: "fadhil@mail.com",
			LeaveType:     leave.TypeAnnual,
			StartDate:     time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC),
			Reason:        "Year end holiday",
			Status:        leave.StatusPending,
			AppliedAt:     appliedAt,
		}
	}

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		// Create the table using SQLite-compatible model
		err = db.AutoMigrate(&SQLiteLeaveApplication{})
		Expect(err).NotTo(HaveOccurred())

		repo = leavePostgres.NewLeaveRepository(db)
	})

	Describe("Create", func() {
		It("should persist the application and assign an id", func() {
			application := newApplication(1, time.Now())

			err := repo.Create(application)
			Expect(err).NotTo(HaveOccurred())
			Expect(application.ID).To(BeNumerically(">", 0))
		})
	})

	Describe("GetByID", func() {
		It("should return the stored application with a computed day count", func() {
			application := newApplication(1, time.Now())
			Expect(repo.Create(application)).To(Succeed())

			found, err := repo.GetByID(application.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.EmployeeEmail).To(Equal("fadhil@mail.com"))
			Expect(found.Status).To(Equal(leave.StatusPending))
			Expect(found.TotalDays).To(Equal(5))
		})

		It("should fail for a missing id", func() {
			_, err := repo.GetByID(9999)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetByEmployeeID", func() {
		It("should return only that employee's applications, newest first", func() {
			older := newApplication(1, time.Now().Add(-2*time.Hour))
			newer := newApplication(1, time.Now())
			other := newApplication(2, time.Now().Add(-time.Hour))
			Expect(repo.Create(older)).To(Succeed())
			Expect(repo.Create(newer)).To(Succeed())
			Expect(repo.Create(other)).To(Succeed())

			found, err := repo.GetByEmployeeID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(2))
			Expect(found[0].ID).To(Equal(newer.ID))
			Expect(found[1].ID).To(Equal(older.ID))
		})
	})

	Describe("GetAll", func() {
		It("should filter by status when requested", func() {
			pending := newApplication(1, time.Now())
			decided := newApplication(2, time.Now())
			Expect(repo.Create(pending)).To(Succeed())
			Expect(repo.Create(decided)).To(Succeed())

			_, err := repo.UpdateReview(decided.ID, leave.StatusApproved, "", 3, time.Now())
			Expect(err).NotTo(HaveOccurred())

			all, err := repo.GetAll("")
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))

			onlyPending, err := repo.GetAll(leave.StatusPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(onlyPending).To(HaveLen(1))
			Expect(onlyPending[0].ID).To(Equal(pending.ID))
		})
	})

	Describe("UpdateReview", func() {
		It("should transition a pending application and stamp the reviewer", func() {
			application := newApplication(1, time.Now())
			Expect(repo.Create(application)).To(Succeed())

			reviewedAt := time.Now()
			affected, err := repo.UpdateReview(application.ID, leave.StatusApproved, "ok", 3, reviewedAt)
			Expect(err).NotTo(HaveOccurred())
			Expect(affected).To(Equal(int64(1)))

			found, err := repo.GetByID(application.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(leave.StatusApproved))
			Expect(found.AdminComment).To(Equal("ok"))
			Expect(found.ReviewedBy).NotTo(BeNil())
			Expect(*found.ReviewedBy).To(Equal(int64(3)))
			Expect(found.ReviewedAt).NotTo(BeNil())
		})

		It("should touch zero rows when the application is no longer pending", func() {
			application := newApplication(1, time.Now())
			Expect(repo.Create(application)).To(Succeed())

			affected, err := repo.UpdateReview(application.ID, leave.StatusApproved, "", 3, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(affected).To(Equal(int64(1)))

			affected, err = repo.UpdateReview(application.ID, leave.StatusRejected, "", 4, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(affected).To(Equal(int64(0)))

			found, err := repo.GetByID(application.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Status).To(Equal(leave.StatusApproved))
		})

		It("should touch zero rows for a missing id", func() {
			affected, err := repo.UpdateReview(9999, leave.StatusApproved, "", 3, time.Now())
			Expect(err).NotTo(HaveOccurred())
			Expect(affected).To(Equal(int64(0)))
		})
	})

	Describe("Delete", func() {
		It("should remove the application", func() {
			application := newApplication(1, time.Now())
			Expect(repo.Create(application)).To(Succeed())

			Expect(repo.Delete(application.ID)).To(Succeed())

			_, err := repo.GetByID(application.ID)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CountByStatus", func() {
		It("should count per status and total", func() {
			first := newApplication(1, time.Now())
			second := newApplication(1, time.Now())
			third := newApplication(2, time.Now())
			Expect(repo.Create(first)).To(Succeed())
			Expect(repo.Create(second)).To(Succeed())
			Expect(repo.Create(third)).To(Succeed())

			_, err := repo.UpdateReview(first.ID, leave.StatusApproved, "", 3, time.Now())
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.UpdateReview(second.ID, leave.StatusRejected, "", 3, time.Now())
			Expect(err).NotTo(HaveOccurred())

			stats, err := repo.CountByStatus()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(3)))
			Expect(stats.Pending).To(Equal(int64(1)))
			Expect(stats.Approved).To(Equal(int64(1)))
			Expect(stats.Rejected).To(Equal(int64(1)))
		})

		It("should return zeros for an empty table", func() {
			stats, err := repo.CountByStatus()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(0)))
		})
	})
})
