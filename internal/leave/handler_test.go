package leave_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/transport"
)

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

// staticDirectory serves directory lookups from a fixed map
type staticDirectory map[int64]leave.DirectoryEntry

func (d staticDirectory) DirectoryByIDs(ids []int64) (map[int64]leave.DirectoryEntry, error) {
	out := make(map[int64]leave.DirectoryEntry)
	for _, id := range ids {
		if e, ok := d[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

var _ = Describe("Leave Handler Integration", func() {
	var (
		db      *gorm.DB
		service *leave.Service
		handler *leave.Handler
		router  *chi.Mux
	)

	employee := &auth.User{ID: 1, Email: "fadhil@mail.com", Name: "Fadhil", Role: "employee", Department: "Engineering"}
	intruder := &auth.User{ID: 2, Email: "sari@mail.com", Name: "Sari", Role: "employee", Department: "Finance"}
	admin := &auth.User{ID: 3, Email: "admin@mail.com", Name: "Ayu Admin", Role: "admin", Department: "Human Resources"}

	authed := func(req *http.Request, identity *auth.User) *http.Request {
		return req.WithContext(auth.ContextWithUser(req.Context(), identity))
	}

	applyBody := func() *bytes.Buffer {
		body, _ := json.Marshal(leave.ApplyLeaveDTO{
			LeaveType: leave.TypeAnnual,
			StartDate: "2025-12-22",
			EndDate:   "2025-12-26",
			Reason:    "Year end holiday",
		})
		return bytes.NewBuffer(body)
	}

	submitLeave := func(identity *auth.User) int64 {
		req := authed(httptest.NewRequest(http.MethodPost, "/leaves", applyBody()), identity)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var response struct {
			Success bool                    `json:"success"`
			Data    *leave.LeaveApplication `json:"data"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		return response.Data.ID
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteLeaveApplication{})
		Expect(err).NotTo(HaveOccurred())

		repo := leavePostgres.NewLeaveRepository(db)
		directory := staticDirectory{
			1: {Name: "Fadhil", Department: "Engineering"},
			2: {Name: "Sari", Department: "Finance"},
			3: {Name: "Ayu Admin", Department: "Human Resources"},
		}
		service = leave.NewService(repo, directory, slogger)
		handler = leave.NewHandler(service)

		router = chi.NewRouter()
		router.Route("/leaves", func(r chi.Router) {
			r.Post("/", handler.ApplyLeave)
			r.Get("/my-leaves", handler.GetMyLeaves)
			r.Get("/all", handler.GetAllLeaves)
			r.Get("/stats", handler.GetLeaveStats)
			r.Get("/{id}", handler.GetLeave)
			r.Put("/{id}", handler.ReviewLeave)
			r.Delete("/{id}", handler.DeleteLeave)
		})
	})

	Describe("POST /leaves", func() {
		It("should create a pending application for the caller", func() {
			req := authed(httptest.NewRequest(http.MethodPost, "/leaves", applyBody()), employee)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

			var response struct {
				Success bool                    `json:"success"`
				Data    *leave.LeaveApplication `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Success).To(BeTrue())
			Expect(response.Data.Status).To(Equal(leave.StatusPending))
			Expect(response.Data.EmployeeID).To(Equal(employee.ID))
			Expect(response.Data.TotalDays).To(Equal(5))
		})

		It("should return 400 for an invalid payload", func() {
			body, _ := json.Marshal(leave.ApplyLeaveDTO{
				LeaveType: "Sabbatical",
				StartDate: "2025-12-22",
				EndDate:   "2025-12-26",
				Reason:    "nope",
			})
			req := authed(httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewBuffer(body)), employee)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))

			var response transport.Envelope
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Success).To(BeFalse())
			Expect(response.Message).NotTo(BeEmpty())
		})

		It("should return 401 without an identity in context", func() {
			req := httptest.NewRequest(http.MethodPost, "/leaves", applyBody())
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("GET /leaves/my-leaves", func() {
		It("should list only the caller's applications", func() {
			submitLeave(employee)
			submitLeave(intruder)

			req := authed(httptest.NewRequest(http.MethodGet, "/leaves/my-leaves", nil), employee)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Success bool                      `json:"success"`
				Data    []*leave.LeaveApplication `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Data).To(HaveLen(1))
			Expect(response.Data[0].EmployeeID).To(Equal(employee.ID))
		})
	})

	Describe("GET /leaves/all", func() {
		It("should include directory details in the admin view", func() {
			submitLeave(employee)

			req := authed(httptest.NewRequest(http.MethodGet, "/leaves/all", nil), admin)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Success bool                    `json:"success"`
				Data    []*leave.AdminLeaveView `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Data).To(HaveLen(1))
			Expect(response.Data[0].EmployeeDepartment).To(Equal("Engineering"))
		})

		It("should reject an unknown status filter", func() {
			req := authed(httptest.NewRequest(http.MethodGet, "/leaves/all?status=Cancelled", nil), admin)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /leaves/{id}", func() {
		It("should return 403 for a different employee", func() {
			id := submitLeave(employee)

			req := authed(httptest.NewRequest(http.MethodGet, "/leaves/"+strconv.FormatInt(id, 10), nil), intruder)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should return 404 for a missing id", func() {
			req := authed(httptest.NewRequest(http.MethodGet, "/leaves/9999", nil), admin)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 for a non-numeric id", func() {
			req := authed(httptest.NewRequest(http.MethodGet, "/leaves/abc", nil), admin)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("PUT /leaves/{id}", func() {
		reviewBody := func(status string) *bytes.Buffer {
			body, _ := json.Marshal(leave.ReviewLeaveDTO{Status: status, AdminComment: "noted"})
			return bytes.NewBuffer(body)
		}

		It("should approve a pending application", func() {
			id := submitLeave(employee)

			req := authed(httptest.NewRequest(http.MethodPut, "/leaves/"+strconv.FormatInt(id, 10), reviewBody(leave.StatusApproved)), admin)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Success bool                    `json:"success"`
				Data    *leave.LeaveApplication `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Data.Status).To(Equal(leave.StatusApproved))
			Expect(response.Data.AdminComment).To(Equal("noted"))
			Expect(response.Data.ReviewedBy).NotTo(BeNil())
			Expect(*response.Data.ReviewedBy).To(Equal(admin.ID))
		})

		It("should return 409 when the application was already decided", func() {
			id := submitLeave(employee)

			first := httptest.NewRecorder()
			router.ServeHTTP(first, authed(httptest.NewRequest(http.MethodPut, "/leaves/"+strconv.FormatInt(id, 10), reviewBody(leave.StatusApproved)), admin))
			Expect(first.Code).To(Equal(http.StatusOK))

			second := httptest.NewRecorder()
			router.ServeHTTP(second, authed(httptest.NewRequest(http.MethodPut, "/leaves/"+strconv.FormatInt(id, 10), reviewBody(leave.StatusRejected)), admin))
			Expect(second.Code).To(Equal(http.StatusConflict))
		})

		It("should return 400 for an invalid decision", func() {
			id := submitLeave(employee)

			req := authed(httptest.NewRequest(http.MethodPut, "/leaves/"+strconv.FormatInt(id, 10), reviewBody(leave.StatusPending)), admin)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("DELETE /leaves/{id}", func() {
		It("should let the owner delete a pending application", func() {
			id := submitLeave(employee)

			req := authed(httptest.NewRequest(http.MethodDelete, "/leaves/"+strconv.FormatInt(id, 10), nil), employee)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response transport.Envelope
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Success).To(BeTrue())
			Expect(response.Message).To(Equal("leave deleted successfully"))
		})

		It("should return 403 when another employee tries to delete", func() {
			id := submitLeave(employee)

			req := authed(httptest.NewRequest(http.MethodDelete, "/leaves/"+strconv.FormatInt(id, 10), nil), intruder)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("GET /leaves/stats", func() {
		It("should report per-status counts", func() {
			submitLeave(employee)
			submitLeave(intruder)

			req := authed(httptest.NewRequest(http.MethodGet, "/leaves/stats", nil), admin)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Success bool         `json:"success"`
				Data    *leave.Stats `json:"data"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Data.Total).To(Equal(int64(2)))
			Expect(response.Data.Pending).To(Equal(int64(2)))
		})
	})
})

