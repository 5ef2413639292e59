package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM leave_applications").Error; err != nil {
				log.Fatalf("failed to clear leave applications: %v", err)
			}
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		users := []struct {
			Email      string
			Name       string
			Role       string
			Department string
		}{
			{"admin@mail.com", "Ayu Admin", "admin", "Human Resources"},
			{"fadhil@mail.com", "Fadhil", "employee", "Engineering"},
			{"sari@mail.com", "Sari", "employee", "Finance"},
		}

		for _, u := range users {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE lower(email) = lower(?)", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", u.Email)
				continue
			}

			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, department, created_at, updated_at) VALUES (?, ?, ?, ?, ?, now(), now())",
				u.Email, u.Name, string(hash), u.Role, u.Department,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
		}

		var employeeID int64
		var employeeName, employeeEmail string
		if err := db.Raw("SELECT id, name, email FROM users WHERE email = ?", "fadhil@mail.com").Row().Scan(&employeeID, &employeeName, &employeeEmail); err != nil {
			log.Fatalf("failed to lookup seeded employee: %v", err)
		}

		var leaveCount int64
		if err := db.Raw("SELECT count(*) FROM leave_applications WHERE employee_id = ?", employeeID).Row().Scan(&leaveCount); err != nil {
			log.Fatalf("failed to count leave applications: %v", err)
		}
		if leaveCount > 0 {
			fmt.Println("Sample leave applications already exist, skipping")
			return
		}

		leaves := []struct {
			Type   string
			Start  string
			End    string
			Reason string
		}{
			{"Sick Leave", "2025-09-01", "2025-09-02", "Flu, doctor advised rest"},
			{"Annual Leave", "2025-12-22", "2025-12-31", "Year end family holiday"},
		}

		for _, l := range leaves {
			if err := db.Exec(
				"INSERT INTO leave_applications (employee_id, employee_name, employee_email, leave_type, start_date, end_date, reason, status, applied_at) VALUES (?, ?, ?, ?, ?, ?, ?, 'Pending', now())",
				employeeID, employeeName, employeeEmail, l.Type, l.Start, l.End, l.Reason,
			).Error; err != nil {
				log.Fatalf("failed to insert sample leave: %v", err)
			}
			fmt.Printf("Seeded sample %s for %s\n", l.Type, employeeEmail)
		}

		fmt.Println("Seeding completed")
	},
}
