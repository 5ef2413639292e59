package postgres

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/user"
)

type userRow struct {
	ID         int64     `db:"id"`
	Email      string    `db:"email"`
	Name       string    `db:"name"`
	Role       string    `db:"role"`
	Department string    `db:"department"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Repository reads user profiles and directory info with sqlx. Writes go
// through the auth repository; this one never touches credential columns.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id int64) (*user.User, error) {
	var row userRow
	query := `SELECT id, email, name, role, department, created_at, updated_at FROM users WHERE id = $1`
	if err := r.db.Get(&row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return &user.User{
		ID:         row.ID,
		Email:      row.Email,
		Name:       row.Name,
		Role:       row.Role,
		Department: row.Department,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

// DirectoryByIDs resolves names and departments for the admin leave listing.
func (r *Repository) DirectoryByIDs(ids []int64) (map[int64]leave.DirectoryEntry, error) {
	entries := make(map[int64]leave.DirectoryEntry, len(ids))
	if len(ids) == 0 {
		return entries, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, department FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	rows, err := r.db.Queryx(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         int64
			name       string
			department string
		)
		if err := rows.Scan(&id, &name, &department); err != nil {
			return nil, err
		}
		entries[id] = leave.DirectoryEntry{Name: name, Department: department}
	}
	return entries, rows.Err()
}
