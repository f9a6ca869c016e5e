package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/pkg/apperrors"
	"github.com/yigit/iams/internal/pkg/dberrors"
)

type roleRepo struct{ db DBTX }

const roleColumns = `id, name, description, created_at`

func scanRole(row pgx.Row, r *models.Role) error {
	return row.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt)
}

func (r *roleRepo) Create(ctx context.Context, role *models.Role) error {
	query := `
		INSERT INTO roles (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.db.QueryRow(ctx, query, role.ID, role.Name, role.Description).Scan(&role.CreatedAt)
	return dberrors.Translate(err, "role")
}

func (r *roleRepo) GetByID(ctx context.Context, id string) (*models.Role, error) {
	var role models.Role
	err := scanRole(r.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id), &role)
	if err != nil {
		return nil, dberrors.Translate(err, "role")
	}
	return &role, nil
}

func (r *roleRepo) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	err := scanRole(r.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name), &role)
	if err != nil {
		return nil, dberrors.Translate(err, "role")
	}
	return &role, nil
}

func (r *roleRepo) List(ctx context.Context) ([]*models.Role, error) {
	roles, err := selectAll(ctx, r.db, psql.Select(roleColumns).From("roles").OrderBy("created_at", "name"), scanRole)
	return roles, dberrors.Translate(err, "role")
}

type userRepo struct{ db DBTX }

const userColumns = `id, email, password_hash, full_name, role_id, status, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row, u *models.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.RoleID,
		&u.Status,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, role_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	user.Email = strings.ToLower(user.Email)
	err := r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.RoleID, user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return dberrors.Translate(err, "user")
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &user); err != nil {
		return nil, dberrors.Translate(err, "user")
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	if err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email), &user); err != nil {
		return nil, dberrors.Translate(err, "user")
	}
	return &user, nil
}

func (r *userRepo) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return dberrors.Translate(err, "user")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound("user not found")
	}
	return nil
}

func (r *userRepo) UpdateRole(ctx context.Context, id, roleID string) error {
	return r.exec(ctx, `UPDATE users SET role_id = $2, updated_at = now() WHERE id = $1`, id, roleID)
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
}
