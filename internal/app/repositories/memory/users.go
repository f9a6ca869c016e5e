package memory

import (
	"context"
	"strings"
	"time"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

type (
	roleRow = models.Role
	userRow = models.User
)

type roleRepo struct{ s *session }

func (r *roleRepo) Create(_ context.Context, role *models.Role) error {
	return r.s.run(func(d *dataset) error {
		if _, dup := d.roles.find(func(v roleRow) bool { return v.Name == role.Name }); dup {
			return apperrors.NewConflict("role already exists")
		}
		if role.CreatedAt.IsZero() {
			role.CreatedAt = r.s.now()
		}
		d.roles.put(role.ID, *role)
		return nil
	})
}

func (r *roleRepo) GetByID(_ context.Context, id string) (*models.Role, error) {
	var out *models.Role
	err := r.s.run(func(d *dataset) error {
		v, ok := d.roles.get(id)
		if !ok {
			return apperrors.NewNotFound("role not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *roleRepo) GetByName(_ context.Context, name models.RoleName) (*models.Role, error) {
	var out *models.Role
	err := r.s.run(func(d *dataset) error {
		v, ok := d.roles.find(func(v roleRow) bool { return v.Name == name })
		if !ok {
			return apperrors.NewNotFound("role not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *roleRepo) List(_ context.Context) ([]*models.Role, error) {
	var out []*models.Role
	err := r.s.run(func(d *dataset) error {
		for _, v := range d.roles.filter(func(roleRow) bool { return true }) {
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

type userRepo struct{ s *session }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	return r.s.run(func(d *dataset) error {
		email := strings.ToLower(user.Email)
		if _, dup := d.users.find(func(v userRow) bool { return v.Email == email }); dup {
			return apperrors.NewConflict("user already exists")
		}
		now := r.s.now()
		user.Email = email
		user.CreatedAt, user.UpdatedAt = now, now
		row := *user
		row.Role = nil
		d.users.put(row.ID, row)
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	var out *models.User
	err := r.s.run(func(d *dataset) error {
		v, ok := d.users.get(id)
		if !ok {
			return apperrors.NewNotFound("user not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.s.run(func(d *dataset) error {
		email = strings.ToLower(strings.TrimSpace(email))
		v, ok := d.users.find(func(v userRow) bool { return v.Email == email })
		if !ok {
			return apperrors.NewNotFound("user not found")
		}
		out = &v
		return nil
	})
	return out, err
}

func (r *userRepo) update(id string, fn func(v *userRow)) error {
	return r.s.run(func(d *dataset) error {
		v, ok := d.users.get(id)
		if !ok {
			return apperrors.NewNotFound("user not found")
		}
		fn(&v)
		v.UpdatedAt = r.s.now()
		d.users.put(id, v)
		return nil
	})
}

func (r *userRepo) UpdateRole(_ context.Context, id, roleID string) error {
	return r.update(id, func(v *userRow) { v.RoleID = roleID })
}

func (r *userRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.update(id, func(v *userRow) { v.PasswordHash = passwordHash })
}

func (r *userRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(v *userRow) { v.LastLoginAt = &at })
}
