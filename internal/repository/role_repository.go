package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Role names as stored in role.role_name.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

type Role struct {
	ID          uint64
	RoleName    string
	Description string
}

var ErrRoleNotFound = errors.New("role not found")

type RoleRepo struct {
	db *sql.DB
}

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{db: db} }

func (r *RoleRepo) Create(ctx context.Context, role *Role) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO role (role_name, description) VALUES (?, ?)`,
		role.RoleName, role.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	role.ID = uint64(id)
	return nil
}

func (r *RoleRepo) GetByID(ctx context.Context, id uint64) (*Role, error) {
	var role Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, role_name, description FROM role WHERE id = ?`, id).
		Scan(&role.ID, &role.RoleName, &role.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepo) GetByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, role_name, description FROM role WHERE role_name = ?`, name).
		Scan(&role.ID, &role.RoleName, &role.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}
