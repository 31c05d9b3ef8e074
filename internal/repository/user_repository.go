package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// User is a row of the user table. PasswordHash holds the salted credential
// in "hash:salt" form, or a bare legacy plaintext for rows created before
// hashing was introduced (see utils.VerifyPassword).
type User struct {
	ID           uint64
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	Age          *uint8
	RoleID       uint64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user after checking the email is free. The check is
// an explicit query rather than relying only on the unique index so the
// handler gets a typed ErrEmailExists instead of a driver error.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	var existing uint64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM user WHERE email = ?`, u.Email).Scan(&existing)
	if err == nil {
		return ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO user (username, email, phone, password, age, role_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.Phone, u.PasswordHash, u.Age, u.RoleID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `SELECT id, username, email, phone, password, age, role_id, created_at, updated_at
	           FROM user WHERE email = ?`
	var u User
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Age, &u.RoleID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*User, error) {
	const q = `SELECT id, username, email, phone, password, age, role_id, created_at, updated_at
	           FROM user WHERE id = ?`
	var u User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Age, &u.RoleID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	const q = `SELECT id, username, email, phone, password, age, role_id, created_at, updated_at
	           FROM user ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Age, &u.RoleID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// UpdateProfile writes the mutable profile fields. Email changes go through
// the same duplicate check as Create.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *User) error {
	var holder uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM user WHERE email = ? AND id <> ?`, u.Email, u.ID).Scan(&holder)
	if err == nil {
		return ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE user SET username = ?, email = ?, phone = ?, age = ? WHERE id = ?`,
		u.Username, u.Email, u.Phone, u.Age, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored credential. Also used to migrate legacy
// plaintext rows to the salted format after a successful login.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID uint64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user SET password = ? WHERE id = ?`, passwordHash, userID)
	return err
}

// UpdateRole moves a user onto a different role. Admin-only.
func (r *UserRepo) UpdateRole(ctx context.Context, userID, roleID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user SET role_id = ? WHERE id = ?`, roleID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
