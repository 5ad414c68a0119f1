package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"user-notification-system/internal/domain"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func (r *MySQLUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
        INSERT INTO users (username, email, password, is_active, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.Password, user.IsActive, now, now)
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *MySQLUserRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	query := `
        SELECT id, username, email, password, is_active, created_at, updated_at
        FROM users WHERE id = ?
    `

	var user domain.User
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *MySQLUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	query := `
        SELECT id, username, email, password, is_active, created_at, updated_at
        FROM users ORDER BY id
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var user domain.User
		err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Password,
			&user.IsActive, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

func (r *MySQLUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
        UPDATE users SET username = ?, email = ?, password = ?, is_active = ?, updated_at = ?
        WHERE id = ?
    `
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.Password, user.IsActive, now, user.ID)
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	user.UpdatedAt = now
	return nil
}

func (r *MySQLUserRepository) DeleteUser(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
