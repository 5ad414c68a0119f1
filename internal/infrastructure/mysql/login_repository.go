package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"user-notification-system/internal/domain"
)

type MySQLLoginRepository struct {
	db *sql.DB
}

func NewMySQLLoginRepository(db *sql.DB) *MySQLLoginRepository {
	return &MySQLLoginRepository{db: db}
}

func (r *MySQLLoginRepository) CreateLogin(ctx context.Context, login *domain.Login) error {
	query := `INSERT INTO login (id, username, password, is_active) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, login.ID, login.Username, login.Password, login.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("insert login: %w", err)
	}
	return nil
}

func (r *MySQLLoginRepository) GetLogin(ctx context.Context, loginID int64) (*domain.Login, error) {
	return r.getOne(ctx, `SELECT id, username, password, is_active FROM login WHERE id = ?`, loginID)
}

func (r *MySQLLoginRepository) GetLoginByUsername(ctx context.Context, username string) (*domain.Login, error) {
	return r.getOne(ctx, `SELECT id, username, password, is_active FROM login WHERE username = ?`, username)
}

func (r *MySQLLoginRepository) UpdateLogin(ctx context.Context, login *domain.Login) error {
	query := `UPDATE login SET username = ?, password = ?, is_active = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, login.Username, login.Password, login.IsActive, login.ID)
	if err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateUser
		}
		return fmt.Errorf("update login %d: %w", login.ID, err)
	}
	return nil
}

func (r *MySQLLoginRepository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Login, error) {
	var login domain.Login
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&login.ID, &login.Username, &login.Password, &login.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLoginNotFound
		}
		return nil, err
	}
	return &login, nil
}
