package mysql

import (
	"context"
	"database/sql"
	"errors"

	driver "github.com/go-sql-driver/mysql"
)

const errDuplicateEntry = 1062

const usersTable = `
CREATE TABLE IF NOT EXISTS users (
    id         BIGINT AUTO_INCREMENT PRIMARY KEY,
    username   VARCHAR(50)  NOT NULL UNIQUE,
    email      VARCHAR(255) NOT NULL UNIQUE,
    password   VARCHAR(255) NOT NULL,
    is_active  BOOLEAN      NOT NULL DEFAULT TRUE,
    created_at DATETIME     NOT NULL,
    updated_at DATETIME     NOT NULL
)`

const loginTable = `
CREATE TABLE IF NOT EXISTS login (
    id        BIGINT PRIMARY KEY,
    username  VARCHAR(50)  NOT NULL UNIQUE,
    password  VARCHAR(255) NOT NULL,
    is_active BOOLEAN      NOT NULL DEFAULT TRUE
)`

// EnsureUsersSchema creates the users table when it does not exist yet.
func EnsureUsersSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, usersTable)
	return err
}

// EnsureLoginSchema creates the login table when it does not exist yet.
func EnsureLoginSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, loginTable)
	return err
}

func isDuplicate(err error) bool {
	var mysqlErr *driver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}
