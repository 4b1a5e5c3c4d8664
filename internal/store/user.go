package store

import (
	"context"
	"errors"
	"fmt"

	"contacts-api/internal/database"
	"contacts-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound 查無資料
var ErrNotFound = errors.New("not found")

// ErrEmailTaken Email 已被註冊
var ErrEmailTaken = errors.New("email already registered")

// uniqueViolation PostgreSQL unique_violation 錯誤碼
const uniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, created_at`

func scanUser(row pgx.Row, op string) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		userID,
	)
	return scanUser(row, "GetUserByID")
}

// GetUserByEmail 以小寫 Email 查詢使用者
func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row, "GetUserByEmail")
}

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		u.Name,
		u.Email,
		u.PasswordHash,
	)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("CreateUser: %w", ErrEmailTaken)
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}
