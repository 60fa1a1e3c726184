package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"deliverus/internal/domain"
	"deliverus/internal/errors"
	"deliverus/internal/infrastructure/mysql"
)

const userColumns = `id, firstName, lastName, email, password, phone, avatar, address,
	postalCode, userType, token, tokenExpiration, createdAt, updatedAt`

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func scanUser(row interface{ Scan(...interface{}) error }) (*domain.User, error) {
	var u domain.User
	var userType string
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Phone, &u.Avatar,
		&u.Address, &u.PostalCode, &userType, &u.Token, &u.TokenExpiration,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.UserType = domain.UserType(userType)
	return &u, nil
}

func (r *MySQLUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM Users WHERE id = ?`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}
	return u, nil
}

func (r *MySQLUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM Users WHERE email = ?`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	return u, nil
}

func (r *MySQLUserRepository) Create(ctx context.Context, u domain.User) (uint, error) {
	query := `
		INSERT INTO Users (firstName, lastName, email, password, phone, avatar, address,
		                   postalCode, userType)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		u.FirstName, u.LastName, u.Email, u.Password, u.Phone, u.Avatar, u.Address,
		u.PostalCode, string(u.UserType),
	)
	if mysql.IsDuplicateEntry(err) {
		return 0, errors.NewValidationError("validation failed", errors.ValidationDetail{
			Field:   "email",
			Message: "email is already in use",
		})
	}
	if err != nil {
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return uint(id), nil
}

func (r *MySQLUserRepository) UpdateProfile(ctx context.Context, u domain.User) error {
	query := `
		UPDATE Users
		SET firstName = ?, lastName = ?, phone = ?, avatar = ?, address = ?, postalCode = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		u.FirstName, u.LastName, u.Phone, u.Avatar, u.Address, u.PostalCode, u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return requireAffected(result, u.ID)
}

// UpdateToken stores the session token; nil clears it.
func (r *MySQLUserRepository) UpdateToken(ctx context.Context, id uint, token *string, expiresAt *time.Time) error {
	query := `UPDATE Users SET token = ?, tokenExpiration = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, token, expiresAt, id)
	if err != nil {
		return fmt.Errorf("updating user token: %w", err)
	}
	return requireAffected(result, id)
}

func (r *MySQLUserRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Users WHERE id = ?`, id)
	if mysql.IsForeignKeyReferenced(err) {
		return errors.NewConflictError("The user has orders or restaurants with orders and cannot be deleted")
	}
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return requireAffected(result, id)
}

func (r *MySQLUserRepository) CountOrders(ctx context.Context, userID uint) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Orders WHERE userId = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting user orders: %w", err)
	}
	return n, nil
}

func (r *MySQLUserRepository) CountRestaurants(ctx context.Context, userID uint) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Restaurants WHERE userId = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting user restaurants: %w", err)
	}
	return n, nil
}

func requireAffected(result sql.Result, id uint) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
	}
	return nil
}
