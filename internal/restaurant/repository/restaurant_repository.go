package repository

import (
	"context"
	"database/sql"
	"fmt"

	"deliverus/internal/domain"
	"deliverus/internal/errors"
	"deliverus/internal/infrastructure/mysql"
)

const restaurantSelect = `
	SELECT r.id, r.name, r.description, r.address, r.postalCode, r.url, r.shippingCosts,
	       r.averageServiceMinutes, r.email, r.phone, r.logo, r.heroImage, r.status,
	       r.userId, r.restaurantCategoryId, r.createdAt, r.updatedAt, c.id, c.name
	FROM Restaurants r
	JOIN RestaurantCategories c ON c.id = r.restaurantCategoryId
`

type MySQLRestaurantRepository struct {
	db *sql.DB
}

func NewMySQLRestaurantRepository(db *sql.DB) *MySQLRestaurantRepository {
	return &MySQLRestaurantRepository{db: db}
}

func scanRestaurant(row interface{ Scan(...interface{}) error }) (*domain.Restaurant, error) {
	var r domain.Restaurant
	var status string
	var category domain.Category
	err := row.Scan(
		&r.ID, &r.Name, &r.Description, &r.Address, &r.PostalCode, &r.URL, &r.ShippingCosts,
		&r.AverageServiceMinutes, &r.Email, &r.Phone, &r.Logo, &r.HeroImage, &status,
		&r.UserID, &r.RestaurantCategoryID, &r.CreatedAt, &r.UpdatedAt, &category.ID, &category.Name,
	)
	if err != nil {
		return nil, err
	}
	r.Status = domain.RestaurantStatus(status)
	r.RestaurantCategory = &category
	return &r, nil
}

func (repo *MySQLRestaurantRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Restaurant, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []domain.Restaurant{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning restaurant: %w", err)
		}
		restaurants = append(restaurants, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating restaurants: %w", err)
	}
	return restaurants, nil
}

// FindAll lists every restaurant, online ones first.
func (repo *MySQLRestaurantRepository) FindAll(ctx context.Context) ([]domain.Restaurant, error) {
	return repo.query(ctx, restaurantSelect+` ORDER BY r.status, r.name`)
}

func (repo *MySQLRestaurantRepository) FindByOwner(ctx context.Context, userID uint) ([]domain.Restaurant, error) {
	return repo.query(ctx, restaurantSelect+` WHERE r.userId = ? ORDER BY r.status, r.name`, userID)
}

func (repo *MySQLRestaurantRepository) FindByID(ctx context.Context, id uint) (*domain.Restaurant, error) {
	r, err := scanRestaurant(repo.db.QueryRowContext(ctx, restaurantSelect+` WHERE r.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("restaurant with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying restaurant by id: %w", err)
	}
	return r, nil
}

func (repo *MySQLRestaurantRepository) Create(ctx context.Context, r domain.Restaurant) (uint, error) {
	query := `
		INSERT INTO Restaurants (name, description, address, postalCode, url, shippingCosts,
		                         averageServiceMinutes, email, phone, logo, heroImage, status,
		                         userId, restaurantCategoryId)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := repo.db.ExecContext(ctx, query,
		r.Name, r.Description, r.Address, r.PostalCode, r.URL, r.ShippingCosts,
		r.AverageServiceMinutes, r.Email, r.Phone, r.Logo, r.HeroImage, string(r.Status),
		r.UserID, r.RestaurantCategoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting restaurant: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return uint(id), nil
}

func (repo *MySQLRestaurantRepository) Update(ctx context.Context, r domain.Restaurant) error {
	query := `
		UPDATE Restaurants
		SET name = ?, description = ?, address = ?, postalCode = ?, url = ?, shippingCosts = ?,
		    averageServiceMinutes = ?, email = ?, phone = ?, logo = ?, heroImage = ?, status = ?,
		    restaurantCategoryId = ?
		WHERE id = ?
	`

	result, err := repo.db.ExecContext(ctx, query,
		r.Name, r.Description, r.Address, r.PostalCode, r.URL, r.ShippingCosts,
		r.AverageServiceMinutes, r.Email, r.Phone, r.Logo, r.HeroImage, string(r.Status),
		r.RestaurantCategoryID, r.ID,
	)
	if err != nil {
		return fmt.Errorf("updating restaurant: %w", err)
	}
	return requireAffected(result, "restaurant", r.ID)
}

func (repo *MySQLRestaurantRepository) Delete(ctx context.Context, id uint) error {
	result, err := repo.db.ExecContext(ctx, `DELETE FROM Restaurants WHERE id = ?`, id)
	if mysql.IsForeignKeyReferenced(err) {
		return errors.NewConflictError("Some orders belong to this restaurant.")
	}
	if err != nil {
		return fmt.Errorf("deleting restaurant: %w", err)
	}
	return requireAffected(result, "restaurant", id)
}

func (repo *MySQLRestaurantRepository) CountOrders(ctx context.Context, restaurantID uint) (int, error) {
	var n int
	err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Orders WHERE restaurantId = ?`, restaurantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting restaurant orders: %w", err)
	}
	return n, nil
}

func requireAffected(result sql.Result, entity string, id uint) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("%s with id %d not found", entity, id))
	}
	return nil
}
