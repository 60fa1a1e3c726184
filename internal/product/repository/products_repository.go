package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"deliverus/internal/domain"
	"deliverus/internal/errors"
	"deliverus/internal/infrastructure/mysql"
)

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.image, p.` + "`order`" + `, p.availability,
	       p.restaurantId, p.productCategoryId, p.createdAt, p.updatedAt, c.id, c.name
	FROM Products p
	JOIN ProductCategories c ON c.id = p.productCategoryId
`

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

type scanner interface {
	Scan(...interface{}) error
}

func scanProduct(row scanner, extra ...interface{}) (*domain.Product, error) {
	var p domain.Product
	var category domain.Category
	dest := []interface{}{
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Order, &p.Availability,
		&p.RestaurantID, &p.ProductCategoryID, &p.CreatedAt, &p.UpdatedAt, &category.ID, &category.Name,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.ProductCategory = &category
	return &p, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func queryProducts(ctx context.Context, q querier, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

func inClause(ids []uint) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return strings.Join(placeholders, ", "), args
}

func (r *MySQLRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, productSelect+` WHERE p.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}
	return p, nil
}

func (r *MySQLRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	return queryProducts(ctx, r.db, productSelect+` WHERE p.id IN (`+placeholders+`) ORDER BY p.id`, args...)
}

// FindByIDsForShare reads the products inside tx with shared locks, in id
// order, so their price and availability hold until the order commits.
func (r *MySQLRepository) FindByIDsForShare(ctx context.Context, tx *sql.Tx, ids []uint) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders, args := inClause(ids)
	return queryProducts(ctx, tx, productSelect+` WHERE p.id IN (`+placeholders+`) ORDER BY p.id LOCK IN SHARE MODE`, args...)
}

// FindByRestaurant returns a restaurant's menu in display order.
func (r *MySQLRepository) FindByRestaurant(ctx context.Context, restaurantID uint) ([]domain.Product, error) {
	return queryProducts(ctx, r.db, productSelect+` WHERE p.restaurantId = ? ORDER BY p.`+"`order`"+`, p.id`, restaurantID)
}

// FindPopular ranks products by units sold across all orders.
func (r *MySQLRepository) FindPopular(ctx context.Context, limit int) ([]domain.PopularProduct, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.image, p.` + "`order`" + `, p.availability,
		       p.restaurantId, p.productCategoryId, p.createdAt, p.updatedAt, c.id, c.name,
		       SUM(op.quantity) AS soldUnits
		FROM Products p
		JOIN ProductCategories c ON c.id = p.productCategoryId
		JOIN OrderProducts op ON op.productId = p.id
		GROUP BY p.id, c.id
		ORDER BY soldUnits DESC, p.id
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying popular products: %w", err)
	}
	defer rows.Close()

	popular := []domain.PopularProduct{}
	for rows.Next() {
		var sold int
		p, err := scanProduct(rows, &sold)
		if err != nil {
			return nil, fmt.Errorf("scanning popular product: %w", err)
		}
		popular = append(popular, domain.PopularProduct{Product: *p, SoldUnits: sold})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating popular products: %w", err)
	}
	return popular, nil
}

func (r *MySQLRepository) Create(ctx context.Context, p domain.Product) (uint, error) {
	query := `
		INSERT INTO Products (name, description, price, image, ` + "`order`" + `, availability,
		                      restaurantId, productCategoryId)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.Image, p.Order, p.Availability, p.RestaurantID, p.ProductCategoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return uint(id), nil
}

func (r *MySQLRepository) Update(ctx context.Context, p domain.Product) error {
	query := `
		UPDATE Products
		SET name = ?, description = ?, price = ?, image = ?, ` + "`order`" + ` = ?, availability = ?,
		    restaurantId = ?, productCategoryId = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.Image, p.Order, p.Availability, p.RestaurantID, p.ProductCategoryID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return requireAffected(result, p.ID)
}

func (r *MySQLRepository) Delete(ctx context.Context, id uint) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Products WHERE id = ?`, id)
	if mysql.IsForeignKeyReferenced(err) {
		return errors.NewConflictError("This product has already been ordered")
	}
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return requireAffected(result, id)
}

// IsOrdered reports whether any order line references the product.
func (r *MySQLRepository) IsOrdered(ctx context.Context, id uint) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM OrderProducts WHERE productId = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("counting product order lines: %w", err)
	}
	return n > 0, nil
}

func requireAffected(result sql.Result, id uint) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", id))
	}
	return nil
}
