package category

import (
	"context"
	"database/sql"
	"fmt"

	"deliverus/internal/domain"
)

// MySQLRepository serves both lookup tables, RestaurantCategories
// and ProductCategories, which share one shape.
type MySQLRepository struct {
	db    *sql.DB
	table string
}

func NewRestaurantCategoryRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db, table: "RestaurantCategories"}
}

func NewProductCategoryRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db, table: "ProductCategories"}
}

func (r *MySQLRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, createdAt, updatedAt FROM ` + r.table + ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.table, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", r.table, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", r.table, err)
	}
	return categories, nil
}

func (r *MySQLRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int
	query := `SELECT COUNT(*) FROM ` + r.table + ` WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking %s: %w", r.table, err)
	}
	return n > 0, nil
}

// FindOrCreate returns the id of the category called name, inserting it when
// missing.
func (r *MySQLRepository) FindOrCreate(ctx context.Context, name string) (uint, error) {
	var id uint
	err := r.db.QueryRowContext(ctx, `SELECT id FROM `+r.table+` WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("querying %s by name: %w", r.table, err)
	}

	result, err := r.db.ExecContext(ctx, `INSERT INTO `+r.table+` (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("inserting into %s: %w", r.table, err)
	}
	newID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return uint(newID), nil
}
