package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"deliverus/internal/config"
	"deliverus/internal/infrastructure/mysql"
)

// TestDatabaseConfig points at a local MySQL database named deliverus_test.
// TEST_DB_HOST, TEST_DB_PORT, TEST_DB_USER and TEST_DB_PASSWORD override
// the defaults.
func TestDatabaseConfig() config.DatabaseConfig {
	cfg := config.DatabaseConfig{
		Host:         envOr("TEST_DB_HOST", "localhost"),
		Port:         3306,
		User:         envOr("TEST_DB_USER", "root"),
		Password:     os.Getenv("TEST_DB_PASSWORD"),
		Name:         envOr("TEST_DB_NAME", "deliverus_test"),
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}
	if p, err := strconv.Atoi(os.Getenv("TEST_DB_PORT")); err == nil {
		cfg.Port = p
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SetupTestDB connects to the test database and skips the test when it is
// not reachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := mysql.NewConnection(context.Background(), TestDatabaseConfig())
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}
	return db
}

// SetupTestTables brings the schema up to date with the embedded migrations.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := mysql.Migrate(TestDatabaseConfig(), zap.NewNop()); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
}

// CleanupTestDB empties every table, children first, and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"OrderProducts", "Orders", "Products", "Restaurants", "ProductCategories", "RestaurantCategories", "Users"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// Fixture ids returned by SeedFixtures.
type Fixtures struct {
	CustomerID   uint
	OwnerID      uint
	RestaurantID uint
	ProductIDs   []uint
}

// SeedFixtures inserts one customer, one owner with a restaurant, and three
// available products priced 2.50, 4.00 and 12.00. The restaurant charges
// 2.00 for shipping.
func SeedFixtures(t *testing.T, db *sql.DB) Fixtures {
	t.Helper()

	var f Fixtures
	f.CustomerID = insert(t, db, `
		INSERT INTO Users (firstName, email, password, phone, address, postalCode, userType)
		VALUES ('Customer', 'customer1@example.com', 'x', '600000001', 'Calle Feria 3', '41003', 'customer')`)
	f.OwnerID = insert(t, db, `
		INSERT INTO Users (firstName, email, password, phone, address, postalCode, userType)
		VALUES ('Owner', 'owner1@example.com', 'x', '600000002', 'Calle Betis 1', '41010', 'owner')`)
	categoryID := insert(t, db, `INSERT INTO RestaurantCategories (name) VALUES ('Tapas')`)
	f.RestaurantID = insert(t, db, `
		INSERT INTO Restaurants (name, address, postalCode, shippingCosts, status, userId, restaurantCategoryId)
		VALUES ('Casa Pepe', 'Calle Sierpes 1', '41004', 2.00, 'online', ?, ?)`, f.OwnerID, categoryID)
	productCategoryID := insert(t, db, `INSERT INTO ProductCategories (name) VALUES ('Starters')`)
	for i, price := range []float64{2.50, 4.00, 12.00} {
		id := insert(t, db, `
			INSERT INTO Products (name, price, `+"`order`"+`, availability, restaurantId, productCategoryId)
			VALUES (?, ?, ?, 1, ?, ?)`, fmt.Sprintf("Product %d", i+1), price, i, f.RestaurantID, productCategoryID)
		f.ProductIDs = append(f.ProductIDs, id)
	}
	return f
}

func insert(t *testing.T, db *sql.DB, query string, args ...interface{}) uint {
	t.Helper()

	result, err := db.Exec(query, args...)
	if err != nil {
		t.Fatalf("seeding fixture: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("reading fixture id: %v", err)
	}
	return uint(id)
}
