package commons

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
	"golang.org/x/crypto/bcrypt"

	"deliverus/internal/category"
	"deliverus/internal/domain"
	apperrors "deliverus/internal/errors"
	productrepo "deliverus/internal/product/repository"
	restaurantrepo "deliverus/internal/restaurant/repository"
	userrepo "deliverus/internal/user/repository"
)

// SeedData is the demo dataset: users, restaurants per owner and their menus.
type SeedData struct {
	RestaurantCategories []string         `yaml:"restaurantCategories"`
	ProductCategories    []string         `yaml:"productCategories"`
	Users                []SeedUser       `yaml:"users"`
	Restaurants          []SeedRestaurant `yaml:"restaurants"`
}

type SeedUser struct {
	FirstName  string `yaml:"firstName"`
	LastName   string `yaml:"lastName"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Phone      string `yaml:"phone"`
	Address    string `yaml:"address"`
	PostalCode string `yaml:"postalCode"`
	UserType   string `yaml:"userType"`
}

type SeedRestaurant struct {
	Name                  string        `yaml:"name"`
	Description           string        `yaml:"description"`
	Address               string        `yaml:"address"`
	PostalCode            string        `yaml:"postalCode"`
	ShippingCosts         float64       `yaml:"shippingCosts"`
	AverageServiceMinutes float64       `yaml:"averageServiceMinutes"`
	Email                 string        `yaml:"email"`
	Phone                 string        `yaml:"phone"`
	Status                string        `yaml:"status"`
	Category              string        `yaml:"category"`
	Owner                 string        `yaml:"owner"`
	Products              []SeedProduct `yaml:"products"`
}

type SeedProduct struct {
	Name         string  `yaml:"name"`
	Description  string  `yaml:"description"`
	Price        float64 `yaml:"price"`
	Order        int     `yaml:"order"`
	Availability *bool   `yaml:"availability"`
	Category     string  `yaml:"category"`
}

func LoadSeed(path string) (*SeedData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return &seed, nil
}

type CategoryStore interface {
	FindOrCreate(ctx context.Context, name string) (uint, error)
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u domain.User) (uint, error)
}

type RestaurantStore interface {
	FindByOwner(ctx context.Context, userID uint) ([]domain.Restaurant, error)
	Create(ctx context.Context, r domain.Restaurant) (uint, error)
}

type ProductStore interface {
	Create(ctx context.Context, p domain.Product) (uint, error)
}

// Seeder inserts SeedData. Running it twice is a no-op: users are matched by
// email and restaurants by name within their owner.
type Seeder struct {
	RestaurantCategories CategoryStore
	ProductCategories    CategoryStore
	Users                UserStore
	Restaurants          RestaurantStore
	Products             ProductStore
	BcryptCost           int
	Logger               *zap.Logger
}

func NewSeeder(db *sql.DB, bcryptCost int, logger *zap.Logger) *Seeder {
	return &Seeder{
		RestaurantCategories: category.NewRestaurantCategoryRepository(db),
		ProductCategories:    category.NewProductCategoryRepository(db),
		Users:                userrepo.NewMySQLUserRepository(db),
		Restaurants:          restaurantrepo.NewMySQLRestaurantRepository(db),
		Products:             productrepo.NewMySQLRepository(db),
		BcryptCost:           bcryptCost,
		Logger:               logger,
	}
}

func (s *Seeder) Run(ctx context.Context, seed *SeedData) error {
	for _, name := range seed.RestaurantCategories {
		if _, err := s.RestaurantCategories.FindOrCreate(ctx, name); err != nil {
			return err
		}
	}
	for _, name := range seed.ProductCategories {
		if _, err := s.ProductCategories.FindOrCreate(ctx, name); err != nil {
			return err
		}
	}

	owners := make(map[string]uint, len(seed.Users))
	for _, u := range seed.Users {
		id, err := s.ensureUser(ctx, u)
		if err != nil {
			return fmt.Errorf("seeding user %s: %w", u.Email, err)
		}
		owners[u.Email] = id
	}

	for _, r := range seed.Restaurants {
		ownerID, ok := owners[r.Owner]
		if !ok {
			return fmt.Errorf("restaurant %q references unknown owner %s", r.Name, r.Owner)
		}
		if err := s.ensureRestaurant(ctx, ownerID, r); err != nil {
			return fmt.Errorf("seeding restaurant %q: %w", r.Name, err)
		}
	}

	s.Logger.Info("seed applied",
		zap.Int("users", len(seed.Users)),
		zap.Int("restaurants", len(seed.Restaurants)),
	)
	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, su SeedUser) (uint, error) {
	existing, err := s.Users.FindByEmail(ctx, su.Email)
	if err == nil {
		return existing.ID, nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return 0, err
	}

	userType := domain.UserType(su.UserType)
	if userType != domain.UserTypeOwner {
		userType = domain.UserTypeCustomer
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), s.BcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hashing password: %w", err)
	}

	return s.Users.Create(ctx, domain.User{
		FirstName:  su.FirstName,
		LastName:   optional(su.LastName),
		Email:      su.Email,
		Password:   string(hash),
		Phone:      su.Phone,
		Address:    su.Address,
		PostalCode: su.PostalCode,
		UserType:   userType,
	})
}

func (s *Seeder) ensureRestaurant(ctx context.Context, ownerID uint, sr SeedRestaurant) error {
	current, err := s.Restaurants.FindByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	for _, r := range current {
		if r.Name == sr.Name {
			return nil
		}
	}

	categoryID, err := s.RestaurantCategories.FindOrCreate(ctx, sr.Category)
	if err != nil {
		return err
	}
	status := domain.RestaurantStatus(sr.Status)
	if !status.Valid() {
		status = domain.RestaurantStatusOffline
	}
	var avg *float64
	if sr.AverageServiceMinutes > 0 {
		avg = &sr.AverageServiceMinutes
	}

	restaurantID, err := s.Restaurants.Create(ctx, domain.Restaurant{
		Name:                  sr.Name,
		Description:           optional(sr.Description),
		Address:               sr.Address,
		PostalCode:            sr.PostalCode,
		ShippingCosts:         sr.ShippingCosts,
		AverageServiceMinutes: avg,
		Email:                 optional(sr.Email),
		Phone:                 optional(sr.Phone),
		Status:                status,
		UserID:                ownerID,
		RestaurantCategoryID:  categoryID,
	})
	if err != nil {
		return err
	}

	for _, sp := range sr.Products {
		productCategoryID, err := s.ProductCategories.FindOrCreate(ctx, sp.Category)
		if err != nil {
			return err
		}
		available := sp.Availability == nil || *sp.Availability
		if _, err := s.Products.Create(ctx, domain.Product{
			Name:              sp.Name,
			Description:       optional(sp.Description),
			Price:             sp.Price,
			Order:             sp.Order,
			Availability:      available,
			RestaurantID:      restaurantID,
			ProductCategoryID: productCategoryID,
		}); err != nil {
			return fmt.Errorf("product %q: %w", sp.Name, err)
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
