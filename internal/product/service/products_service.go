package service

import (
	"context"

	"deliverus/internal/domain"
)

type Repository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Product, error)
}

// ProductService answers menu questions that span several products.
type ProductService struct {
	repo Repository
}

func NewService(repo Repository) *ProductService {
	return &ProductService{repo: repo}
}

// OrderableProducts loads ids and checks that every one of them can be
// ordered from restaurantID. The first failing id decides the error, in
// request order: a missing product, then an unavailable one, then one from
// another restaurant.
func (s *ProductService) OrderableProducts(ctx context.Context, restaurantID uint, ids []uint) (map[uint]domain.Product, error) {
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	menu := make(map[uint]domain.Product, len(found))
	for _, p := range found {
		menu[p.ID] = p
	}

	for _, id := range ids {
		if _, ok := menu[id]; !ok {
			return nil, domain.ProductMissing(id)
		}
	}
	for _, id := range ids {
		if err := menu[id].CheckOrderable(restaurantID); err != nil {
			return nil, err
		}
	}
	return menu, nil
}
