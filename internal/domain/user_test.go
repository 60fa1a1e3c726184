package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "deliverus/internal/errors"
)

func TestUser_HasRole(t *testing.T) {
	owner := User{ID: 1, UserType: UserTypeOwner}

	assert.True(t, owner.HasRole(UserTypeOwner))
	assert.True(t, owner.HasRole(UserTypeCustomer, UserTypeOwner))
	assert.False(t, owner.HasRole(UserTypeCustomer))
	assert.False(t, owner.HasRole())
}

func TestUser_TokenMatches(t *testing.T) {
	now := time.Now()
	token := "abc"
	expiry := now.Add(time.Hour)

	user := User{Token: &token, TokenExpiration: &expiry}

	assert.True(t, user.TokenMatches("abc", now))
	assert.False(t, user.TokenMatches("other", now))
	assert.False(t, user.TokenMatches("abc", now.Add(2*time.Hour)))
	assert.False(t, User{}.TokenMatches("abc", now))
}

func TestProduct_CheckOrderable(t *testing.T) {
	tests := []struct {
		name         string
		product      Product
		restaurantID uint
		wantMessage  string
	}{
		{"available on this menu", Product{RestaurantID: 1, Availability: true}, 1, ""},
		{"other restaurant", Product{RestaurantID: 2, Availability: true}, 1, "Products do not belong to the same Restaurant"},
		{"unavailable", Product{RestaurantID: 1}, 1, "Products are not available."},
		{"unavailable elsewhere", Product{RestaurantID: 2}, 1, "Products are not available."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.CheckOrderable(tt.restaurantID)
			if tt.wantMessage == "" {
				assert.NoError(t, err)
				return
			}
			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			require.Len(t, ve.Details, 1)
			assert.Equal(t, "products", ve.Details[0].Field)
			assert.Equal(t, tt.wantMessage, ve.Details[0].Message)
		})
	}
}

func TestProductMissing(t *testing.T) {
	ve, ok := apperrors.IsValidationError(ProductMissing(77))
	require.True(t, ok)
	assert.Equal(t, "Product 77 does not exist.", ve.Details[0].Message)
}

func TestRestaurantStatus_Valid(t *testing.T) {
	assert.True(t, RestaurantStatusOnline.Valid())
	assert.True(t, RestaurantStatusTemporarilyClosed.Valid())
	assert.False(t, RestaurantStatus("busy").Valid())
}
