package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "deliverus/internal/errors"
)

type line struct {
	ProductID uint `json:"productId" validate:"gte=1"`
	Quantity  int  `json:"quantity" validate:"gte=1"`
}

type sample struct {
	Address  string  `json:"address" validate:"required,max=255"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Products []line  `json:"products" validate:"required,min=1,dive"`
	Restaur  *uint   `json:"restaurantId" validate:"isdefault"`
	Status   string  `json:"status" validate:"omitempty,oneof=online offline"`
	Price    float64 `json:"price" validate:"gte=0"`
}

func TestStruct_Valid(t *testing.T) {
	s := sample{
		Address:  "Calle Falsa 123",
		Products: []line{{ProductID: 1, Quantity: 2}},
	}

	assert.NoError(t, Struct(s))
}

func TestStruct_ReportsJSONFieldPaths(t *testing.T) {
	id := uint(3)
	s := sample{
		Email:    "not-an-email",
		Products: []line{{ProductID: 0, Quantity: 0}},
		Restaur:  &id,
		Status:   "busy",
		Price:    -1,
	}

	err := Struct(s)
	require.Error(t, err)

	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)

	fields := map[string]string{}
	for _, d := range ve.Details {
		fields[d.Field] = d.Message
	}

	assert.Equal(t, "address is required", fields["address"])
	assert.Equal(t, "email must be a valid email", fields["email"])
	assert.Contains(t, fields, "products[0].productId")
	assert.Contains(t, fields, "products[0].quantity")
	assert.Equal(t, "restaurantId must not be present", fields["restaurantId"])
	assert.Equal(t, "status must be one of [online offline]", fields["status"])
	assert.Contains(t, fields, "price")
}

func TestStruct_EmptyProducts(t *testing.T) {
	s := sample{Address: "x", Products: []line{}}

	err := Struct(s)
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "products", ve.Details[0].Field)
	assert.Equal(t, "products must have at least 1 elements", ve.Details[0].Message)
}
