package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "deliverus/internal/errors"
	"deliverus/internal/validate"
)

type normalizer interface {
	Normalize()
}

// Decode reads the JSON body into dst, normalizes it when dst knows how,
// and validates its struct tags. A body that is not JSON yields a
// BadRequestError; a value of the wrong type or failing rules yield a
// ValidationError.
func Decode(r *http.Request, dst interface{}) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return typeMismatch(typeErr)
		}
		return apperrors.NewBadRequestError("request body must be valid JSON")
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return validate.Struct(dst)
}

func typeMismatch(err *json.UnmarshalTypeError) *apperrors.ValidationError {
	field := err.Field
	if field == "" {
		field = "body"
	}

	var expected string
	switch err.Type.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		expected = "a positive integer"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		expected = "an integer"
	case reflect.Float32, reflect.Float64:
		expected = "a number"
	case reflect.Slice, reflect.Array:
		expected = "an array"
	case reflect.Struct, reflect.Map:
		expected = "an object"
	default:
		expected = "a " + err.Type.Kind().String()
	}

	return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
		Field:   field,
		Message: fmt.Sprintf("%s must be %s", field, expected),
	})
}

// ID parses the chi URL parameter name as a positive id.
func ID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.NewBadRequestError(fmt.Sprintf("%s must be a positive integer", name))
	}
	return uint(id), nil
}
