package dto

import (
	"strings"
	"time"

	"deliverus/internal/domain"
)

type RegisterRequest struct {
	FirstName  string  `json:"firstName" validate:"required,max=255"`
	LastName   *string `json:"lastName" validate:"omitempty,max=255"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	Password   string  `json:"password" validate:"required,min=3,max=255"`
	Phone      string  `json:"phone" validate:"required,max=255"`
	Avatar     *string `json:"avatar" validate:"omitempty,max=255"`
	Address    string  `json:"address" validate:"required,max=255"`
	PostalCode string  `json:"postalCode" validate:"required,max=255"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
}

type UpdateUserRequest struct {
	FirstName  string  `json:"firstName" validate:"required,max=255"`
	LastName   *string `json:"lastName" validate:"omitempty,max=255"`
	Phone      string  `json:"phone" validate:"required,max=255"`
	Avatar     *string `json:"avatar" validate:"omitempty,max=255"`
	Address    string  `json:"address" validate:"required,max=255"`
	PostalCode string  `json:"postalCode" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// UserResponse never carries the password hash. Token fields are only set
// on the caller's own register/login responses.
type UserResponse struct {
	ID              uint       `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        *string    `json:"lastName"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Avatar          *string    `json:"avatar"`
	Address         string     `json:"address"`
	PostalCode      string     `json:"postalCode"`
	UserType        string     `json:"userType"`
	Token           *string    `json:"token,omitempty"`
	TokenExpiration *time.Time `json:"tokenExpiration,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		Avatar:     u.Avatar,
		Address:    u.Address,
		PostalCode: u.PostalCode,
		UserType:   string(u.UserType),
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func NewSessionResponse(u domain.User) UserResponse {
	resp := NewUserResponse(u)
	resp.Token = u.Token
	resp.TokenExpiration = u.TokenExpiration
	return resp
}

// PublicUserResponse is what other users may see of a profile.
type PublicUserResponse struct {
	ID        uint    `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName"`
	Avatar    *string `json:"avatar"`
	UserType  string  `json:"userType"`
}

func NewPublicUserResponse(u domain.User) PublicUserResponse {
	return PublicUserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
		UserType:  string(u.UserType),
	}
}
