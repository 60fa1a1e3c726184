package domain

import "time"

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeOwner    UserType = "owner"
)

type User struct {
	ID              uint
	FirstName       string
	LastName        *string
	Email           string
	Password        string
	Phone           string
	Avatar          *string
	Address         string
	PostalCode      string
	UserType        UserType
	Token           *string
	TokenExpiration *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u User) HasRole(roles ...UserType) bool {
	for _, r := range roles {
		if u.UserType == r {
			return true
		}
	}
	return false
}

// TokenMatches reports whether token is the one currently issued to the
// user and has not expired at now.
func (u User) TokenMatches(token string, now time.Time) bool {
	if u.Token == nil || *u.Token != token {
		return false
	}
	if u.TokenExpiration != nil && now.After(*u.TokenExpiration) {
		return false
	}
	return true
}
