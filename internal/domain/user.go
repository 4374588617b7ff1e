package domain

import (
	"strings"
	"time"
)

type AuthProvider string

const (
	// ProviderGeneral marks accounts created through direct signup.
	ProviderGeneral AuthProvider = "GENERAL"
)

type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Name         string       `json:"name"`
	BirthDate    string       `json:"birth_date,omitempty"`
	Provider     AuthProvider `json:"provider"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// UserResponse is the public representation of an account. It never carries
// the password hash.
type UserResponse struct {
	ID        int64        `json:"id"`
	Username  string       `json:"username"`
	Name      string       `json:"name"`
	BirthDate string       `json:"birth_date,omitempty"`
	Provider  AuthProvider `json:"provider"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		BirthDate: u.BirthDate,
		Provider:  u.Provider,
	}
}

type SignupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

func (r *SignupRequest) Normalize() {
	r.Username = strings.TrimSpace(strings.ToLower(r.Username))
	r.Name = strings.TrimSpace(r.Name)
	r.BirthDate = strings.TrimSpace(r.BirthDate)
}

func (r *SignupRequest) Validate() error {
	fields := map[string]string{}
	if r.Username == "" {
		fields["username"] = "username is required"
	} else if len(r.Username) > 50 {
		fields["username"] = "username must be 50 characters or fewer"
	}
	if r.Password == "" {
		fields["password"] = "password is required"
	} else if len(r.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if r.Name == "" {
		fields["name"] = "name is required"
	} else if len(r.Name) > 50 {
		fields["name"] = "name must be 50 characters or fewer"
	}
	if r.BirthDate != "" {
		if _, err := time.Parse("2006-01-02", r.BirthDate); err != nil {
			fields["birth_date"] = "birth date must be formatted as YYYY-MM-DD"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(strings.ToLower(r.Username))
}

func (r *LoginRequest) Validate() error {
	fields := map[string]string{}
	if r.Username == "" {
		fields["username"] = "username is required"
	}
	if r.Password == "" {
		fields["password"] = "password is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}
