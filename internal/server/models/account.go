// Package models holds the persistent and outward shapes of a user account.
package models

import "time"

// Account is a stored user account. PasswordHash never leaves the service.
type Account struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ID           int64     `json:"id"`
	IsAdmin      bool      `json:"is_admin"`
}

// AccountView is the public representation returned to clients.
type AccountView struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ID        int64     `json:"id"`
	IsAdmin   bool      `json:"is_admin"`
}

// View strips the credential material from the account.
func (a *Account) View() AccountView {
	return AccountView{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		IsAdmin:   a.IsAdmin,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountUpdate carries a partial profile change; nil fields are left as is.
type AccountUpdate struct {
	Name  *string
	Email *string
}

// Empty reports whether the update changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil
}
