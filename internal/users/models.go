package users

import "time"

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

type User struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	AvatarPublicID string    `json:"avatar_public_id"`
	AvatarURL      string    `json:"avatar_url"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (u User) IsAdmin() bool { return u.Role != RoleUser }
