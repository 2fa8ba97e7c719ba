// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string     `json:"email" gorm:"uniqueIndex;size:320;not null"`
	Name         string     `json:"name" gorm:"size:255"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	LastSignedIn *time.Time `json:"last_signed_in"`

	// Relationships
	CartItems []CartItem `json:"cart_items,omitempty" gorm:"foreignKey:UserID"`
	Orders    []Order    `json:"orders,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
