package db

import (
	"fmt"

	"gorm.io/gorm"

	"smartcart/internal/hash"
	"smartcart/internal/models"
)

// SeedAdmin makes sure an admin account exists. No-op when the email is
// already registered, so it is safe to run on every start.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleAdmin,
	}

	res := db.Where("email = ?", email).FirstOrCreate(&admin)
	if res.Error != nil {
		return fmt.Errorf("seed admin: %w", res.Error)
	}
	return nil
}
