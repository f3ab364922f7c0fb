package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"smartcart/internal/db"
	"smartcart/internal/models"
	"smartcart/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	return &repo.GormRepo{DB: gdb}
}

func createProduct(t *testing.T, r *repo.GormRepo, name string, price float64) *models.Product {
	t.Helper()

	prod := models.Product{
		Name:        name,
		Description: "test_description",
		Price:       price,
		Stock:       10,
	}
	require.NoError(t, r.DB.Create(&prod).Error)
	return &prod
}

func createUser(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func countRows(t *testing.T, r *repo.GormRepo, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, r.DB.Model(model).Count(&n).Error)
	return n
}
