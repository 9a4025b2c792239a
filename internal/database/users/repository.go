// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.CreateUser("mouse", "mouse@example.com")
package users

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bookmoth/bookmoth/internal/entities"
)

var defaultShelves = []entities.Shelf{
	{Identifier: entities.ShelfToRead, Name: "To Read", Editable: false},
	{Identifier: entities.ShelfReading, Name: "Currently Reading", Editable: false},
	{Identifier: entities.ShelfRead, Name: "Read", Editable: false},
}

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user together with their default shelves, in
// one transaction.
func (r *Repository) CreateUser(username, email string) (*entities.User, error) {
	user := &entities.User{
		Username: username,
		Email:    email,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		for _, shelf := range defaultShelves {
			shelf.UserID = user.ID
			if err := tx.Create(&shelf).Error; err != nil {
				return fmt.Errorf("failed to create shelf %s: %w", shelf.Identifier, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *Repository) GetUserByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
