package utils

import (
	"errors"
	"log"
	"time"

	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FindUserByIdentifier looks a user up by email or phone depending on
// the auth method. identifier must already be normalized.
func FindUserByIdentifier(identifier string, authMethod string) (*models.User, error) {
	d := db.GetDb()
	var user models.User
	q := d.Preload("Roles")
	if authMethod == types.AUTH_METHOD_PHONE {
		q = q.Where("phone = ?", identifier)
	} else {
		q = q.Where("email = ?", identifier)
	}
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetOrCreateUser returns the account for a verified identifier,
// creating it on first sign-in. New accounts get a random unusable
// password since OTP is the only credential.
func GetOrCreateUser(identifier string, authMethod string, name string, role string) (*models.User, bool, error) {
	user, err := FindUserByIdentifier(identifier, authMethod)
	if err == nil {
		if role != "" && !user.HasRole(role) {
			d := db.GetDb()
			userRole := models.UserRole{UserID: user.ID, Role: role}
			if err := d.Create(&userRole).Error; err != nil {
				log.Printf("Error assigning role [%s] to user %d: %s\n", role, user.ID, err.Error())
			} else {
				user.Roles = append(user.Roles, userRole)
			}
		}
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}
	if role == "" {
		role = types.ROLE_CUSTOMER
	}
	now := time.Now()
	created := models.User{
		Name:       name,
		Password:   uuid.NewString(),
		VerifiedAt: &now,
	}
	if authMethod == types.AUTH_METHOD_PHONE {
		created.Phone = &identifier
		created.PhoneVerified = true
	} else {
		created.Email = &identifier
		created.EmailVerified = true
	}
	d := db.GetDb()
	err = d.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		userRole := models.UserRole{UserID: created.ID, Role: role}
		return tx.Create(&userRole).Error
	})
	if err != nil {
		log.Printf("Error creating user for %s: %s\n", identifier, err.Error())
		return nil, false, err
	}
	created.Roles = []models.UserRole{{UserID: created.ID, Role: role}}
	return &created, true, nil
}
