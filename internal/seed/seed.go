package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/setucred/setucred/internal/auth/domain"
	"github.com/setucred/setucred/internal/auth/password"
	"gorm.io/gorm"
)

const (
	defaultOfficerUsername = "officer"
	defaultOfficerPassword = "officer"
)

// EnsureDefaultOfficer seeds a login for local development so the API is
// usable immediately after first boot. Not called in production.
func EnsureDefaultOfficer(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing authdomain.User
		err := tx.Where("username = ?", defaultOfficerUsername).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := password.Hash(defaultOfficerPassword)
		if err != nil {
			return err
		}
		return tx.Create(&authdomain.User{
			ID:           node.Generate(),
			Username:     defaultOfficerUsername,
			PasswordHash: hash,
		}).Error
	})
}
