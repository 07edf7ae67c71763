package db

import (
	"github.com/shiftswap/shiftswap/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// AllModels in migration dependency order.
var AllModels = []interface{}{
	&models.User{},
	&models.Group{},
	&models.Membership{},
	&models.Template{},
	&models.Shift{},
	&models.Switch{},
	&models.SwitchResponse{},
	&models.Availability{},
}

func ConnectDatabase(dsn string) error {
	var err error

	// TranslateError turns driver duplicate-key failures into
	// gorm.ErrDuplicatedKey, which the core relies on for its
	// constraint-backed conflict checks.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	migrator := DB.Migrator()

	for _, model := range AllModels {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
