package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/benmab17/mbongi-agents/models"
)

var DB *gorm.DB

// InitDB ouvre la base SQLite et migre le schéma du portail.
func InitDB(path string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connexion à la base: %w", err)
	}

	err = DB.AutoMigrate(
		&models.Service{},
		&models.Agent{},
		&models.Contribution{},
		&models.Mission{},
		&models.AuditLog{},
		&models.RecoupementTicket{},
		&models.CNSAvis{},
	)
	if err != nil {
		return fmt.Errorf("migration du schéma: %w", err)
	}

	return nil
}

func GetDB() *gorm.DB {
	return DB
}
