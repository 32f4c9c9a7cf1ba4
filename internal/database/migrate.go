package database

import (
	"log"

	"github.com/boxaid/boxaid/internal/models"
)

// Migrate synchronizes the schema for all entities. Parent tables come
// first so foreign keys resolve on a fresh database.
func Migrate(db *DB) error {
	return db.AutoMigrate(
		&models.Organisation{},
		&models.Base{},
		&models.User{},
		&models.ProductCategory{},
		&models.Size{},
		&models.Product{},
		&models.Location{},
		&models.QrCode{},
		&models.Box{},
	)
}

// SeedDev inserts a minimal organisation/base/user fixture when the users
// table is empty. Development convenience only; callers gate it on env.
func SeedDev(db *DB, adminPasswordHash string) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	org := models.Organisation{Name: "BoxAid", Label: "boxaid"}
	if err := db.Create(&org).Error; err != nil {
		return err
	}
	base := models.Base{OrganisationID: org.ID, Name: "Main Warehouse", Currency: "EUR"}
	if err := db.Create(&base).Error; err != nil {
		return err
	}
	admin := models.User{
		Name:           "Admin",
		Email:          "admin@boxaid.org",
		Password:       adminPasswordHash,
		OrganisationID: org.ID,
		IsAdmin:        true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("seeded development organisation, base and admin user")
	return nil
}
