package migration

import (
	"fmt"
	"log"

	"github.com/whaleen/warehouse-sub000/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Product{}); err != nil {
		log.Fatalf("Error migrating product database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Batch{}); err != nil {
		log.Fatalf("Error migrating batch database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Item{}); err != nil {
		log.Fatalf("Error migrating item database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Conflict{}); err != nil {
		log.Fatalf("Error migrating conflict database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ItemChangeLog{}); err != nil {
		log.Fatalf("Error migrating change log database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
