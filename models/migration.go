package models

import (
	"log"

	"github.com/mattobell/dealer_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Business{}, &User{},
		&CarMake{}, &CarModel{}, &CarFeature{},
		&Vehicle{}, &VehicleImage{},
		&CatalogCategory{}, &CatalogEntry{}, &CatalogSerial{},
		&Lease{}, &TestDrive{}, &ServiceRecord{},
		&History{},
		&SyncRecord{}, &IdempotencyKey{},
		&ErpConnection{}, &ErpSyncRun{}, &ErpEntityMapping{}, &ErpSyncError{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
