package models

import (
	"log"

	"github.com/mmdatafocus/coffee_export_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Contract{}, &ShipmentLot{}, &PackagingRequirement{},
		&DeductionItem{}, &Payment{}, &ReportRecord{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
