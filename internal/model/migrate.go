package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра подбора.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Tariff{},
		&Order{},
		&SelectedPerformer{},
		&OrderResponse{},
		&BookingProposal{},
		&BusyDate{},
		&Review{},
	)
}
