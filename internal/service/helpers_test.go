package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/repository"
)

// testNow — фиксированные "часы" тестов, все даты отсчитываются от них.
var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func eventDate(daysAhead int) time.Time {
	return testNow.AddDate(0, 0, daysAhead)
}

// newTestDB — sqlite в памяти со схемой из миграций. TranslateError
// обязателен: защита календаря и слотов различает нарушение уникального
// индекса через gorm.ErrDuplicatedKey.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Одно соединение: у sqlite in-memory база живёт в соединении.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	u := model.User{
		PhoneNumber: "+7" + uuid.NewString(),
		FirstName:   "Анна",
		City:        "Москва",
		UserType:    model.UserTypeCustomer,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return &u
}

func seedPerformer(t *testing.T, db *gorm.DB, code model.ServiceCode) *model.User {
	t.Helper()
	u := model.User{
		PhoneNumber: "+7" + uuid.NewString(),
		FirstName:   "Игорь",
		City:        "Москва",
		UserType:    model.UserTypePerformer,
		ServiceType: &code,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed performer: %v", err)
	}
	return &u
}

func seedTariff(t *testing.T, db *gorm.DB, performerID uuid.UUID, price int64) *model.Tariff {
	t.Helper()
	tr := model.Tariff{
		UserID: performerID,
		Name:   "Базовый",
		Price:  price,
	}
	if err := db.Create(&tr).Error; err != nil {
		t.Fatalf("seed tariff: %v", err)
	}
	return &tr
}

// seedRequest — открытая составная заявка на eventDate(30).
func seedRequest(t *testing.T, db *gorm.DB, customerID uuid.UUID, codes ...model.ServiceCode) *model.Order {
	t.Helper()
	svc := newOrderService(db)
	id, err := svc.CreateRequest(context.Background(), customerID, CreateRequestInput{
		Title:     "Свадьба",
		EventDate: eventDate(30),
		City:      "Москва",
		BudgetMin: 50000,
		BudgetMax: 150000,
		Services:  codes,
	})
	if err != nil {
		t.Fatalf("seed request: %v", err)
	}
	var order model.Order
	if err := db.First(&order, "id = ?", id).Error; err != nil {
		t.Fatalf("load request: %v", err)
	}
	return &order
}

func newOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:        db,
		orderRepo: repository.NewGormOrderRepository(db),
		userRepo:  repository.NewGormUserRepository(db),
		now:       func() time.Time { return testNow },
	}
}

func newBookingService(db *gorm.DB) *BookingService {
	return &BookingService{
		db:         db,
		userRepo:   repository.NewGormUserRepository(db),
		tariffRepo: repository.NewGormTariffRepository(db),
		propRepo:   repository.NewGormProposalRepository(db),
		now:        func() time.Time { return testNow },
	}
}

func newResponseService(db *gorm.DB) *ResponseService {
	return NewResponseService(db,
		repository.NewGormResponseRepository(db),
		repository.NewGormUserRepository(db))
}

func countRows(t *testing.T, db *gorm.DB, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func busyCount(t *testing.T, db *gorm.DB, performerID uuid.UUID) int64 {
	return countRows(t, db, &model.BusyDate{}, "user_id = ?", performerID)
}

func reloadOrder(t *testing.T, db *gorm.DB, id uuid.UUID) *model.Order {
	t.Helper()
	var order model.Order
	if err := db.First(&order, "id = ?", id).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	return &order
}
