package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventar/marketplace-core/internal/config"
	"github.com/eventar/marketplace-core/internal/db"
	"github.com/eventar/marketplace-core/internal/model"
	"github.com/eventar/marketplace-core/internal/repository"
	"github.com/eventar/marketplace-core/internal/service"
	transport "github.com/eventar/marketplace-core/internal/transport/http"
)

func main() {
	// 1. Конфиг из app.env и переменных окружения.
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(cfg)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	userRepo := repository.NewGormUserRepository(gormDB)
	orderRepo := repository.NewGormOrderRepository(gormDB)
	respRepo := repository.NewGormResponseRepository(gormDB)
	propRepo := repository.NewGormProposalRepository(gormDB)
	busyRepo := repository.NewGormBusyDateRepository(gormDB)
	tariffRepo := repository.NewGormTariffRepository(gormDB)

	// 5. Сервисы ядра.
	calendarSvc := service.NewCalendarService(gormDB, busyRepo)
	orderSvc := service.NewOrderService(gormDB, orderRepo, userRepo)
	responseSvc := service.NewResponseService(gormDB, respRepo, userRepo)
	bookingSvc := service.NewBookingService(gormDB, userRepo, tariffRepo, propRepo)
	catalogSvc := service.NewCatalogService(userRepo, tariffRepo)

	// 6. HTTP-слой.
	router := transport.NewRouter(
		transport.NewOrderHandler(orderSvc),
		transport.NewResponseHandler(responseSvc),
		transport.NewBookingHandler(bookingSvc),
		transport.NewCalendarHandler(calendarSvc),
		transport.NewCatalogHandler(catalogSvc, cfg.SubscriptionPayURL),
	)

	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
	}

	log.Printf("marketplace core listening on %s", cfg.ServerAddress)

	// 7. Запускаем сервер в горутине.
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down http server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
