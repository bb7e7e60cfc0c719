package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventar/marketplace-core/internal/calendar"
	"github.com/eventar/marketplace-core/internal/model"
)

func TestBookingService_CreateDirectBooking(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	tariff := seedTariff(t, db, photographer.ID, 45000)

	orderID, err := svc.CreateDirectBooking(ctx, customer.ID, photographer.ID, eventDate(14), tariff.ID, "съёмка на выезде")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	order := reloadOrder(t, db, orderID)
	if order.OrderType != model.OrderTypeBooking {
		t.Fatalf("order_type = %s, want booking", order.OrderType)
	}
	if order.Status != model.OrderStatusInProgress {
		t.Fatalf("status = %s, want in_progress", order.Status)
	}
	if order.PerformerID == nil || *order.PerformerID != photographer.ID {
		t.Fatalf("performer_id = %v, want %s", order.PerformerID, photographer.ID)
	}
	if order.BudgetMin != 45000 || order.BudgetMax != 45000 {
		t.Fatalf("budget = [%d, %d], want tariff price", order.BudgetMin, order.BudgetMax)
	}
	if n := busyCount(t, db, photographer.ID); n != 1 {
		t.Fatalf("busy rows = %d, want 1", n)
	}
}

func TestBookingService_DirectBookingConflictLeavesNoOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	first := seedCustomer(t, db)
	second := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	tariff := seedTariff(t, db, photographer.ID, 45000)
	date := eventDate(14)

	if _, err := svc.CreateDirectBooking(ctx, first.ID, photographer.ID, date, tariff.ID, ""); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.CreateDirectBooking(ctx, second.ID, photographer.ID, date, tariff.ID, ""); !errors.Is(err, ErrAlreadyBusy) {
		t.Fatalf("second booking = %v, want ErrAlreadyBusy", err)
	}

	// Проигравший не оставил ни заказа, ни занятых дат.
	if n := countRows(t, db, &model.Order{}, "customer_id = ?", second.ID); n != 0 {
		t.Fatalf("loser orders = %d, want 0", n)
	}
	if n := busyCount(t, db, photographer.ID); n != 1 {
		t.Fatalf("busy rows = %d, want 1", n)
	}
}

func TestBookingService_DirectBookingDateWindow(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	tariff := seedTariff(t, db, photographer.ID, 45000)

	for _, days := range []int{-1, calendar.MaxAdvanceDays + 1} {
		if _, err := svc.CreateDirectBooking(ctx, customer.ID, photographer.ID, eventDate(days), tariff.ID, ""); !errors.Is(err, calendar.ErrDateOutOfWindow) {
			t.Fatalf("booking %+d days = %v, want ErrDateOutOfWindow", days, err)
		}
	}
}

func TestBookingService_DirectBookingForeignTariff(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	other := seedPerformer(t, db, model.ServiceMusic)
	foreign := seedTariff(t, db, other.ID, 10000)

	if _, err := svc.CreateDirectBooking(ctx, customer.ID, photographer.ID, eventDate(14), foreign.ID, ""); !errors.Is(err, ErrTariffNotFound) {
		t.Fatalf("foreign tariff = %v, want ErrTariffNotFound", err)
	}
}

func TestBookingService_ProposalLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	tariff := seedTariff(t, db, photographer.ID, 45000)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)
	date := eventDate(30)

	propID, err := svc.CreateProposal(ctx, customer.ID, order.ID, photographer.ID, date, tariff.ID)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	// Второе pending-предложение тому же исполнителю на ту же дату.
	if _, err := svc.CreateProposal(ctx, customer.ID, order.ID, photographer.ID, date, tariff.ID); !errors.Is(err, ErrProposalExists) {
		t.Fatalf("duplicate proposal = %v, want ErrProposalExists", err)
	}

	if err := svc.AcceptProposal(ctx, propID, photographer.ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	got := reloadOrder(t, db, order.ID)
	if got.Status != model.OrderStatusInProgress {
		t.Fatalf("status = %s, want in_progress", got.Status)
	}
	if got.PerformerID == nil || *got.PerformerID != photographer.ID {
		t.Fatalf("performer_id = %v, want %s", got.PerformerID, photographer.ID)
	}
	if n := busyCount(t, db, photographer.ID); n != 1 {
		t.Fatalf("busy rows = %d, want 1", n)
	}

	// Принятое предложение нельзя разрешить повторно.
	if err := svc.AcceptProposal(ctx, propID, photographer.ID); !errors.Is(err, ErrProposalNotPending) {
		t.Fatalf("repeated accept = %v, want ErrProposalNotPending", err)
	}
	if err := svc.RejectProposal(ctx, propID, photographer.ID); !errors.Is(err, ErrProposalNotPending) {
		t.Fatalf("reject accepted = %v, want ErrProposalNotPending", err)
	}
}

func TestBookingService_PendingProposalUniqueIndex(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	tariff := seedTariff(t, db, photographer.ID, 45000)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)
	date := eventDate(30)

	if _, err := svc.CreateProposal(ctx, customer.ID, order.ID, photographer.ID, date, tariff.ID); err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	// Вставка в обход сервиса: pending-пару (исполнитель, дата) держит
	// сам индекс, а не проверка перед записью.
	dup := model.BookingProposal{
		OrderID:     order.ID,
		PerformerID: photographer.ID,
		TariffID:    tariff.ID,
		Date:        calendar.ToDate(date),
		Status:      model.ProposalStatusPending,
	}
	if err := db.Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate pending insert = %v, want ErrDuplicatedKey", err)
	}

	// Разрешённые предложения под индекс не попадают.
	resolved := dup
	resolved.ID = uuid.Nil
	resolved.Status = model.ProposalStatusRejected
	if err := db.Create(&resolved).Error; err != nil {
		t.Fatalf("resolved insert: %v", err)
	}
}

func TestBookingService_RejectAllowsNewProposal(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	tariff := seedTariff(t, db, photographer.ID, 45000)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)
	date := eventDate(30)

	propID, err := svc.CreateProposal(ctx, customer.ID, order.ID, photographer.ID, date, tariff.ID)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	if err := svc.RejectProposal(ctx, propID, photographer.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// Календарь не тронут, место для нового предложения свободно.
	if n := busyCount(t, db, photographer.ID); n != 0 {
		t.Fatalf("busy rows = %d, want 0", n)
	}
	if _, err := svc.CreateProposal(ctx, customer.ID, order.ID, photographer.ID, date, tariff.ID); err != nil {
		t.Fatalf("re-propose after reject: %v", err)
	}
}

func TestBookingService_AcceptForeignProposalDenied(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	rival := seedPerformer(t, db, model.ServicePhoto)
	tariff := seedTariff(t, db, photographer.ID, 45000)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)

	propID, err := svc.CreateProposal(ctx, customer.ID, order.ID, photographer.ID, eventDate(30), tariff.ID)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	if err := svc.AcceptProposal(ctx, propID, rival.ID); !errors.Is(err, ErrProposalNotPending) {
		t.Fatalf("foreign accept = %v, want ErrProposalNotPending", err)
	}
}

func TestBookingService_AcceptBusyDateRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newBookingService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	tariff := seedTariff(t, db, photographer.ID, 45000)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)
	date := eventDate(30)

	propID, err := svc.CreateProposal(ctx, customer.ID, order.ID, photographer.ID, date, tariff.ID)
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	if err := claimBusyDate(db, photographer.ID, date, model.BusyDateSourceManual); err != nil {
		t.Fatalf("claim date: %v", err)
	}

	if err := svc.AcceptProposal(ctx, propID, photographer.ID); !errors.Is(err, ErrAlreadyBusy) {
		t.Fatalf("accept = %v, want ErrAlreadyBusy", err)
	}

	// Откат целиком: предложение всё ещё pending, заказ без исполнителя.
	var prop model.BookingProposal
	if err := db.First(&prop, "id = ?", propID).Error; err != nil {
		t.Fatalf("load proposal: %v", err)
	}
	if prop.Status != model.ProposalStatusPending {
		t.Fatalf("proposal status = %s, want pending", prop.Status)
	}
	if got := reloadOrder(t, db, order.ID); got.PerformerID != nil {
		t.Fatalf("performer_id = %v, want nil", got.PerformerID)
	}
}
