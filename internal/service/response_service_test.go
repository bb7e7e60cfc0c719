package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eventar/marketplace-core/internal/model"
)

func TestResponseService_SubmitAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := newResponseService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)

	if _, err := svc.Submit(ctx, order.ID, photographer.ID, 40000, "портфолио в профиле"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(ctx, order.ID, photographer.ID, 35000, "передумал, дешевле"); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("duplicate submit = %v, want ErrAlreadyApplied", err)
	}
	if n := countRows(t, db, &model.OrderResponse{}, "order_id = ?", order.ID); n != 1 {
		t.Fatalf("responses = %d, want 1", n)
	}
}

func TestResponseService_SubmitGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newResponseService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	musician := seedPerformer(t, db, model.ServiceMusic)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)

	// Заказчик не может откликаться.
	if _, err := svc.Submit(ctx, order.ID, customer.ID, 1000, ""); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("customer submit = %v, want ErrPermissionDenied", err)
	}
	// Услуга исполнителя не запрошена заказом.
	if _, err := svc.Submit(ctx, order.ID, musician.ID, 1000, ""); !errors.Is(err, ErrOrderNotOpen) {
		t.Fatalf("wrong service submit = %v, want ErrOrderNotOpen", err)
	}
}

func TestResponseService_SubmitToFilledSlotRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newResponseService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	winner := seedPerformer(t, db, model.ServicePhoto)
	latecomer := seedPerformer(t, db, model.ServicePhoto)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto, model.ServiceMusic)

	winnerResp, err := svc.Submit(ctx, order.ID, winner.ID, 40000, "")
	if err != nil {
		t.Fatalf("submit winner: %v", err)
	}
	if err := svc.Confirm(ctx, winnerResp, customer.ID); err != nil {
		t.Fatalf("confirm winner: %v", err)
	}

	// Слот photo закрыт, заявка ещё открыта по music: опоздавший
	// фотограф отсекается, его отклик не сохраняется.
	if _, err := svc.Submit(ctx, order.ID, latecomer.ID, 30000, ""); !errors.Is(err, ErrOrderNotOpen) {
		t.Fatalf("late submit = %v, want ErrOrderNotOpen", err)
	}
	if n := countRows(t, db, &model.OrderResponse{},
		"order_id = ? AND performer_id = ?", order.ID, latecomer.ID); n != 0 {
		t.Fatalf("late responses = %d, want 0", n)
	}
}

func TestResponseService_ConfirmFillsSlotAndPrunesPool(t *testing.T) {
	db := newTestDB(t)
	svc := newResponseService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	winner := seedPerformer(t, db, model.ServicePhoto)
	loser := seedPerformer(t, db, model.ServicePhoto)
	musician := seedPerformer(t, db, model.ServiceMusic)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto, model.ServiceMusic)

	winnerResp, err := svc.Submit(ctx, order.ID, winner.ID, 40000, "")
	if err != nil {
		t.Fatalf("submit winner: %v", err)
	}
	if _, err := svc.Submit(ctx, order.ID, loser.ID, 30000, ""); err != nil {
		t.Fatalf("submit loser: %v", err)
	}
	if _, err := svc.Submit(ctx, order.ID, musician.ID, 20000, ""); err != nil {
		t.Fatalf("submit musician: %v", err)
	}

	if err := svc.Confirm(ctx, winnerResp, customer.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Слот photo закрыт победителем, дата занята.
	if n := countRows(t, db, &model.SelectedPerformer{},
		"order_id = ? AND service_code = ? AND performer_id = ?",
		order.ID, model.ServicePhoto, winner.ID); n != 1 {
		t.Fatalf("selected photo rows = %d, want 1", n)
	}
	if n := busyCount(t, db, winner.ID); n != 1 {
		t.Fatalf("winner busy rows = %d, want 1", n)
	}
	if n := busyCount(t, db, loser.ID); n != 0 {
		t.Fatalf("loser busy rows = %d, want 0", n)
	}

	// Пул photo вычищен целиком, пул music не тронут.
	if n := countRows(t, db, &model.OrderResponse{},
		"order_id = ? AND service_code = ?", order.ID, model.ServicePhoto); n != 0 {
		t.Fatalf("photo responses = %d, want 0", n)
	}
	if n := countRows(t, db, &model.OrderResponse{},
		"order_id = ? AND service_code = ?", order.ID, model.ServiceMusic); n != 1 {
		t.Fatalf("music responses = %d, want 1", n)
	}

	// Покрытие неполное: заказ остаётся new.
	if got := reloadOrder(t, db, order.ID).Status; got != model.OrderStatusNew {
		t.Fatalf("status = %s, want new", got)
	}
}

func TestResponseService_FullCoverageMovesOrderInProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newResponseService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	musician := seedPerformer(t, db, model.ServiceMusic)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto, model.ServiceMusic)

	photoResp, err := svc.Submit(ctx, order.ID, photographer.ID, 40000, "")
	if err != nil {
		t.Fatalf("submit photo: %v", err)
	}
	musicResp, err := svc.Submit(ctx, order.ID, musician.ID, 20000, "")
	if err != nil {
		t.Fatalf("submit music: %v", err)
	}

	if err := svc.Confirm(ctx, photoResp, customer.ID); err != nil {
		t.Fatalf("confirm photo: %v", err)
	}
	if got := reloadOrder(t, db, order.ID).Status; got != model.OrderStatusNew {
		t.Fatalf("after first confirm status = %s, want new", got)
	}

	if err := svc.Confirm(ctx, musicResp, customer.ID); err != nil {
		t.Fatalf("confirm music: %v", err)
	}
	if got := reloadOrder(t, db, order.ID).Status; got != model.OrderStatusInProgress {
		t.Fatalf("after full coverage status = %s, want in_progress", got)
	}

	slots, err := newOrderService(db).OpenSlots(ctx, order.ID)
	if err != nil {
		t.Fatalf("open slots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("open slots = %v, want none", slots)
	}
}

func TestResponseService_SecondConfirmLosesSlotRace(t *testing.T) {
	db := newTestDB(t)
	svc := newResponseService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	winner := seedPerformer(t, db, model.ServicePhoto)
	rival := seedPerformer(t, db, model.ServicePhoto)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)

	winnerResp, err := svc.Submit(ctx, order.ID, winner.ID, 40000, "")
	if err != nil {
		t.Fatalf("submit winner: %v", err)
	}
	if err := svc.Confirm(ctx, winnerResp, customer.ID); err != nil {
		t.Fatalf("confirm winner: %v", err)
	}

	// Отклик соперника, проскочивший до зачистки пула.
	rivalResp := model.OrderResponse{
		OrderID:     order.ID,
		PerformerID: rival.ID,
		ServiceCode: model.ServicePhoto,
		Price:       30000,
	}
	if err := db.Create(&rivalResp).Error; err != nil {
		t.Fatalf("seed rival response: %v", err)
	}

	if err := svc.Confirm(ctx, rivalResp.ID, customer.ID); !errors.Is(err, ErrSlotAlreadyFilled) {
		t.Fatalf("rival confirm = %v, want ErrSlotAlreadyFilled", err)
	}
	// Транзакция откатилась: у соперника нет занятой даты.
	if n := busyCount(t, db, rival.ID); n != 0 {
		t.Fatalf("rival busy rows = %d, want 0", n)
	}
	if n := countRows(t, db, &model.SelectedPerformer{}, "order_id = ?", order.ID); n != 1 {
		t.Fatalf("selected rows = %d, want 1", n)
	}
}

func TestResponseService_ConfirmBusyPerformerRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newResponseService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)

	respID, err := svc.Submit(ctx, order.ID, photographer.ID, 40000, "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Дата события уже занята у исполнителя другим заказом.
	if err := claimBusyDate(db, photographer.ID, eventDate(30), model.BusyDateSourceOrder); err != nil {
		t.Fatalf("claim date: %v", err)
	}

	if err := svc.Confirm(ctx, respID, customer.ID); !errors.Is(err, ErrAlreadyBusy) {
		t.Fatalf("confirm = %v, want ErrAlreadyBusy", err)
	}
	if n := countRows(t, db, &model.SelectedPerformer{}, "order_id = ?", order.ID); n != 0 {
		t.Fatalf("selected rows = %d, want 0", n)
	}
	// Отклик уцелел: заказчик может подтвердить другого кандидата.
	if n := countRows(t, db, &model.OrderResponse{}, "id = ?", respID); n != 1 {
		t.Fatalf("response rows = %d, want 1", n)
	}
}

func TestResponseService_ConfirmByStrangerDenied(t *testing.T) {
	db := newTestDB(t)
	svc := newResponseService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	stranger := seedCustomer(t, db)
	photographer := seedPerformer(t, db, model.ServicePhoto)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)

	respID, err := svc.Submit(ctx, order.ID, photographer.ID, 40000, "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.Confirm(ctx, respID, stranger.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("stranger confirm = %v, want ErrPermissionDenied", err)
	}
}

func TestResponseService_RejectRemovesSingleResponse(t *testing.T) {
	db := newTestDB(t)
	svc := newResponseService(db)
	ctx := context.Background()

	customer := seedCustomer(t, db)
	first := seedPerformer(t, db, model.ServicePhoto)
	second := seedPerformer(t, db, model.ServicePhoto)
	order := seedRequest(t, db, customer.ID, model.ServicePhoto)

	firstResp, err := svc.Submit(ctx, order.ID, first.ID, 40000, "")
	if err != nil {
		t.Fatalf("submit first: %v", err)
	}
	if _, err := svc.Submit(ctx, order.ID, second.ID, 30000, ""); err != nil {
		t.Fatalf("submit second: %v", err)
	}

	if err := svc.Reject(ctx, firstResp, customer.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if n := countRows(t, db, &model.OrderResponse{}, "order_id = ?", order.ID); n != 1 {
		t.Fatalf("responses = %d, want 1", n)
	}
	// Календарь и слоты не затронуты.
	if n := busyCount(t, db, first.ID); n != 0 {
		t.Fatalf("busy rows = %d, want 0", n)
	}
}
