package service

import "errors"

// Типизированные ошибки ядра. Все восстановимы на стороне вызывающего;
// конкурентный проигрыш гонки и заранее обнаруженный конфликт
// возвращаются одной и той же ошибкой.
var (
	ErrAlreadyBusy        = errors.New("performer is already busy on this date")
	ErrAlreadyApplied     = errors.New("performer has already applied to this order")
	ErrOrderNotOpen       = errors.New("order is not open for this operation")
	ErrOrderClosed        = errors.New("order is completed or cancelled")
	ErrSlotAlreadyFilled  = errors.New("service slot is already filled")
	ErrInvalidService     = errors.New("service is not requested by the order")
	ErrResponseNotFound   = errors.New("response not found")
	ErrProposalNotPending = errors.New("proposal is not pending or not addressed to the performer")
	ErrProposalExists     = errors.New("pending proposal already exists for this performer and date")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTariffNotFound     = errors.New("tariff not found")
	ErrNotAssigned        = errors.New("performer is not assigned to the order")
	ErrPermissionDenied   = errors.New("operation is not permitted for this user")
	ErrAlreadyReviewed    = errors.New("review already submitted for this order")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)
