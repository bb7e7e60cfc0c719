package calendar

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrDateOutOfWindow = errors.New("date is in the past or beyond the booking horizon")
)

// Горизонт бронирования: дальше этого количества дней от "сегодня"
// даты не принимаются.
const MaxAdvanceDays = 180

// DateOnly отбрасывает время, оставляя календарную дату в UTC.
// Все даты ядра нормализуются через эту функцию, иначе сравнение
// занятых дней по равенству не работает.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ToDate приводит время к типу даты для хранения в БД.
func ToDate(t time.Time) datatypes.Date {
	return datatypes.Date(DateOnly(t))
}

// ParseDate разбирает дату в формате YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return DateOnly(t), nil
}

// ValidateEventDate проверяет окно бронирования относительно now:
// прошедшие даты и даты дальше MaxAdvanceDays отклоняются.
// Сегодняшний день допустим.
func ValidateEventDate(date, now time.Time) error {
	if date.IsZero() {
		return ErrInvalidDate
	}
	d := DateOnly(date)
	today := DateOnly(now)
	if d.Before(today) {
		return ErrDateOutOfWindow
	}
	if d.After(today.AddDate(0, 0, MaxAdvanceDays)) {
		return ErrDateOutOfWindow
	}
	return nil
}
