package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestValidateEventDate_Window(t *testing.T) {
	now := time.Date(2026, 6, 15, 13, 45, 0, 0, time.UTC)

	cases := []struct {
		name string
		date time.Time
		want error
	}{
		{"today", now, nil},
		{"today midnight", DateOnly(now), nil},
		{"tomorrow", now.AddDate(0, 0, 1), nil},
		{"yesterday", now.AddDate(0, 0, -1), ErrDateOutOfWindow},
		{"horizon edge", now.AddDate(0, 0, MaxAdvanceDays), nil},
		{"beyond horizon", now.AddDate(0, 0, MaxAdvanceDays+1), ErrDateOutOfWindow},
		{"zero", time.Time{}, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEventDate(tc.date, now)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("ValidateEventDate(%v) = %v, want nil", tc.date, err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("ValidateEventDate(%v) = %v, want %v", tc.date, err, tc.want)
			}
		})
	}
}

func TestDateOnly_NormalizesToUTCMidnight(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	in := time.Date(2026, 6, 15, 1, 30, 0, 0, msk) // 2026-06-14 22:30 UTC

	got := DateOnly(in)
	want := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("DateOnly = %v, want %v", got, want)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-06-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseDate = %v, want %v", got, want)
	}

	if _, err := ParseDate("15.06.2026"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("ParseDate(bad format) = %v, want ErrInvalidDate", err)
	}
}

func TestPaginate(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	p := Paginate(items, 2, 20)
	if len(p.Items) != 20 || p.Items[0] != 20 {
		t.Fatalf("page 2: len=%d first=%d", len(p.Items), p.Items[0])
	}
	if !p.HasNext || !p.HasPrev {
		t.Fatalf("page 2: HasNext=%v HasPrev=%v", p.HasNext, p.HasPrev)
	}

	last := Paginate(items, 3, 20)
	if len(last.Items) != 5 || last.HasNext {
		t.Fatalf("page 3: len=%d HasNext=%v", len(last.Items), last.HasNext)
	}

	past := Paginate(items, 10, 20)
	if len(past.Items) != 0 {
		t.Fatalf("page past end: len=%d, want 0", len(past.Items))
	}

	defaults := Paginate(items, 0, 0)
	if defaults.Page != 1 || defaults.PageSize != 20 || len(defaults.Items) != 20 {
		t.Fatalf("defaults: page=%d size=%d len=%d", defaults.Page, defaults.PageSize, len(defaults.Items))
	}
	if defaults.Total != 45 {
		t.Fatalf("Total = %d, want 45", defaults.Total)
	}
}
