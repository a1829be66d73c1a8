package util

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+4", 4*3600)
	in := time.Date(2024, 10, 10, 1, 30, 0, 0, loc)
	got := StartOfDay(in)
	want := time.Date(2024, 10, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestStartOfDayIdempotent(t *testing.T) {
	d := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if got := StartOfDay(d); !got.Equal(d) {
		t.Fatalf("got %v, want %v", got, d)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 10, 8, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
