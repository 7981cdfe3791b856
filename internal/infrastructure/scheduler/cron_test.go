package scheduler

import (
	"testing"
	"time"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestExpr_Next(t *testing.T) {
	tests := []struct {
		expr string
		from string
		want string
	}{
		{"0 9 * * *", "2024-04-30 08:59", "2024-04-30 09:00"},
		{"0 9 * * *", "2024-04-30 09:00", "2024-05-01 09:00"},
		{"0 14 * * 1-5", "2024-05-03 15:00", "2024-05-06 14:00"},
		{"0 0 * * 1", "2024-04-30 12:00", "2024-05-06 00:00"},
		{"*/15 * * * *", "2024-04-30 10:07", "2024-04-30 10:15"},
		{"0 0 1,15 * 1", "2024-04-30 12:00", "2024-05-01 00:00"},
		{"0 0 1,15 * 1", "2024-05-01 00:00", "2024-05-06 00:00"},
		{"0 0 * * 0", "2024-04-30 12:00", "2024-05-05 00:00"},
		{"@daily", "2024-04-30 12:00", "2024-05-01 00:00"},
		{"30 23 31 12 *", "2024-04-30 12:00", "2024-12-31 23:30"},
		{"0 12 29 2 *", "2024-03-01 00:00", "2028-02-29 12:00"},
	}
	for _, tt := range tests {
		got := MustParse(tt.expr).Next(at(tt.from))
		if !got.Equal(at(tt.want)) {
			t.Errorf("%q.Next(%s) = %s, want %s", tt.expr, tt.from, got.Format("2006-01-02 15:04"), tt.want)
		}
	}
}

func TestExpr_NextNever(t *testing.T) {
	if got := MustParse("0 0 31 2 *").Next(at("2024-01-01 00:00")); !got.IsZero() {
		t.Fatalf("expected zero time, got %s", got)
	}
}

func TestExpr_NextKeepsLocation(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	from := time.Date(2024, 4, 30, 8, 30, 0, 0, loc)
	got := MustParse("0 9 * * *").Next(from)
	if got.Location() != loc || got.Hour() != 9 {
		t.Fatalf("unexpected next run: %s", got)
	}
}

func TestExpr_NextAcrossAutumnDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks go back from 03:00 CEST to 02:00 CET on this day, so 02:00 occurs twice.
	from := time.Date(2026, 10, 25, 1, 0, 0, 0, loc)
	got := MustParse("0 2 * * *").Next(from)
	if got.Day() != 25 || got.Hour() != 2 || got.Minute() != 0 {
		t.Fatalf("expected 02:00 on Oct 25, got %s", got)
	}
	if d := got.Sub(from); d != time.Hour {
		t.Fatalf("expected the first 02:00 one hour after 01:00, got %s later", d)
	}
}

func TestExpr_NextSpringDSTGap(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 09:00 exists on both sides of the March change.
	from := time.Date(2026, 3, 28, 9, 0, 0, 0, loc)
	got := MustParse("0 9 * * *").Next(from)
	if got.Day() != 29 || got.Hour() != 9 {
		t.Fatalf("expected 09:00 on Mar 29, got %s", got)
	}
	if d := got.Sub(from); d != 23*time.Hour {
		t.Fatalf("expected a 23h day, got %s", d)
	}
}

func TestExpr_ZeroValue(t *testing.T) {
	if got := (Expr{}).Next(at("2024-01-01 00:00")); !got.IsZero() {
		t.Fatalf("expected zero time for an unparsed expression, got %s", got)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, bad := range []string{"", "* * *", "60 * * * *", "5-1 * * * *", "*/0 * * * *", "a * * * *", "* * 0 * *", "* * * 13 *", "* * * * 8", "@fortnightly"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q): expected error", bad)
		}
	}
}

func TestExpr_String(t *testing.T) {
	if s := MustParse("0 14 * * 1-5").String(); s != "0 14 * * 1-5" {
		t.Fatalf("unexpected string: %s", s)
	}
}
