package explorer

import (
	"errors"
	"testing"
	"time"
)

func TestValidateAddress(t *testing.T) {
	got, err := ValidateAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	if err != nil {
		t.Fatal(err)
	}
	if got != "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" {
		t.Fatalf("want checksummed form, got %s", got)
	}

	for _, bad := range []string{"", "0x123", "not-an-address", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaedff"} {
		if _, err := ValidateAddress(bad); !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("want ErrInvalidAddress for %q, got %v", bad, err)
		}
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: 100, End: 200}
	for ts, want := range map[int64]bool{99: false, 100: true, 150: true, 200: true, 201: false} {
		if got := w.Contains(ts); got != want {
			t.Fatalf("Contains(%d) = %v, want %v", ts, got, want)
		}
	}
}

func TestWindowForDays(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	w := WindowForDays(now, 30, 0)
	if w.End != now.Unix() {
		t.Fatalf("want end %d, got %d", now.Unix(), w.End)
	}
	if w.End-w.Start != 30*86400 {
		t.Fatalf("want a 30 day span, got %d seconds", w.End-w.Start)
	}

	shifted := WindowForDays(now, 30, 30)
	if shifted.End != w.Start {
		t.Fatal("a 30 day offset must end where the unshifted window starts")
	}
}

func TestTransactionUnix(t *testing.T) {
	if got := (Transaction{TimeStamp: " 1438269973 "}).Unix(); got != 1438269973 {
		t.Fatalf("want 1438269973, got %d", got)
	}
	if got := (Transaction{TimeStamp: "garbled"}).Unix(); got != 0 {
		t.Fatalf("garbled timestamps must parse to zero, got %d", got)
	}
	if got := (Transaction{}).Unix(); got != 0 {
		t.Fatalf("missing timestamps must parse to zero, got %d", got)
	}
}
