package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestIssue_OverdueClassification(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		issue Issue
		want  bool
	}{
		{"past_due_unreturned", Issue{DueDate: "2026-03-01", Returned: false}, true},
		{"future_due_unreturned", Issue{DueDate: "2026-04-01", Returned: false}, false},
		{"past_due_returned", Issue{DueDate: "2026-03-01", Returned: true, ReturnDate: "2026-03-20"}, false},
		{"rfc3339_due", Issue{DueDate: "2026-03-01T00:00:00Z", Returned: false}, true},
		{"missing_due", Issue{Returned: false}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.issue.Overdue(now); got != tc.want {
				t.Fatalf("Overdue() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIssue_FineParsesDecimalString(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12.50", 12.50},
		{"0.00", 0},
		{"", 0},
		{"not-a-number", 0},
	}
	for _, tc := range cases {
		issue := Issue{FineAmount: tc.in}
		if got := issue.Fine(); got != tc.want {
			t.Fatalf("Fine(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBook_AbsentCountsDecodeToZero(t *testing.T) {
	var book Book
	payload := `{"id": 7, "title": "Sparse", "authors": []}`
	if err := json.Unmarshal([]byte(payload), &book); err != nil {
		t.Fatalf("unmarshal returned error: %v", err)
	}
	if book.AvailableCopies != 0 || book.TotalCopies != 0 {
		t.Fatalf("counts = %d/%d, want 0/0", book.AvailableCopies, book.TotalCopies)
	}
	if book.Available() {
		t.Fatal("Available() = true for zero copies, want false")
	}
}

func TestBook_AuthorNames(t *testing.T) {
	book := Book{Authors: []Author{{Name: "J.R.R. Tolkien"}, {Name: ""}, {Name: "Christopher Tolkien"}}}
	want := "J.R.R. Tolkien, Christopher Tolkien"
	if got := book.AuthorNames(); got != want {
		t.Fatalf("AuthorNames() = %q, want %q", got, want)
	}
}

func TestReservation_Cancellable(t *testing.T) {
	for status, want := range map[string]bool{
		ReservationPending:   true,
		ReservationFulfilled: false,
		ReservationCancelled: false,
	} {
		r := Reservation{Status: status}
		if got := r.Cancellable(); got != want {
			t.Fatalf("Cancellable(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestUser_DisplayName(t *testing.T) {
	u := User{Username: "asmith", FirstName: "Alice", LastName: "Smith"}
	if got := u.DisplayName(); got != "Alice Smith" {
		t.Fatalf("DisplayName() = %q, want Alice Smith", got)
	}
	u = User{Username: "asmith"}
	if got := u.DisplayName(); got != "asmith" {
		t.Fatalf("DisplayName() fallback = %q, want asmith", got)
	}
}

func TestParseDate_Formats(t *testing.T) {
	if got := ParseDate("2026-03-15"); got.IsZero() {
		t.Fatal("date-only layout should parse")
	}
	if got := ParseDate("2026-03-15T09:30:00Z"); got.IsZero() {
		t.Fatal("RFC 3339 layout should parse")
	}
	if got := ParseDate("15/03/2026"); !got.IsZero() {
		t.Fatalf("unknown layout should yield zero time, got %v", got)
	}
	if got := ParseDate(""); !got.IsZero() {
		t.Fatalf("empty input should yield zero time, got %v", got)
	}
}
