package api

import (
	"strconv"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// User type values as the service reports them.
const (
	UserTypeStudent  = "student"
	UserTypeStaff    = "staff"
	UserTypeExternal = "external"
)

// Reservation status values as the service reports them.
const (
	ReservationPending   = "pending"
	ReservationFulfilled = "fulfilled"
	ReservationCancelled = "cancelled"
)

// User mirrors the profile payload from /users/me/.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	IsStaff   bool   `json:"is_staff"`
}

// DisplayName returns the full name, falling back to the username.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Author describes a book author.
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

// Category describes a catalog category.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Publisher describes a book publisher.
type Publisher struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

// Book mirrors the catalog payload from /books/. The copy counts are derived
// by the service; a payload that omits them decodes to zero, which the UI
// treats as "no copies available" rather than an error.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	ISBN            string    `json:"isbn"`
	PublicationYear int       `json:"publication_year"`
	Language        string    `json:"language"`
	Description     string    `json:"description,omitempty"`
	CoverImage      string    `json:"cover_image,omitempty"`
	TotalPages      int       `json:"total_pages,omitempty"`
	Authors         []Author  `json:"authors"`
	Category        Category  `json:"category"`
	Publisher       Publisher `json:"publisher"`
	AvailableCopies int       `json:"available_copies_count"`
	TotalCopies     int       `json:"total_copies_count"`
	CreatedAt       string    `json:"created_at,omitempty"`
	UpdatedAt       string    `json:"updated_at,omitempty"`
}

// AuthorNames joins the author names for display.
func (b Book) AuthorNames() string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		if strings.TrimSpace(a.Name) != "" {
			names = append(names, a.Name)
		}
	}
	return strings.Join(names, ", ")
}

// Available reports whether at least one copy can be issued.
func (b Book) Available() bool {
	return b.AvailableCopies > 0
}

// IssueCopy is the expanded copy record embedded in an issue.
type IssueCopy struct {
	ID          int64  `json:"id"`
	Book        Book   `json:"book"`
	CopyNumber  string `json:"copy_number"`
	IsAvailable bool   `json:"is_available"`
}

// Issue is a loan record linking a user to a physical copy.
type Issue struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user"`
	BookCopyID  int64      `json:"book_copy"`
	BookCopy    *IssueCopy `json:"book_copy_details,omitempty"`
	IssueDate   string     `json:"issue_date"`
	DueDate     string     `json:"due_date"`
	ReturnDate  string     `json:"return_date,omitempty"`
	Returned    bool       `json:"returned"`
	FineAmount  string     `json:"fine_amount"`
	Notes       string     `json:"notes,omitempty"`
}

// Overdue reports whether the issue is past due and still out. A returned
// issue is never overdue regardless of its due date.
func (i Issue) Overdue(now time.Time) bool {
	if i.Returned {
		return false
	}
	due := ParseDate(i.DueDate)
	if due.IsZero() {
		return false
	}
	return due.Before(now)
}

// Fine returns the fine amount as a number. The service serializes decimals
// as strings; unparseable or empty values count as zero.
func (i Issue) Fine() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(i.FineAmount), 64)
	if err != nil {
		return 0
	}
	return v
}

// BookTitle returns the borrowed book's title when the copy details are
// expanded, or a placeholder keyed by the copy id.
func (i Issue) BookTitle() string {
	if i.BookCopy != nil && strings.TrimSpace(i.BookCopy.Book.Title) != "" {
		return i.BookCopy.Book.Title
	}
	return "Copy #" + strconv.FormatInt(i.BookCopyID, 10)
}

// Reservation is a hold placed against a title, independent of any copy.
type Reservation struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user"`
	BookID     int64  `json:"book"`
	Book       *Book  `json:"book_details,omitempty"`
	CreatedAt  string `json:"created_at"`
	Status     string `json:"status"`
	ExpiryDate string `json:"expiry_date,omitempty"`
}

// Cancellable reports whether the owning user may still cancel the hold.
func (r Reservation) Cancellable() bool {
	return r.Status == ReservationPending
}

// BookTitle returns the reserved book's title when expanded.
func (r Reservation) BookTitle() string {
	if r.Book != nil && strings.TrimSpace(r.Book.Title) != "" {
		return r.Book.Title
	}
	return "Book #" + strconv.FormatInt(r.BookID, 10)
}

// TokenPair holds the opaque bearer credentials returned by /login/.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterPayload is the new-account submission for POST /users/.
type RegisterPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// ParseDate parses service timestamps. The API emits RFC 3339 for audit
// fields and bare dates for circulation fields; unknown formats yield the
// zero time.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, dateOnlyLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
