// Package entity defines the domain entities for the tender feature.
package entity

import "time"

// DateLayout is the wire format of Deadline.
const DateLayout = "2006-01-02"

// Tender is a procurement opportunity posted by a publisher.
type Tender struct {
	ID          uint
	PublisherID uint

	Title       string
	Description string
	// Deadline is a calendar date at UTC midnight.
	Deadline time.Time
	// Value is free text such as "USD 10k-20k".
	Value    string
	Category string
	Region   string

	ContactPersonName   string
	ContactPersonNumber string
	ContactPersonEmail  string
	CompanyWebsite      string

	Requirements []string

	// FilePath is set once at creation and never changes.
	FilePath               string
	AdvertisementImagePath string
	// TenderText is the text extracted from the document at creation.
	TenderText string

	ViewCount int
	BidCount  int
	CreatedAt time.Time
}

// Closed reports whether the deadline lies before the calendar day of now.
func (t *Tender) Closed(now time.Time) bool {
	y, m, d := now.UTC().Date()
	return t.Deadline.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ListFilter narrows a tender listing. Zero values mean "any".
type ListFilter struct {
	PublisherID *uint
	Category    string
	Region      string
	Limit       int
	Offset      int
}
