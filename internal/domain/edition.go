package domain

import (
	"fmt"
	"time"
)

type EditionType string

const (
	EditionMorning EditionType = "morning"
	EditionEvening EditionType = "evening"
)

func (t EditionType) Valid() bool {
	return t == EditionMorning || t == EditionEvening
}

type EditionStatus string

const (
	EditionDraft     EditionStatus = "draft"
	EditionPublished EditionStatus = "published"
)

// DateLayout is the calendar date format used for edition identity.
const DateLayout = "2006-01-02"

// Slot is the identity of an edition: one per type and calendar date.
type Slot struct {
	Type EditionType `json:"type"`
	Date string      `json:"date"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%s/%s", s.Type, s.Date)
}

// SlotAt computes the slot for the given instant. Times before cutoverHour in
// loc belong to the morning edition, the rest to the evening edition.
func SlotAt(now time.Time, loc *time.Location, cutoverHour int) Slot {
	local := now.In(loc)
	typ := EditionEvening
	if local.Hour() < cutoverHour {
		typ = EditionMorning
	}
	return Slot{Type: typ, Date: local.Format(DateLayout)}
}

// ParseSlot validates a type and date pair taken from user input.
func ParseSlot(typ, date string) (Slot, error) {
	t := EditionType(typ)
	if !t.Valid() {
		return Slot{}, fmt.Errorf("invalid edition type %q", typ)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Slot{}, fmt.Errorf("invalid edition date %q: %w", date, err)
	}
	return Slot{Type: t, Date: date}, nil
}

type Edition struct {
	ID          int64         `json:"id" db:"id"`
	Type        EditionType   `json:"type" db:"type"`
	Date        string        `json:"date" db:"date"`
	Status      EditionStatus `json:"status" db:"status"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
}

func (e Edition) Slot() Slot {
	return Slot{Type: e.Type, Date: e.Date}
}
