package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Subscription is a recurring delivery commitment: a fixed quantity delivered
// on a set of weekdays, every IntervalWeeks weeks, within a validity window.
type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(10,2);not null"` // grams per delivery
	// Weekdays stores time.Weekday numbers as CSV, e.g. "1,3,5" = Mon/Wed/Fri.
	Weekdays      string     `gorm:"not null"`
	IntervalWeeks int        `gorm:"not null;default:1"`
	ValidFrom     time.Time  `gorm:"type:date;not null"`
	ValidUntil    *time.Time `gorm:"type:date"`
	Active        bool       `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
	Product  *Product  `gorm:"foreignKey:ProductID"`
}

// WeekdaySet parses the CSV weekday column. Malformed entries are skipped.
func (s *Subscription) WeekdaySet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s.Weekdays, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		set[time.Weekday(n)] = true
	}
	return set
}

// CoversDate reports whether the subscription delivers on the given date:
// the date falls in the validity window, its weekday is in the delivery set,
// and the week matches the interval cadence anchored at ValidFrom's week.
func (s *Subscription) CoversDate(date time.Time) bool {
	if date.Before(startOfDay(s.ValidFrom)) {
		return false
	}
	if s.ValidUntil != nil && date.After(startOfDay(*s.ValidUntil)) {
		return false
	}
	if !s.WeekdaySet()[date.Weekday()] {
		return false
	}
	interval := s.IntervalWeeks
	if interval <= 1 {
		return true
	}
	anchor := startOfWeek(s.ValidFrom)
	weeks := int(startOfWeek(date).Sub(anchor).Hours() / (24 * 7))
	return weeks%interval == 0
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday 00:00 of the week containing t.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
