package domain

import "time"

// FiscalYear delimits one accounting period of a user's books.
type FiscalYear struct {
	FiscalYearID string    `json:"fiscalYearID"` // Primary key (UUID)
	UserID       string    `json:"userID"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	AuditFields
}

// Contains reports whether the date falls inside the fiscal year, inclusive
// on both ends at day granularity.
func (f *FiscalYear) Contains(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(f.From.Truncate(24*time.Hour)) && !d.After(f.To.Truncate(24*time.Hour))
}
