package model

import "time"

// ShiftReport is one cash-register shift, unique on (Employee, StartTime).
// Shift is the 0-based position of the shift among the reports of the same
// file, ordered by start time.
type ShiftReport struct {
	ID        uint       `gorm:"primaryKey"`
	Shift     int        `gorm:"not null"`
	Employee  string     `gorm:"not null;uniqueIndex:idx_report_employee_start"`
	StartTime time.Time  `gorm:"not null;uniqueIndex:idx_report_employee_start"`
	EndTime   time.Time  `gorm:"not null"`
	Finishers []Finisher `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

// EventDate is the calendar day the shift started on.
func (r ShiftReport) EventDate() time.Time {
	y, m, d := r.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Finisher is the subtotal of one payment method at the close of a shift.
// Category, SettlementDate and NetValue are derived from Name, Value and the
// referenced report; they are written in the same transaction as the raw fields.
type Finisher struct {
	ID             uint       `gorm:"primaryKey"`
	ReportID       uint       `gorm:"not null;uniqueIndex:idx_finisher_report_name"`
	Name           string     `gorm:"not null;uniqueIndex:idx_finisher_report_name"`
	Value          int64      `gorm:"not null"` // minor units
	Category       Category   `gorm:"not null;index"`
	SettlementDate *time.Time `gorm:"index"` // nil = never posts to the bank
	NetValue       int64      `gorm:"not null"`
}
