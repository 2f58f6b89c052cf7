package model

import "time"

// Verification is the reconciliation snapshot of one (category, date) bucket.
// A reconciliation pass replaces the whole row and resets IsVerified;
// confirming a bucket is left to a reviewer.
type Verification struct {
	Category       Category  `gorm:"primaryKey"`
	Date           time.Time `gorm:"primaryKey"`
	VerifiedOn     time.Time `gorm:"not null"`
	IsVerified     bool      `gorm:"not null"`
	FinisherTotal  int64     `gorm:"not null"`
	StatementTotal int64     `gorm:"not null"`
}

// Matched reports whether both feeds agree on the bucket total.
func (v Verification) Matched() bool {
	return v.FinisherTotal == v.StatementTotal
}

// Difference is the statement total minus the finisher total.
func (v Verification) Difference() int64 {
	return v.StatementTotal - v.FinisherTotal
}
