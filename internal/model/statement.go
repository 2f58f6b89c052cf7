package model

import "time"

// Statement groups the bank ledger lines of one day.
type Statement struct {
	ID      uint             `gorm:"primaryKey"`
	Date    time.Time        `gorm:"not null;uniqueIndex"`
	Entries []StatementEntry `gorm:"foreignKey:StatementID;constraint:OnDelete:CASCADE"`
}

// StatementEntry is one bank ledger line. Value is signed: negative = outcome.
type StatementEntry struct {
	ID          uint     `gorm:"primaryKey"`
	StatementID uint     `gorm:"not null;index"`
	Name        string   `gorm:"not null"`
	Value       int64    `gorm:"not null"`
	Category    Category `gorm:"not null;index"`
}
