package models

import "time"

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber int       `gorm:"uniqueIndex" json:"table_number"`
	QRCode      string    `gorm:"uniqueIndex" json:"qr_code"`
	Seats       int       `json:"seats"`
	CreatedAt   time.Time `json:"created_at"`
}
