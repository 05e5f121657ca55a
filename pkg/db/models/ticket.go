package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Ticket is a buyer's claim of TicketCount numbers within one draw.
// PaymentID stays null while the ticket sits in a cart; checkout stamps it
// exactly once together with the assigned numbers.
type Ticket struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	NyxcipherID     uuid.UUID       `gorm:"column:nyxcipher_id;type:uuid;not null"`
	Nyxcipher       *Nyxcipher      `gorm:"foreignKey:NyxcipherID"`
	BuyerID         uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null"`
	Buyer           *User           `gorm:"foreignKey:BuyerID"`
	TicketCount     int             `gorm:"column:ticket_count;not null"`
	TicketPrice     decimal.Decimal `gorm:"column:ticket_price;type:numeric(14,2);not null"`
	PaymentID       *uuid.UUID      `gorm:"column:payment_id;type:uuid"`
	Payment         *Payment        `gorm:"foreignKey:PaymentID"`
	AssignedNumbers pq.Int64Array   `gorm:"column:assigned_numbers;type:bigint[]"`
	WinningTicket   bool            `gorm:"column:winning_ticket;not null;default:false"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
