package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/nyxoasis/oasis-backend/pkg/enums"
)

// Payment is the durable record of a completed ticket purchase, created
// exactly once per ticket at checkout. AssignedNumbers duplicates the
// ticket's numbers for audit.
type Payment struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID         uuid.UUID              `gorm:"column:buyer_id;type:uuid;not null"`
	Buyer           *User                  `gorm:"foreignKey:BuyerID"`
	NyxcipherID     uuid.UUID              `gorm:"column:nyxcipher_id;type:uuid;not null"`
	Nyxcipher       *Nyxcipher             `gorm:"foreignKey:NyxcipherID"`
	TicketID        uuid.UUID              `gorm:"column:ticket_id;type:uuid;not null;uniqueIndex"`
	Ticket          *Ticket                `gorm:"foreignKey:TicketID"`
	PurchaseDate    time.Time              `gorm:"column:purchase_date;not null"`
	AssignedNumbers pq.Int64Array          `gorm:"column:assigned_numbers;type:bigint[]"`
	AmountPaid      decimal.Decimal        `gorm:"column:amount_paid;type:numeric(14,2);not null"`
	Processor       enums.PaymentProcessor `gorm:"column:processor;type:text;not null"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
