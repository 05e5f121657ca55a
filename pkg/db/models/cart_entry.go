package models

import (
	"time"

	"github.com/google/uuid"
)

// CartEntry is a pending, unpaid intent to purchase a Ticket. Entries are
// iterated in created_at order at checkout and deleted the moment their
// payment commits.
type CartEntry struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	NyxcipherID uuid.UUID  `gorm:"column:nyxcipher_id;type:uuid;not null"`
	Nyxcipher   *Nyxcipher `gorm:"foreignKey:NyxcipherID"`
	TicketID    uuid.UUID  `gorm:"column:ticket_id;type:uuid;not null"`
	Ticket      *Ticket    `gorm:"foreignKey:TicketID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
