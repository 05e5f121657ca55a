package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nyxoasis/oasis-backend/pkg/enums"
)

// Nyxcipher is a single raffle draw awarding an Item. Status moves
// draft -> active -> closed; once closed an administrative action may attach
// the winner together with the winning ticket.
type Nyxcipher struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string                  `gorm:"column:name;not null"`
	Category         enums.NyxcipherCategory `gorm:"column:category;type:text;not null;default:'other'"`
	Status           enums.NyxcipherStatus   `gorm:"column:status;type:text;not null;default:'draft'"`
	ItemID           uuid.UUID               `gorm:"column:item_id;type:uuid;not null"`
	Item             *Item                   `gorm:"foreignKey:ItemID"`
	SponsorID        uuid.UUID               `gorm:"column:sponsor_id;type:uuid;not null"`
	Sponsor          *User                   `gorm:"foreignKey:SponsorID"`
	CharityRecipient *string                 `gorm:"column:charity_recipient"`
	WinnerID         *uuid.UUID              `gorm:"column:winner_id;type:uuid"`
	Winner           *User                   `gorm:"foreignKey:WinnerID"`
	WinningTicketID  *uuid.UUID              `gorm:"column:winning_ticket_id;type:uuid"`
	WinningTicket    *Ticket                 `gorm:"foreignKey:WinningTicketID"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
