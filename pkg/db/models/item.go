package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Item describes what a draw awards. Pure metadata; ticket pricing derives
// from Value at the moment a cart entry is created.
type Item struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Summary        *string         `gorm:"column:summary"`
	Value          decimal.Decimal `gorm:"column:value;type:numeric(14,2);not null"`
	Highlights     pq.StringArray  `gorm:"column:highlights;type:text[]"`
	Specifications *string         `gorm:"column:specifications"`
	Features       *string         `gorm:"column:features"`
	Thumbnail      *string         `gorm:"column:thumbnail"`
	Images         pq.StringArray  `gorm:"column:images;type:text[]"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
