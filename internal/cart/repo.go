package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
)

// Repository exposes persistence operations for cart staging data. A cart
// entry always owns an unpaid ticket, so the repo manages both rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateTicket inserts the unpaid ticket backing a cart entry.
func (r *Repository) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// CreateEntry inserts a new cart entry.
func (r *Repository) CreateEntry(ctx context.Context, entry *models.CartEntry) (*models.CartEntry, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// FindEntryByIDAndUser returns a cart entry restricted to the provided user.
func (r *Repository) FindEntryByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartEntry, error) {
	var entry models.CartEntry
	err := r.db.WithContext(ctx).
		Preload("Ticket").
		Where("id = ? AND user_id = ?", id, userID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByUser returns the user's cart entries in checkout order.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {
	var rows []models.CartEntry
	err := r.db.WithContext(ctx).
		Preload("Nyxcipher").
		Preload("Nyxcipher.Item").
		Preload("Ticket").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteEntry removes a cart entry by id.
func (r *Repository) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartEntry{}, "id = ?", id).Error
}

// DeleteUnpaidTicket removes the entry's ticket while no payment references it.
func (r *Repository) DeleteUnpaidTicket(ctx context.Context, ticketID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND payment_id IS NULL", ticketID).
		Delete(&models.Ticket{}).Error
}
