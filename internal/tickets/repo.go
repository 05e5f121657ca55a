package tickets

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
)

// Repository exposes persistence operations for tickets.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ticket repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) TicketRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new ticket.
func (r *Repository) Create(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// FindByID loads a ticket by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var row models.Ticket
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDAndBuyer returns a ticket restricted to the provided buyer.
func (r *Repository) FindByIDAndBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Ticket, error) {
	var row models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Nyxcipher").
		Where("id = ? AND buyer_id = ?", id, buyerID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByBuyer returns the buyer's tickets, newest first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Ticket, error) {
	var rows []models.Ticket
	err := r.db.WithContext(ctx).
		Preload("Nyxcipher").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByBuyerAndNyxcipher returns the buyer's tickets within one draw.
func (r *Repository) ListByBuyerAndNyxcipher(ctx context.Context, buyerID, nyxcipherID uuid.UUID) ([]models.Ticket, error) {
	var rows []models.Ticket
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND nyxcipher_id = ?", buyerID, nyxcipherID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Save persists the full ticket record.
func (r *Repository) Save(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if err := r.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// StampPayment attaches the payment and assigned numbers to an unpaid ticket.
func (r *Repository) StampPayment(ctx context.Context, id, paymentID uuid.UUID, numbers pq.Int64Array) error {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND payment_id IS NULL", id).
		Updates(map[string]any{
			"payment_id":       paymentID,
			"assigned_numbers": numbers,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteUnpaid removes a ticket only while no payment references it.
func (r *Repository) DeleteUnpaid(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND payment_id IS NULL", id).
		Delete(&models.Ticket{}).Error
}

// Delete removes the ticket by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Ticket{}, "id = ?", id).Error
}
