package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
)

// Repository exposes persistence operations for the payment ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) PaymentRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new payment record.
func (r *Repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// FindByID loads a payment by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var row models.Payment
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDAndBuyer returns a payment restricted to the provided buyer.
func (r *Repository) FindByIDAndBuyer(ctx context.Context, id, buyerID uuid.UUID) (*models.Payment, error) {
	var row models.Payment
	err := r.db.WithContext(ctx).
		Preload("Nyxcipher").
		Preload("Nyxcipher.Item").
		Preload("Ticket").
		Where("id = ? AND buyer_id = ?", id, buyerID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByBuyer returns the buyer's payments, most recent purchase first.
func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).
		Preload("Nyxcipher").
		Preload("Nyxcipher.Item").
		Preload("Ticket").
		Where("buyer_id = ?", buyerID).
		Order("purchase_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Save persists the full payment record.
func (r *Repository) Save(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// Delete removes the payment by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id).Error
}
