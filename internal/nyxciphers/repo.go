package nyxciphers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nyxoasis/oasis-backend/pkg/db/models"
	"github.com/nyxoasis/oasis-backend/pkg/enums"
)

// Repository exposes persistence operations for draws.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a nyxcipher repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) NyxcipherRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new draw.
func (r *Repository) Create(ctx context.Context, nyxcipher *models.Nyxcipher) (*models.Nyxcipher, error) {
	if err := r.db.WithContext(ctx).Create(nyxcipher).Error; err != nil {
		return nil, err
	}
	return nyxcipher, nil
}

// FindByID loads a draw with its item, sponsor and winner attached.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Nyxcipher, error) {
	var row models.Nyxcipher
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Sponsor").
		Preload("Winner").
		Preload("WinningTicket").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns every non-draft draw, newest first. Drafts surface only
// through their sponsor's scoped listings.
func (r *Repository) List(ctx context.Context) ([]models.Nyxcipher, error) {
	var rows []models.Nyxcipher
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("status <> ?", enums.NyxcipherStatusDraft).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStatus returns draws filtered on lifecycle status, newest first.
func (r *Repository) ListByStatus(ctx context.Context, status enums.NyxcipherStatus) ([]models.Nyxcipher, error) {
	var rows []models.Nyxcipher
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Sponsor").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListWinners returns closed draws that have a winner attached.
func (r *Repository) ListWinners(ctx context.Context) ([]models.Nyxcipher, error) {
	var rows []models.Nyxcipher
	err := r.db.WithContext(ctx).
		Preload("Item").
		Preload("Winner").
		Preload("WinningTicket").
		Where("status = ? AND winner_id IS NOT NULL", enums.NyxcipherStatusClosed).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBySponsor returns draws owned by the sponsor, newest first.
func (r *Repository) ListBySponsor(ctx context.Context, sponsorID uuid.UUID) ([]models.Nyxcipher, error) {
	var rows []models.Nyxcipher
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("sponsor_id = ?", sponsorID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDAndSponsor returns a draw restricted to the provided sponsor.
func (r *Repository) FindByIDAndSponsor(ctx context.Context, id, sponsorID uuid.UUID) (*models.Nyxcipher, error) {
	var row models.Nyxcipher
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("id = ? AND sponsor_id = ?", id, sponsorID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Save persists the full draw record.
func (r *Repository) Save(ctx context.Context, nyxcipher *models.Nyxcipher) (*models.Nyxcipher, error) {
	if err := r.db.WithContext(ctx).Save(nyxcipher).Error; err != nil {
		return nil, err
	}
	return nyxcipher, nil
}

// MarkTicketWinning flags the draw's winning ticket row.
func (r *Repository) MarkTicketWinning(ctx context.Context, ticketID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", ticketID).
		Update("winning_ticket", true).Error
}

// Delete removes the draw by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Nyxcipher{}, "id = ?", id).Error
}
