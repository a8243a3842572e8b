package repositories

import (
	"context"

	"courrier-registry/internal/adapters/persistence/models"
	"courrier-registry/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const entitySuivi = "Suivi"

// suiviRepository implements SuiviRepository interface
type suiviRepository struct {
	db *gorm.DB
}

// NewSuiviRepository creates a new suivi repository
func NewSuiviRepository(db *gorm.DB) SuiviRepository {
	return &suiviRepository{db: db}
}

// Create creates a new suivi and sets its ID
func (r *suiviRepository) Create(ctx context.Context, suivi *domain.Suivi) error {
	row := models.SuiviFromDomain(suivi)
	if err := conn(ctx, r.db).Create(row).Error; err != nil {
		return domain.StorageFault("create suivi", err)
	}
	suivi.ID = row.ID
	return nil
}

// Update replaces the parent courrier, instruction, description and date
func (r *suiviRepository) Update(ctx context.Context, suivi *domain.Suivi) error {
	row := models.SuiviFromDomain(suivi)
	err := conn(ctx, r.db).Model(&models.Suivi{ID: suivi.ID}).
		Select("id_courrier", "instruction", "description", "date", "updated_at").
		Updates(row).Error
	if err != nil {
		return domain.StorageFault("update suivi", err)
	}
	return nil
}

// GetByID gets a suivi by ID
func (r *suiviRepository) GetByID(ctx context.Context, id uint) (*domain.Suivi, error) {
	var row models.Suivi
	if err := conn(ctx, r.db).First(&row, id).Error; err != nil {
		return nil, notFoundOr(err, entitySuivi, "id", id)
	}
	return row.ToDomain(), nil
}

// List lists suivis in insertion order. A negative limit returns every row.
func (r *suiviRepository) List(ctx context.Context, offset, limit int) ([]*domain.Suivi, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&models.Suivi{}).Count(&total).Error; err != nil {
		return nil, 0, domain.StorageFault("count suivis", err)
	}

	q := r.ordered(ctx)
	if limit >= 0 {
		q = q.Offset(offset).Limit(limit)
	}
	suivis, err := r.find(q)
	return suivis, total, err
}

// ListByCourrierID lists the suivis of one courrier
func (r *suiviRepository) ListByCourrierID(ctx context.Context, courrierID uint) ([]*domain.Suivi, error) {
	return r.find(r.ordered(ctx).Where("id_courrier = ?", courrierID))
}

// ListByDate lists suivis dated exactly date
func (r *suiviRepository) ListByDate(ctx context.Context, date domain.Date) ([]*domain.Suivi, error) {
	return r.find(r.ordered(ctx).Where("date = ?", datatypes.Date(date.Time)))
}

// ListByDateBetween lists suivis dated within [start, end]
func (r *suiviRepository) ListByDateBetween(ctx context.Context, start, end domain.Date) ([]*domain.Suivi, error) {
	return r.find(r.ordered(ctx).Where("date BETWEEN ? AND ?", datatypes.Date(start.Time), datatypes.Date(end.Time)))
}

// ListByInstructionContaining lists suivis whose instruction contains instruction, case-insensitively
func (r *suiviRepository) ListByInstructionContaining(ctx context.Context, instruction string) ([]*domain.Suivi, error) {
	return r.find(r.ordered(ctx).Where("LOWER(instruction) LIKE ? ESCAPE '!'", containsPattern(instruction)))
}

// Delete hard deletes a suivi
func (r *suiviRepository) Delete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.Suivi{}, id)
	if res.Error != nil {
		return domain.StorageFault("delete suivi", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(entitySuivi, "id", id)
	}
	return nil
}

// DeleteByCourrierID deletes every suivi of a courrier and returns how many were removed
func (r *suiviRepository) DeleteByCourrierID(ctx context.Context, courrierID uint) (int64, error) {
	res := conn(ctx, r.db).Where("id_courrier = ?", courrierID).Delete(&models.Suivi{})
	if res.Error != nil {
		return 0, domain.StorageFault("delete suivis", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *suiviRepository) ordered(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).Order("id ASC")
}

func (r *suiviRepository) find(q *gorm.DB) ([]*domain.Suivi, error) {
	var rows []models.Suivi
	if err := q.Find(&rows).Error; err != nil {
		return nil, domain.StorageFault("list suivis", err)
	}
	out := make([]*domain.Suivi, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
