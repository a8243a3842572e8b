package repositories

import (
	"context"
	"strings"

	"courrier-registry/internal/adapters/persistence/models"
	"courrier-registry/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const entityCourrier = "Courrier"

var courrierUniqueColumns = []uniqueColumn{
	{table: "courriers", column: "num_courrier", field: "numCourrier"},
}

// courrierRepository implements CourrierRepository interface
type courrierRepository struct {
	db *gorm.DB
}

// NewCourrierRepository creates a new courrier repository
func NewCourrierRepository(db *gorm.DB) CourrierRepository {
	return &courrierRepository{db: db}
}

// withSuivis preloads suivis in insertion order
func withSuivis(db *gorm.DB) *gorm.DB {
	return db.Preload("Suivis", func(db *gorm.DB) *gorm.DB {
		return db.Order("suivis.id ASC")
	})
}

// Create creates a new courrier and sets its ID
func (r *courrierRepository) Create(ctx context.Context, courrier *domain.Courrier) error {
	row := models.CourrierFromDomain(courrier)
	if err := conn(ctx, r.db).Omit("Suivis").Create(row).Error; err != nil {
		return translateWriteError(r.db, err, entityCourrier, courrierUniqueColumns,
			map[string]string{"numCourrier": courrier.NumCourrier})
	}
	courrier.ID = row.ID
	return nil
}

// Update replaces every editable column. pdf_file is left untouched.
func (r *courrierRepository) Update(ctx context.Context, courrier *domain.Courrier) error {
	row := models.CourrierFromDomain(courrier)
	err := conn(ctx, r.db).Model(&models.Courrier{ID: courrier.ID}).
		Select("num_courrier", "objet", "type", "nature", "destinataire", "expediteur", "date", "updated_at").
		Updates(row).Error
	return translateWriteError(r.db, err, entityCourrier, courrierUniqueColumns,
		map[string]string{"numCourrier": courrier.NumCourrier})
}

// SetPdfFile records the stored attachment name
func (r *courrierRepository) SetPdfFile(ctx context.Context, id uint, pdfFile string) error {
	err := conn(ctx, r.db).Model(&models.Courrier{ID: id}).Update("pdf_file", pdfFile).Error
	if err != nil {
		return domain.StorageFault("update courrier attachment", err)
	}
	return nil
}

// GetByID gets a courrier by ID with its suivis
func (r *courrierRepository) GetByID(ctx context.Context, id uint) (*domain.Courrier, error) {
	var row models.Courrier
	if err := withSuivis(conn(ctx, r.db)).First(&row, id).Error; err != nil {
		return nil, notFoundOr(err, entityCourrier, "id", id)
	}
	return row.ToDomain(), nil
}

// GetByNumCourrier gets a courrier by its reference number with its suivis
func (r *courrierRepository) GetByNumCourrier(ctx context.Context, numCourrier string) (*domain.Courrier, error) {
	var row models.Courrier
	err := withSuivis(conn(ctx, r.db)).Where("num_courrier = ?", numCourrier).First(&row).Error
	if err != nil {
		return nil, notFoundOr(err, entityCourrier, "number", numCourrier)
	}
	return row.ToDomain(), nil
}

// List lists courriers in insertion order. A negative limit returns every row.
func (r *courrierRepository) List(ctx context.Context, offset, limit int) ([]*domain.Courrier, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&models.Courrier{}).Count(&total).Error; err != nil {
		return nil, 0, domain.StorageFault("count courriers", err)
	}

	q := withSuivis(conn(ctx, r.db)).Order("id ASC")
	if limit >= 0 {
		q = q.Offset(offset).Limit(limit)
	}
	courriers, err := r.find(q)
	return courriers, total, err
}

// ListByType lists courriers of a type
func (r *courrierRepository) ListByType(ctx context.Context, t domain.TypeCourrier) ([]*domain.Courrier, error) {
	return r.find(r.ordered(ctx).Where("type = ?", string(t)))
}

// ListByNature lists courriers of a nature
func (r *courrierRepository) ListByNature(ctx context.Context, n domain.NatureCourrier) ([]*domain.Courrier, error) {
	return r.find(r.ordered(ctx).Where("nature = ?", string(n)))
}

// ListByDate lists courriers dated exactly date
func (r *courrierRepository) ListByDate(ctx context.Context, date domain.Date) ([]*domain.Courrier, error) {
	return r.find(r.ordered(ctx).Where("date = ?", datatypes.Date(date.Time)))
}

// ListByDateBetween lists courriers dated within [start, end]
func (r *courrierRepository) ListByDateBetween(ctx context.Context, start, end domain.Date) ([]*domain.Courrier, error) {
	return r.find(r.ordered(ctx).Where("date BETWEEN ? AND ?", datatypes.Date(start.Time), datatypes.Date(end.Time)))
}

// ListByDestinataire lists courriers with an exact recipient
func (r *courrierRepository) ListByDestinataire(ctx context.Context, destinataire string) ([]*domain.Courrier, error) {
	return r.find(r.ordered(ctx).Where("destinataire = ?", destinataire))
}

// ListByExpediteur lists courriers with an exact sender
func (r *courrierRepository) ListByExpediteur(ctx context.Context, expediteur string) ([]*domain.Courrier, error) {
	return r.find(r.ordered(ctx).Where("expediteur = ?", expediteur))
}

// ListByObjetContaining lists courriers whose subject contains objet, case-insensitively
func (r *courrierRepository) ListByObjetContaining(ctx context.Context, objet string) ([]*domain.Courrier, error) {
	return r.find(r.ordered(ctx).Where("LOWER(objet) LIKE ? ESCAPE '!'", containsPattern(objet)))
}

// ListPdfFiles returns every stored attachment name still referenced by a courrier
func (r *courrierRepository) ListPdfFiles(ctx context.Context) ([]string, error) {
	var names []string
	err := conn(ctx, r.db).Model(&models.Courrier{}).
		Where("pdf_file IS NOT NULL AND pdf_file <> ''").
		Pluck("pdf_file", &names).Error
	if err != nil {
		return nil, domain.StorageFault("list courrier attachments", err)
	}
	return names, nil
}

// ExistsByID checks if a courrier exists
func (r *courrierRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, "id = ?", id)
}

// ExistsByNumCourrier checks if a reference number is taken
func (r *courrierRepository) ExistsByNumCourrier(ctx context.Context, numCourrier string) (bool, error) {
	return r.exists(ctx, "num_courrier = ?", numCourrier)
}

// Delete hard deletes a courrier row
func (r *courrierRepository) Delete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.Courrier{}, id)
	if res.Error != nil {
		return domain.StorageFault("delete courrier", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(entityCourrier, "id", id)
	}
	return nil
}

func (r *courrierRepository) ordered(ctx context.Context) *gorm.DB {
	return withSuivis(conn(ctx, r.db)).Order("id ASC")
}

func (r *courrierRepository) find(q *gorm.DB) ([]*domain.Courrier, error) {
	var rows []models.Courrier
	if err := q.Find(&rows).Error; err != nil {
		return nil, domain.StorageFault("list courriers", err)
	}
	out := make([]*domain.Courrier, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *courrierRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Courrier{}).Where(query, args...).Count(&count).Error
	if err != nil {
		return false, domain.StorageFault("count courriers", err)
	}
	return count > 0, nil
}

// containsPattern builds a lower-cased LIKE pattern matching s anywhere,
// escaping LIKE wildcards with '!'. MySQL and Postgres fold non-ASCII letters
// in LOWER(); SQLite only folds A-Z, so there accented letters match their
// own case only.
func containsPattern(s string) string {
	escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(strings.ToLower(s))
	return "%" + escaped + "%"
}
