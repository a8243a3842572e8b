package services

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"courrier-registry/internal/adapters/persistence/repositories"
	"courrier-registry/internal/adapters/storage"
	"courrier-registry/internal/core/domain"
	"courrier-registry/internal/pkg/validator"
)

const entityCourrier = "Courrier"

// CourrierInput is the editable part of a courrier, as sent by clients
type CourrierInput struct {
	NumCourrier  string                `json:"numCourrier" validate:"required,notblank,max=100"`
	Objet        string                `json:"objet" validate:"required,notblank,max=255"`
	Type         domain.TypeCourrier   `json:"type" validate:"required,oneof=INTERNE EXTERNE"`
	Nature       domain.NatureCourrier `json:"nature" validate:"required,oneof=ARRIVE DEPART"`
	Destinataire string                `json:"destinataire" validate:"required,notblank,max=255"`
	Expediteur   string                `json:"expediteur" validate:"required,notblank,max=255"`
	Date         domain.Date           `json:"date" validate:"required"`
}

// CourrierService handles courrier business logic
type CourrierService struct {
	courriers repositories.CourrierRepository
	suivis    repositories.SuiviRepository
	tx        repositories.Transactor
	store     storage.AttachmentStore
	validator *validator.Validator
	now       func() time.Time
}

// NewCourrierService creates a new courrier service
func NewCourrierService(
	courriers repositories.CourrierRepository,
	suivis repositories.SuiviRepository,
	tx repositories.Transactor,
	store storage.AttachmentStore,
	v *validator.Validator,
) *CourrierService {
	return &CourrierService{
		courriers: courriers,
		suivis:    suivis,
		tx:        tx,
		store:     store,
		validator: v,
		now:       time.Now,
	}
}

// Create registers a new courrier. The reference number must be unused.
func (s *CourrierService) Create(ctx context.Context, in CourrierInput) (*domain.Courrier, error) {
	if err := s.validator.Check(in); err != nil {
		return nil, err
	}

	courrier := &domain.Courrier{}
	in.applyTo(courrier)

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		exists, err := s.courriers.ExistsByNumCourrier(ctx, in.NumCourrier)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict(entityCourrier, "numCourrier", in.NumCourrier)
		}
		// the unique index still guards concurrent inserts
		return s.courriers.Create(ctx, courrier)
	})
	if err != nil {
		return nil, err
	}

	courrier.Suivis = []*domain.Suivi{}
	return courrier, nil
}

// Update replaces every editable field of a courrier. The attachment is kept.
func (s *CourrierService) Update(ctx context.Context, id uint, in CourrierInput) (*domain.Courrier, error) {
	if err := s.validator.Check(in); err != nil {
		return nil, err
	}

	var updated *domain.Courrier
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.courriers.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if current.NumCourrier != in.NumCourrier {
			exists, err := s.courriers.ExistsByNumCourrier(ctx, in.NumCourrier)
			if err != nil {
				return err
			}
			if exists {
				return domain.Conflict(entityCourrier, "numCourrier", in.NumCourrier)
			}
		}

		in.applyTo(current)
		if err := s.courriers.Update(ctx, current); err != nil {
			return err
		}

		updated, err = s.courriers.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetByID gets a courrier with its suivis
func (s *CourrierService) GetByID(ctx context.Context, id uint) (*domain.Courrier, error) {
	return s.courriers.GetByID(ctx, id)
}

// GetByNumCourrier gets a courrier by reference number
func (s *CourrierService) GetByNumCourrier(ctx context.Context, numCourrier string) (*domain.Courrier, error) {
	return s.courriers.GetByNumCourrier(ctx, numCourrier)
}

// List lists courriers. A negative limit returns all of them.
func (s *CourrierService) List(ctx context.Context, offset, limit int) ([]*domain.Courrier, int64, error) {
	return s.courriers.List(ctx, offset, limit)
}

// ListByType lists courriers of one type
func (s *CourrierService) ListByType(ctx context.Context, t domain.TypeCourrier) ([]*domain.Courrier, error) {
	return s.courriers.ListByType(ctx, t)
}

// ListByNature lists courriers of one nature
func (s *CourrierService) ListByNature(ctx context.Context, n domain.NatureCourrier) ([]*domain.Courrier, error) {
	return s.courriers.ListByNature(ctx, n)
}

// ListByDate lists courriers of one day
func (s *CourrierService) ListByDate(ctx context.Context, date domain.Date) ([]*domain.Courrier, error) {
	return s.courriers.ListByDate(ctx, date)
}

// ListByDateBetween lists courriers dated within [start, end]. An inverted range is empty.
func (s *CourrierService) ListByDateBetween(ctx context.Context, start, end domain.Date) ([]*domain.Courrier, error) {
	if start.After(end.Time) {
		return []*domain.Courrier{}, nil
	}
	return s.courriers.ListByDateBetween(ctx, start, end)
}

// ListByDestinataire lists courriers sent to exactly destinataire
func (s *CourrierService) ListByDestinataire(ctx context.Context, destinataire string) ([]*domain.Courrier, error) {
	return s.courriers.ListByDestinataire(ctx, destinataire)
}

// ListByExpediteur lists courriers sent by exactly expediteur
func (s *CourrierService) ListByExpediteur(ctx context.Context, expediteur string) ([]*domain.Courrier, error) {
	return s.courriers.ListByExpediteur(ctx, expediteur)
}

// ListByObjetContaining lists courriers whose subject contains objet, ignoring case
func (s *CourrierService) ListByObjetContaining(ctx context.Context, objet string) ([]*domain.Courrier, error) {
	return s.courriers.ListByObjetContaining(ctx, objet)
}

// ExistsByNumCourrier reports whether a reference number is taken
func (s *CourrierService) ExistsByNumCourrier(ctx context.Context, numCourrier string) (bool, error) {
	return s.courriers.ExistsByNumCourrier(ctx, numCourrier)
}

// Delete removes a courrier and its suivis in one transaction
func (s *CourrierService) Delete(ctx context.Context, id uint) error {
	return s.tx.Do(ctx, func(ctx context.Context) error {
		exists, err := s.courriers.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NotFound(entityCourrier, "id", id)
		}

		n, err := s.suivis.DeleteByCourrierID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Printf("🗑️ Deleting courrier %d with %d suivi(s)", id, n)
		}
		return s.courriers.Delete(ctx, id)
	})
}

// UploadAttachment stores data as the courrier's attachment. The bytes are
// written first; the row only references them once they are durable.
func (s *CourrierService) UploadAttachment(ctx context.Context, id uint, data []byte, filename string) (*domain.Courrier, error) {
	courrier, err := s.courriers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.InvalidField("file", "file is empty")
	}

	name := AttachmentName(courrier.NumCourrier, s.now(), filename)
	if err := s.store.Save(ctx, name, data); err != nil {
		return nil, domain.StorageFault("save attachment", err)
	}

	if err := s.courriers.SetPdfFile(ctx, id, name); err != nil {
		if delErr := s.store.Delete(ctx, name); delErr != nil {
			log.Printf("⚠️ Failed to remove orphaned attachment %s: %v", name, delErr)
		}
		return nil, err
	}

	return s.courriers.GetByID(ctx, id)
}

// AttachmentName builds the stored name {numCourrier}_{unixMillis}_{filename}.
// Directory parts of filename are dropped and unsafe characters become '_'.
func AttachmentName(numCourrier string, at time.Time, filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	filename = sanitizeName(filename)
	if filename == "" || strings.Trim(filename, ".") == "" {
		filename = "document.pdf"
	}
	return sanitizeName(numCourrier) + "_" + strconv.FormatInt(at.UnixMilli(), 10) + "_" + filename
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

func (in CourrierInput) applyTo(c *domain.Courrier) {
	c.NumCourrier = in.NumCourrier
	c.Objet = in.Objet
	c.Type = in.Type
	c.Nature = in.Nature
	c.Destinataire = in.Destinataire
	c.Expediteur = in.Expediteur
	c.Date = in.Date
}
