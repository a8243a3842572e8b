package services

import (
	"context"

	"courrier-registry/internal/adapters/persistence/repositories"
	"courrier-registry/internal/core/domain"
	"courrier-registry/internal/pkg/validator"
)

// SuiviInput is the editable part of a suivi, as sent by clients
type SuiviInput struct {
	CourrierID  uint        `json:"courrierId" validate:"required"`
	Instruction string      `json:"instruction" validate:"required,notblank,max=255"`
	Description string      `json:"description"`
	Date        domain.Date `json:"date" validate:"required"`
}

// SuiviService handles follow-up business logic
type SuiviService struct {
	suivis    repositories.SuiviRepository
	courriers repositories.CourrierRepository
	tx        repositories.Transactor
	validator *validator.Validator
}

// NewSuiviService creates a new suivi service
func NewSuiviService(
	suivis repositories.SuiviRepository,
	courriers repositories.CourrierRepository,
	tx repositories.Transactor,
	v *validator.Validator,
) *SuiviService {
	return &SuiviService{
		suivis:    suivis,
		courriers: courriers,
		tx:        tx,
		validator: v,
	}
}

// Create adds a suivi to an existing courrier
func (s *SuiviService) Create(ctx context.Context, in SuiviInput) (*domain.Suivi, error) {
	if err := s.validator.Check(in); err != nil {
		return nil, err
	}

	suivi := &domain.Suivi{}
	in.applyTo(suivi)

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.requireCourrier(ctx, in.CourrierID); err != nil {
			return err
		}
		return s.suivis.Create(ctx, suivi)
	})
	if err != nil {
		return nil, err
	}
	return suivi, nil
}

// Update replaces a suivi's fields. Moving it to another courrier requires
// that courrier to exist.
func (s *SuiviService) Update(ctx context.Context, id uint, in SuiviInput) (*domain.Suivi, error) {
	if err := s.validator.Check(in); err != nil {
		return nil, err
	}

	var suivi *domain.Suivi
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.suivis.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.CourrierID != in.CourrierID {
			if err := s.requireCourrier(ctx, in.CourrierID); err != nil {
				return err
			}
		}

		in.applyTo(current)
		if err := s.suivis.Update(ctx, current); err != nil {
			return err
		}
		suivi = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return suivi, nil
}

// GetByID gets a suivi by ID
func (s *SuiviService) GetByID(ctx context.Context, id uint) (*domain.Suivi, error) {
	return s.suivis.GetByID(ctx, id)
}

// List lists suivis. A negative limit returns all of them.
func (s *SuiviService) List(ctx context.Context, offset, limit int) ([]*domain.Suivi, int64, error) {
	return s.suivis.List(ctx, offset, limit)
}

// ListByCourrierID lists the suivis of a courrier. An unknown courrier has none.
func (s *SuiviService) ListByCourrierID(ctx context.Context, courrierID uint) ([]*domain.Suivi, error) {
	return s.suivis.ListByCourrierID(ctx, courrierID)
}

// ListByDate lists suivis of one day
func (s *SuiviService) ListByDate(ctx context.Context, date domain.Date) ([]*domain.Suivi, error) {
	return s.suivis.ListByDate(ctx, date)
}

// ListByDateBetween lists suivis dated within [start, end]. An inverted range is empty.
func (s *SuiviService) ListByDateBetween(ctx context.Context, start, end domain.Date) ([]*domain.Suivi, error) {
	if start.After(end.Time) {
		return []*domain.Suivi{}, nil
	}
	return s.suivis.ListByDateBetween(ctx, start, end)
}

// ListByInstructionContaining lists suivis whose instruction contains instruction, ignoring case
func (s *SuiviService) ListByInstructionContaining(ctx context.Context, instruction string) ([]*domain.Suivi, error) {
	return s.suivis.ListByInstructionContaining(ctx, instruction)
}

// Delete removes one suivi
func (s *SuiviService) Delete(ctx context.Context, id uint) error {
	return s.suivis.Delete(ctx, id)
}

// DeleteAllForCourrier removes every suivi of an existing courrier
func (s *SuiviService) DeleteAllForCourrier(ctx context.Context, courrierID uint) (int64, error) {
	var n int64
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.requireCourrier(ctx, courrierID); err != nil {
			return err
		}
		var err error
		n, err = s.suivis.DeleteByCourrierID(ctx, courrierID)
		return err
	})
	return n, err
}

func (s *SuiviService) requireCourrier(ctx context.Context, courrierID uint) error {
	exists, err := s.courriers.ExistsByID(ctx, courrierID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NotFound(entityCourrier, "id", courrierID)
	}
	return nil
}

func (in SuiviInput) applyTo(s *domain.Suivi) {
	s.CourrierID = in.CourrierID
	s.Instruction = in.Instruction
	s.Description = in.Description
	s.Date = in.Date
}
