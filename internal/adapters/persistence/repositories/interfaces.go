package repositories

import (
	"context"

	"courrier-registry/internal/core/domain"
)

// CourrierRepository defines courrier repository interface.
// Single-record reads return a domain NotFound error when absent.
type CourrierRepository interface {
	Create(ctx context.Context, courrier *domain.Courrier) error
	Update(ctx context.Context, courrier *domain.Courrier) error
	SetPdfFile(ctx context.Context, id uint, pdfFile string) error
	GetByID(ctx context.Context, id uint) (*domain.Courrier, error)
	GetByNumCourrier(ctx context.Context, numCourrier string) (*domain.Courrier, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Courrier, int64, error)
	ListByType(ctx context.Context, t domain.TypeCourrier) ([]*domain.Courrier, error)
	ListByNature(ctx context.Context, n domain.NatureCourrier) ([]*domain.Courrier, error)
	ListByDate(ctx context.Context, date domain.Date) ([]*domain.Courrier, error)
	ListByDateBetween(ctx context.Context, start, end domain.Date) ([]*domain.Courrier, error)
	ListByDestinataire(ctx context.Context, destinataire string) ([]*domain.Courrier, error)
	ListByExpediteur(ctx context.Context, expediteur string) ([]*domain.Courrier, error)
	ListByObjetContaining(ctx context.Context, objet string) ([]*domain.Courrier, error)
	ListPdfFiles(ctx context.Context) ([]string, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByNumCourrier(ctx context.Context, numCourrier string) (bool, error)
	Delete(ctx context.Context, id uint) error
}

// SuiviRepository defines suivi repository interface
type SuiviRepository interface {
	Create(ctx context.Context, suivi *domain.Suivi) error
	Update(ctx context.Context, suivi *domain.Suivi) error
	GetByID(ctx context.Context, id uint) (*domain.Suivi, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Suivi, int64, error)
	ListByCourrierID(ctx context.Context, courrierID uint) ([]*domain.Suivi, error)
	ListByDate(ctx context.Context, date domain.Date) ([]*domain.Suivi, error)
	ListByDateBetween(ctx context.Context, start, end domain.Date) ([]*domain.Suivi, error)
	ListByInstructionContaining(ctx context.Context, instruction string) ([]*domain.Suivi, error)
	Delete(ctx context.Context, id uint) error
	DeleteByCourrierID(ctx context.Context, courrierID uint) (int64, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	SetActive(ctx context.Context, id uint, active bool) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByMatricule(ctx context.Context, matricule string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error)
	Count(ctx context.Context) (int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMatricule(ctx context.Context, matricule string) (bool, error)
	Delete(ctx context.Context, id uint) error
}

// Transactor runs fn inside one storage transaction. Repositories called
// with the ctx handed to fn take part in that transaction.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
