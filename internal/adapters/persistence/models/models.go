package models

import (
	"time"

	"courrier-registry/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Courrier represents courriers table
type Courrier struct {
	ID           uint           `gorm:"primaryKey"`
	NumCourrier  string         `gorm:"column:num_courrier;uniqueIndex;size:100;not null"`
	Objet        string         `gorm:"size:255;not null"`
	Type         string         `gorm:"size:20;not null;index"`
	Nature       string         `gorm:"size:20;not null;index"`
	PdfFile      *string        `gorm:"column:pdf_file;size:255"`
	Destinataire string         `gorm:"size:255;not null;index"`
	Expediteur   string         `gorm:"size:255;not null;index"`
	Date         datatypes.Date `gorm:"not null;index"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`

	Suivis []Suivi `gorm:"foreignKey:CourrierID;constraint:OnDelete:CASCADE"`
}

func (Courrier) TableName() string {
	return "courriers"
}

// Suivi represents suivis table
type Suivi struct {
	ID          uint           `gorm:"primaryKey"`
	CourrierID  uint           `gorm:"column:id_courrier;not null;index"`
	Instruction string         `gorm:"size:255;not null"`
	Description string         `gorm:"type:text"`
	Date        datatypes.Date `gorm:"not null;index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

func (Suivi) TableName() string {
	return "suivis"
}

// User represents users table
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Nom          string    `gorm:"size:100;not null"`
	Prenom       string    `gorm:"size:100;not null"`
	Username     string    `gorm:"uniqueIndex;size:100;not null"`
	Matricule    string    `gorm:"uniqueIndex;size:50;not null"`
	Active       bool      `gorm:"not null"`
	RoleFonction string    `gorm:"column:role_fonction;size:100;not null"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	Password     string    `gorm:"size:255;not null"`
	Telephone    string    `gorm:"size:30;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// ============================================================
// Row <-> domain mapping
// ============================================================

func toDate(d datatypes.Date) domain.Date {
	return domain.DateOf(time.Time(d))
}

func fromDate(d domain.Date) datatypes.Date {
	return datatypes.Date(d.Time)
}

// ToDomain converts a courrier row (and any preloaded suivis) to the domain entity
func (c *Courrier) ToDomain() *domain.Courrier {
	out := &domain.Courrier{
		ID:           c.ID,
		NumCourrier:  c.NumCourrier,
		Objet:        c.Objet,
		Type:         domain.TypeCourrier(c.Type),
		Nature:       domain.NatureCourrier(c.Nature),
		Destinataire: c.Destinataire,
		Expediteur:   c.Expediteur,
		Date:         toDate(c.Date),
		PdfFile:      c.PdfFile,
		Suivis:       make([]*domain.Suivi, len(c.Suivis)),
	}
	for i := range c.Suivis {
		out.Suivis[i] = c.Suivis[i].ToDomain()
	}
	return out
}

// CourrierFromDomain builds a row from the domain entity. Suivis are not carried:
// they are persisted through their own repository.
func CourrierFromDomain(c *domain.Courrier) *Courrier {
	return &Courrier{
		ID:           c.ID,
		NumCourrier:  c.NumCourrier,
		Objet:        c.Objet,
		Type:         string(c.Type),
		Nature:       string(c.Nature),
		PdfFile:      c.PdfFile,
		Destinataire: c.Destinataire,
		Expediteur:   c.Expediteur,
		Date:         fromDate(c.Date),
	}
}

// ToDomain converts a suivi row to the domain entity
func (s *Suivi) ToDomain() *domain.Suivi {
	return &domain.Suivi{
		ID:          s.ID,
		CourrierID:  s.CourrierID,
		Instruction: s.Instruction,
		Description: s.Description,
		Date:        toDate(s.Date),
	}
}

// SuiviFromDomain builds a row from the domain entity
func SuiviFromDomain(s *domain.Suivi) *Suivi {
	return &Suivi{
		ID:          s.ID,
		CourrierID:  s.CourrierID,
		Instruction: s.Instruction,
		Description: s.Description,
		Date:        fromDate(s.Date),
	}
}

// ToDomain converts a user row to the domain entity
func (u *User) ToDomain() *domain.User {
	return &domain.User{
		ID:           u.ID,
		Nom:          u.Nom,
		Prenom:       u.Prenom,
		Username:     u.Username,
		Matricule:    u.Matricule,
		Active:       u.Active,
		RoleFonction: u.RoleFonction,
		Email:        u.Email,
		PasswordHash: u.Password,
		Telephone:    u.Telephone,
	}
}

// UserFromDomain builds a row from the domain entity
func UserFromDomain(u *domain.User) *User {
	return &User{
		ID:           u.ID,
		Nom:          u.Nom,
		Prenom:       u.Prenom,
		Username:     u.Username,
		Matricule:    u.Matricule,
		Active:       u.Active,
		RoleFonction: u.RoleFonction,
		Email:        u.Email,
		Password:     u.PasswordHash,
		Telephone:    u.Telephone,
	}
}

// AutoMigrate creates or updates the courriers, suivis and users tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Courrier{},
		&Suivi{},
	)
}
