package domain

import (
	"fmt"
	"strings"
	"time"
)

// TypeCourrier classifies a courrier as internal or external
type TypeCourrier string

const (
	TypeInterne TypeCourrier = "INTERNE"
	TypeExterne TypeCourrier = "EXTERNE"
)

// NatureCourrier is the direction of a courrier
type NatureCourrier string

const (
	NatureArrive NatureCourrier = "ARRIVE"
	NatureDepart NatureCourrier = "DEPART"
)

// ParseType parses a courrier type, case-insensitively
func ParseType(s string) (TypeCourrier, error) {
	switch t := TypeCourrier(strings.ToUpper(strings.TrimSpace(s))); t {
	case TypeInterne, TypeExterne:
		return t, nil
	}
	return "", InvalidField("type", fmt.Sprintf("unknown courrier type %q (must be INTERNE or EXTERNE)", s))
}

// ParseNature parses a courrier nature, case-insensitively
func ParseNature(s string) (NatureCourrier, error) {
	switch n := NatureCourrier(strings.ToUpper(strings.TrimSpace(s))); n {
	case NatureArrive, NatureDepart:
		return n, nil
	}
	return "", InvalidField("nature", fmt.Sprintf("unknown courrier nature %q (must be ARRIVE or DEPART)", s))
}

// Courrier represents a tracked piece of correspondence
type Courrier struct {
	ID           uint
	NumCourrier  string
	Objet        string
	Type         TypeCourrier
	Nature       NatureCourrier
	Destinataire string
	Expediteur   string
	Date         Date
	PdfFile      *string // Stored attachment name, nil until an upload occurs
	Suivis       []*Suivi
}

// Suivi is a follow-up entry attached to exactly one courrier
type Suivi struct {
	ID          uint
	CourrierID  uint
	Instruction string
	Description string
	Date        Date
}

// User represents a staff account
type User struct {
	ID           uint
	Nom          string
	Prenom       string
	Username     string
	Matricule    string
	Active       bool
	RoleFonction string
	Email        string
	PasswordHash string // bcrypt, never leaves the service layer
	Telephone    string
}

// DateLayout is the wire format of every calendar date (ISO-8601)
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day, always held at UTC midnight
type Date struct {
	time.Time
}

// NewDate builds a Date from its components
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current local calendar date
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days later (or earlier when n is negative)
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when unset
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" and null
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
