package handlers

import "courrier-registry/internal/core/domain"

// CourrierResponse is the wire form of a courrier
type CourrierResponse struct {
	ID           uint                  `json:"id"`
	NumCourrier  string                `json:"numCourrier"`
	Objet        string                `json:"objet"`
	Type         domain.TypeCourrier   `json:"type"`
	Nature       domain.NatureCourrier `json:"nature"`
	Destinataire string                `json:"destinataire"`
	Expediteur   string                `json:"expediteur"`
	Date         domain.Date           `json:"date"`
	PdfFile      *string               `json:"pdfFile"`
	Suivis       []SuiviResponse       `json:"suivis"`
}

// SuiviResponse is the wire form of a suivi
type SuiviResponse struct {
	ID          uint        `json:"id"`
	Instruction string      `json:"instruction"`
	Description string      `json:"description"`
	Date        domain.Date `json:"date"`
	CourrierID  uint        `json:"courrierId"`
}

// UserResponse is the wire form of a user. It has no password field.
type UserResponse struct {
	ID           uint   `json:"id"`
	Nom          string `json:"nom"`
	Prenom       string `json:"prenom"`
	Username     string `json:"username"`
	Matricule    string `json:"matricule"`
	Active       bool   `json:"active"`
	RoleFonction string `json:"roleFonction"`
	Email        string `json:"email"`
	Telephone    string `json:"telephone"`
}

// NewCourrierResponse converts a courrier
func NewCourrierResponse(c *domain.Courrier) CourrierResponse {
	return CourrierResponse{
		ID:           c.ID,
		NumCourrier:  c.NumCourrier,
		Objet:        c.Objet,
		Type:         c.Type,
		Nature:       c.Nature,
		Destinataire: c.Destinataire,
		Expediteur:   c.Expediteur,
		Date:         c.Date,
		PdfFile:      c.PdfFile,
		Suivis:       NewSuiviResponses(c.Suivis),
	}
}

// NewCourrierResponses converts a list, never returning nil
func NewCourrierResponses(cs []*domain.Courrier) []CourrierResponse {
	out := make([]CourrierResponse, len(cs))
	for i, c := range cs {
		out[i] = NewCourrierResponse(c)
	}
	return out
}

// NewSuiviResponse converts a suivi
func NewSuiviResponse(s *domain.Suivi) SuiviResponse {
	return SuiviResponse{
		ID:          s.ID,
		Instruction: s.Instruction,
		Description: s.Description,
		Date:        s.Date,
		CourrierID:  s.CourrierID,
	}
}

// NewSuiviResponses converts a list, never returning nil
func NewSuiviResponses(ss []*domain.Suivi) []SuiviResponse {
	out := make([]SuiviResponse, len(ss))
	for i, s := range ss {
		out[i] = NewSuiviResponse(s)
	}
	return out
}

// NewUserResponse converts a user, dropping the password hash
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Nom:          u.Nom,
		Prenom:       u.Prenom,
		Username:     u.Username,
		Matricule:    u.Matricule,
		Active:       u.Active,
		RoleFonction: u.RoleFonction,
		Email:        u.Email,
		Telephone:    u.Telephone,
	}
}

// NewUserResponses converts a list, never returning nil
func NewUserResponses(us []*domain.User) []UserResponse {
	out := make([]UserResponse, len(us))
	for i, u := range us {
		out[i] = NewUserResponse(u)
	}
	return out
}
