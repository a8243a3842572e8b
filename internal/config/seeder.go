package config

import (
	"context"
	"log"

	"courrier-registry/internal/core/domain"
	"courrier-registry/internal/core/services"
)

// Seeder populates an empty database with sample data
type Seeder struct {
	users     *services.UserService
	courriers *services.CourrierService
	suivis    *services.SuiviService
}

// NewSeeder creates a new seeder instance
func NewSeeder(users *services.UserService, courriers *services.CourrierService, suivis *services.SuiviService) *Seeder {
	return &Seeder{users: users, courriers: courriers, suivis: suivis}
}

// Run executes all seeders. It does nothing when any user exists, so it is
// safe to run more than once.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("ℹ️ Database already contains data. Skipping seeding.")
		return nil
	}

	log.Println("🌱 Running database seeders...")
	s.seedUsers(ctx)
	s.seedCourriers(ctx)
	log.Println("✅ Database seeding completed")
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) {
	users := []services.UserInput{
		{Nom: "Admin", Prenom: "System", Username: "admin", Matricule: "ADM001", RoleFonction: "Administrateur",
			Email: "admin@coud.sn", Password: "admin123", Telephone: "771234567"},
		{Nom: "Diop", Prenom: "Mamadou", Username: "mdiop", Matricule: "EMP001", RoleFonction: "Secrétaire",
			Email: "mdiop@coud.sn", Password: "password123", Telephone: "772345678"},
		{Nom: "Ndiaye", Prenom: "Fatou", Username: "fndiaye", Matricule: "EMP002", RoleFonction: "Gestionnaire",
			Email: "fndiaye@coud.sn", Password: "password123", Telephone: "773456789"},
		{Nom: "Sow", Prenom: "Abdoulaye", Username: "asow", Matricule: "EMP003", RoleFonction: "Directeur",
			Email: "asow@coud.sn", Password: "password123", Telephone: "774567890"},
	}

	created := 0
	for _, in := range users {
		if _, err := s.users.Create(ctx, in); err != nil {
			log.Printf("⚠️ User %s skipped: %v", in.Username, err)
			continue
		}
		created++
	}
	log.Printf("✅ %d user(s) created", created)
}

func (s *Seeder) seedCourriers(ctx context.Context) {
	today := domain.Today()
	courriers := []services.CourrierInput{
		{NumCourrier: "COUD-2023-001", Objet: "Demande de fournitures", Type: domain.TypeInterne, Nature: domain.NatureDepart,
			Destinataire: "Service Logistique", Expediteur: "Direction Générale", Date: today.AddDays(-5)},
		{NumCourrier: "COUD-2023-002", Objet: "Invitation à la réunion annuelle", Type: domain.TypeExterne, Nature: domain.NatureDepart,
			Destinataire: "Ministère de l'Éducation", Expediteur: "Direction Générale", Date: today.AddDays(-3)},
		{NumCourrier: "COUD-2023-003", Objet: "Rapport financier trimestriel", Type: domain.TypeExterne, Nature: domain.NatureArrive,
			Destinataire: "Direction Générale", Expediteur: "Ministère des Finances", Date: today.AddDays(-1)},
		{NumCourrier: "COUD-2023-004", Objet: "Note de service - Horaires d'été", Type: domain.TypeInterne, Nature: domain.NatureDepart,
			Destinataire: "Tous les services", Expediteur: "Ressources Humaines", Date: today},
	}

	ids := make(map[string]uint, len(courriers))
	for _, in := range courriers {
		c, err := s.courriers.Create(ctx, in)
		if err != nil {
			log.Printf("⚠️ Courrier %s skipped: %v", in.NumCourrier, err)
			continue
		}
		ids[in.NumCourrier] = c.ID
	}
	log.Printf("✅ %d courrier(s) created", len(ids))

	suivis := []struct {
		num string
		in  services.SuiviInput
	}{
		{"COUD-2023-001", services.SuiviInput{Instruction: "À traiter en urgence",
			Description: "Besoin de fournitures pour le nouveau bureau", Date: today.AddDays(-5)}},
		{"COUD-2023-001", services.SuiviInput{Instruction: "Transmis au service concerné",
			Description: "En attente de validation", Date: today.AddDays(-4)}},
		{"COUD-2023-002", services.SuiviInput{Instruction: "Préparation des documents",
			Description: "Préparer les documents pour la réunion", Date: today.AddDays(-3)}},
		{"COUD-2023-003", services.SuiviInput{Instruction: "À analyser",
			Description: "Analyser le rapport et préparer une synthèse", Date: today.AddDays(-1)}},
	}

	created := 0
	for _, sv := range suivis {
		id, ok := ids[sv.num]
		if !ok {
			continue
		}
		sv.in.CourrierID = id
		if _, err := s.suivis.Create(ctx, sv.in); err != nil {
			log.Printf("⚠️ Suivi for %s skipped: %v", sv.num, err)
			continue
		}
		created++
	}
	log.Printf("✅ %d suivi(s) created", created)
}
