package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"courrier-registry/internal/adapters/persistence/dbtest"
	"courrier-registry/internal/adapters/persistence/repositories"
	"courrier-registry/internal/adapters/storage"
	"courrier-registry/internal/core/domain"
	"courrier-registry/internal/pkg/password"
	"courrier-registry/internal/pkg/validator"

	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	courriers *CourrierService
	suivis    *SuiviService
	users     *UserService
	sweeper   *AttachmentSweeper
	userRepo  repositories.UserRepository
	store     *storage.LocalStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.NewTestDB(t)
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	courrierRepo := repositories.NewCourrierRepository(db)
	suiviRepo := repositories.NewSuiviRepository(db)
	userRepo := repositories.NewUserRepository(db)
	tx := repositories.NewTxManager(db)
	v := validator.MustNew()

	env := &testEnv{
		courriers: NewCourrierService(courrierRepo, suiviRepo, tx, store, v),
		suivis:    NewSuiviService(suiviRepo, courrierRepo, tx, v),
		users:     NewUserService(userRepo, tx, v, password.NewHasher(bcrypt.MinCost)),
		sweeper:   NewAttachmentSweeper(courrierRepo, store, time.Hour),
		userRepo:  userRepo,
		store:     store,
	}

	// distinct attachment names for uploads within one millisecond
	clock := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	env.courriers.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return env
}

func sampleCourrier(num string) CourrierInput {
	return CourrierInput{
		NumCourrier:  num,
		Objet:        "Demande",
		Type:         domain.TypeInterne,
		Nature:       domain.NatureDepart,
		Destinataire: "Service A",
		Expediteur:   "Direction",
		Date:         domain.NewDate(2023, time.January, 10),
	}
}

func sampleUser() UserInput {
	return UserInput{
		Nom:          "Diop",
		Prenom:       "Moussa",
		Username:     "mdiop",
		Matricule:    "EMP001",
		RoleFonction: "Secretaire",
		Email:        "mdiop@x.sn",
		Password:     "secret1",
		Telephone:    "770000000",
	}
}

func TestCreateCourrierRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.courriers.Create(ctx, sampleCourrier("COUD-2023-001"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if created.Suivis == nil || len(created.Suivis) != 0 {
		t.Fatalf("expected empty suivis got %v", created.Suivis)
	}

	got, err := env.courriers.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.NumCourrier != created.NumCourrier || got.Objet != created.Objet ||
		got.Type != created.Type || got.Nature != created.Nature ||
		got.Destinataire != created.Destinataire || got.Expediteur != created.Expediteur ||
		!got.Date.Equal(created.Date.Time) || got.PdfFile != nil || len(got.Suivis) != 0 {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, created)
	}
}

func TestCreateCourrierDuplicateNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.courriers.Create(ctx, sampleCourrier("COUD-2023-001")); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := env.courriers.Create(ctx, sampleCourrier("COUD-2023-001"))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict got %v", err)
	}

	_, total, _ := env.courriers.List(ctx, 0, -1)
	if total != 1 {
		t.Fatalf("expected 1 courrier got %d", total)
	}
}

func TestCreateCourrierValidation(t *testing.T) {
	env := newTestEnv(t)

	in := sampleCourrier("")
	in.Type = "AUTRE"
	in.Date = domain.Date{}
	_, err := env.courriers.Create(context.Background(), in)
	derr, ok := domain.AsError(err)
	if !ok || !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input got %v", err)
	}
	for _, f := range []string{"numCourrier", "type", "date"} {
		if _, ok := derr.Fields[f]; !ok {
			t.Errorf("expected message for %s in %v", f, derr.Fields)
		}
	}
}

func TestUpdateCourrier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, _ := env.courriers.Create(ctx, sampleCourrier("C-1"))
	if _, err := env.courriers.Create(ctx, sampleCourrier("C-2")); err != nil {
		t.Fatalf("create: %v", err)
	}

	// same number never conflicts with itself
	in := sampleCourrier("C-1")
	in.Objet = "Nouvel objet"
	updated, err := env.courriers.Update(ctx, a.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Objet != "Nouvel objet" {
		t.Fatalf("objet not updated")
	}

	if _, err := env.courriers.Update(ctx, a.ID, sampleCourrier("C-2")); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict got %v", err)
	}
	if _, err := env.courriers.Update(ctx, 999, sampleCourrier("C-9")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestCreateSuiviForUnknownCourrier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.suivis.Create(ctx, SuiviInput{CourrierID: 999999, Instruction: "Classer", Date: domain.Today()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}

	_, err = env.suivis.Create(ctx, SuiviInput{Instruction: "Classer", Date: domain.Today()})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing courrierId got %v", err)
	}

	all, _, _ := env.suivis.List(ctx, 0, -1)
	if len(all) != 0 {
		t.Fatalf("no suivi must be inserted, got %d", len(all))
	}
}

func TestUpdateSuiviReparent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, _ := env.courriers.Create(ctx, sampleCourrier("C-1"))
	b, _ := env.courriers.Create(ctx, sampleCourrier("C-2"))
	s, err := env.suivis.Create(ctx, SuiviInput{CourrierID: a.ID, Instruction: "Classer", Date: domain.Today()})
	if err != nil {
		t.Fatalf("create suivi: %v", err)
	}

	_, err = env.suivis.Update(ctx, s.ID, SuiviInput{CourrierID: 999, Instruction: "Classer", Date: domain.Today()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}

	moved, err := env.suivis.Update(ctx, s.ID, SuiviInput{CourrierID: b.ID, Instruction: "Repondre", Description: "urgent", Date: domain.Today()})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if moved.CourrierID != b.ID || moved.Instruction != "Repondre" {
		t.Fatalf("unexpected suivi %+v", moved)
	}

	got, _ := env.courriers.GetByID(ctx, b.ID)
	if len(got.Suivis) != 1 || got.Suivis[0].Description != "urgent" {
		t.Fatalf("suivi not attached to new courrier: %+v", got.Suivis)
	}
}

func TestDeleteCourrierCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c, _ := env.courriers.Create(ctx, sampleCourrier("C-1"))
	for _, instr := range []string{"Classer", "Repondre"} {
		if _, err := env.suivis.Create(ctx, SuiviInput{CourrierID: c.ID, Instruction: instr, Date: domain.Today()}); err != nil {
			t.Fatalf("create suivi: %v", err)
		}
	}

	if err := env.courriers.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.courriers.GetByID(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected courrier gone, got %v", err)
	}
	left, err := env.suivis.ListByCourrierID(ctx, c.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected no suivis got %d", len(left))
	}

	if err := env.courriers.Delete(ctx, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete got %v", err)
	}
}

func TestDeleteAllForCourrier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.suivis.DeleteAllForCourrier(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}

	c, _ := env.courriers.Create(ctx, sampleCourrier("C-1"))
	n, err := env.suivis.DeleteAllForCourrier(ctx, c.ID)
	if err != nil || n != 0 {
		t.Fatalf("empty delete must succeed, got n=%d err=%v", n, err)
	}
}

func TestUploadAttachment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c, _ := env.courriers.Create(ctx, sampleCourrier("COUD/2023/001"))

	if _, err := env.courriers.UploadAttachment(ctx, c.ID, nil, "scan.pdf"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty file got %v", err)
	}
	got, _ := env.courriers.GetByID(ctx, c.ID)
	if got.PdfFile != nil {
		t.Fatalf("pdf file must stay unset, got %q", *got.PdfFile)
	}

	if _, err := env.courriers.UploadAttachment(ctx, 999, []byte("%PDF"), "scan.pdf"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}

	updated, err := env.courriers.UploadAttachment(ctx, c.ID, []byte("%PDF"), `C:\docs\scan 1.pdf`)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if updated.PdfFile == nil {
		t.Fatalf("expected pdf file to be set")
	}
	objs, _ := env.store.List(ctx)
	if len(objs) != 1 || objs[0].Name != *updated.PdfFile {
		t.Fatalf("stored %+v, row references %q", objs, *updated.PdfFile)
	}
}

type failingStore struct{ storage.AttachmentStore }

func (failingStore) Save(context.Context, string, []byte) error { return errors.New("disk full") }

func TestUploadAttachmentStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c, _ := env.courriers.Create(ctx, sampleCourrier("C-1"))
	env.courriers.store = failingStore{env.store}

	_, err := env.courriers.UploadAttachment(ctx, c.ID, []byte("%PDF"), "scan.pdf")
	if !errors.Is(err, domain.ErrStorageFault) {
		t.Fatalf("expected storage fault got %v", err)
	}
	got, _ := env.courriers.GetByID(ctx, c.ID)
	if got.PdfFile != nil {
		t.Fatalf("row must not reference a failed write")
	}
}

func TestAttachmentName(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	tests := []struct {
		num, file, want string
	}{
		{"COUD-1", "scan.pdf", "COUD-1_1700000000000_scan.pdf"},
		{"COUD/2023/1", "../../etc/passwd", "COUD_2023_1_1700000000000_passwd"},
		{"C 1", `C:\Users\me\mon fichier.pdf`, "C_1_1700000000000_mon_fichier.pdf"},
		{"C1", "", "C1_1700000000000_document.pdf"},
		{"C1", "..", "C1_1700000000000_document.pdf"},
	}
	for _, tt := range tests {
		if got := AttachmentName(tt.num, at, tt.file); got != tt.want {
			t.Errorf("AttachmentName(%q, %q) = %q, want %q", tt.num, tt.file, got, tt.want)
		}
	}
}

func TestSweeperRemovesOnlyOldOrphans(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	c, _ := env.courriers.Create(ctx, sampleCourrier("C-1"))
	first, err := env.courriers.UploadAttachment(ctx, c.ID, []byte("v1"), "scan.pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	second, err := env.courriers.UploadAttachment(ctx, c.ID, []byte("v2"), "scan.pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	n, err := env.sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 0 {
		t.Fatalf("fresh orphans are within the grace period, removed %d", n)
	}

	env.sweeper.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	n, err = env.sweeper.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 removal got %d", n)
	}

	objs, _ := env.store.List(ctx)
	if len(objs) != 1 || objs[0].Name != *second.PdfFile || objs[0].Name == *first.PdfFile {
		t.Fatalf("unexpected remaining files %+v", objs)
	}
}

func TestSweeperRejectsBadSchedule(t *testing.T) {
	env := newTestEnv(t)
	if err := env.sweeper.Start("not a schedule"); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}
}

func TestCreateUserShortPassword(t *testing.T) {
	env := newTestEnv(t)
	in := sampleUser()
	in.Password = "short"

	_, err := env.users.Create(context.Background(), in)
	derr, ok := domain.AsError(err)
	if !ok || !errors.Is(err, domain.ErrInvalidInput) || derr.Fields["password"] == "" {
		t.Fatalf("expected password validation error got %v", err)
	}
	if n, _ := env.users.Count(context.Background()); n != 0 {
		t.Fatalf("nothing must be persisted, got %d users", n)
	}

	in.Password = ""
	if _, err := env.users.Create(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("password is required on create, got %v", err)
	}
}

func TestCreateUserConflictsInOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.users.Create(ctx, sampleUser()); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name  string
		edit  func(*UserInput)
		field string
	}{
		{"all taken reports username", func(*UserInput) {}, "username"},
		{"email", func(u *UserInput) { u.Username = "other" }, "email"},
		{"matricule", func(u *UserInput) { u.Username = "other"; u.Email = "other@x.sn" }, "matricule"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleUser()
			tt.edit(&in)
			_, err := env.users.Create(ctx, in)
			derr, ok := domain.AsError(err)
			if !ok || !errors.Is(err, domain.ErrConflict) || derr.Field != tt.field {
				t.Fatalf("expected conflict on %s got %v", tt.field, err)
			}
		})
	}
}

func TestUserPasswordHandling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.users.Create(ctx, sampleUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.PasswordHash != "" {
		t.Fatalf("password must be redacted on create")
	}
	if !created.Active {
		t.Fatalf("active defaults to true")
	}

	stored, _ := env.userRepo.GetByID(ctx, created.ID)
	if !password.Verify("secret1", stored.PasswordHash) {
		t.Fatalf("stored password is not a hash of the input")
	}

	// empty password keeps the stored hash byte for byte
	in := sampleUser()
	in.Password = ""
	in.Telephone = "771111111"
	updated, err := env.users.Update(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PasswordHash != "" || updated.Telephone != "771111111" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	after, _ := env.userRepo.GetByID(ctx, created.ID)
	if after.PasswordHash != stored.PasswordHash {
		t.Fatalf("password hash changed on update without password")
	}

	in.Password = "newsecret"
	if _, err := env.users.Update(ctx, created.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, _ = env.userRepo.GetByID(ctx, created.ID)
	if !password.Verify("newsecret", after.PasswordHash) {
		t.Fatalf("password was not replaced")
	}

	reads := []func() (*domain.User, error){
		func() (*domain.User, error) { return env.users.GetByID(ctx, created.ID) },
		func() (*domain.User, error) { return env.users.GetByUsername(ctx, "mdiop") },
		func() (*domain.User, error) { return env.users.GetByEmail(ctx, "mdiop@x.sn") },
		func() (*domain.User, error) { return env.users.GetByMatricule(ctx, "EMP001") },
		func() (*domain.User, error) { return env.users.SetActive(ctx, created.ID, false) },
	}
	for i, read := range reads {
		u, err := read()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if u.PasswordHash != "" {
			t.Fatalf("read %d leaked the password hash", i)
		}
	}
	list, _, _ := env.users.List(ctx, 0, -1)
	for _, u := range list {
		if u.PasswordHash != "" {
			t.Fatalf("list leaked the password hash")
		}
	}
}

func TestUpdateUserConflictOnlyWhenChanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, _ := env.users.Create(ctx, sampleUser())
	other := sampleUser()
	other.Username, other.Email, other.Matricule = "adiallo", "adiallo@x.sn", "EMP002"
	if _, err := env.users.Create(ctx, other); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := env.users.Update(ctx, a.ID, sampleUser()); err != nil {
		t.Fatalf("unchanged unique fields must not conflict: %v", err)
	}

	in := sampleUser()
	in.Email = "adiallo@x.sn"
	_, err := env.users.Update(ctx, a.ID, in)
	derr, ok := domain.AsError(err)
	if !ok || derr.Field != "email" || derr.Value != "adiallo@x.sn" {
		t.Fatalf("expected email conflict got %v", err)
	}
}

func TestSetActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, _ := env.users.Create(ctx, sampleUser())
	got, err := env.users.SetActive(ctx, u.ID, false)
	if err != nil {
		t.Fatalf("set active: %v", err)
	}
	if got.Active || got.Username != "mdiop" {
		t.Fatalf("unexpected user %+v", got)
	}
	if _, err := env.users.SetActive(ctx, 999, true); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}
