package services

import (
	"context"

	"courrier-registry/internal/adapters/persistence/repositories"
	"courrier-registry/internal/core/domain"
	"courrier-registry/internal/pkg/password"
	"courrier-registry/internal/pkg/validator"
)

const entityUser = "User"

// UserInput is a user account as sent by clients. Password is optional on
// update, where an empty value keeps the stored one.
type UserInput struct {
	Nom          string `json:"nom" validate:"required,notblank,max=100"`
	Prenom       string `json:"prenom" validate:"required,notblank,max=100"`
	Username     string `json:"username" validate:"required,notblank,max=100"`
	Matricule    string `json:"matricule" validate:"required,notblank,max=50"`
	Active       *bool  `json:"active"`
	RoleFonction string `json:"roleFonction" validate:"required,notblank,max=100"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Password     string `json:"password"` // checked by password.ValidatePassword
	Telephone    string `json:"telephone" validate:"required,notblank,max=30"`
}

// UserService handles staff account business logic. Every user it returns
// has an empty PasswordHash.
type UserService struct {
	users     repositories.UserRepository
	tx        repositories.Transactor
	validator *validator.Validator
	hasher    *password.Hasher
}

// NewUserService creates a new user service
func NewUserService(
	users repositories.UserRepository,
	tx repositories.Transactor,
	v *validator.Validator,
	hasher *password.Hasher,
) *UserService {
	return &UserService{
		users:     users,
		tx:        tx,
		validator: v,
		hasher:    hasher,
	}
}

// Create registers a user. Username, email and matricule must all be unused.
func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	if err := s.validate(in, true); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.StorageFault("hash password", err)
	}

	user := &domain.User{PasswordHash: hash}
	in.applyTo(user)

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, nil, user); err != nil {
			return err
		}
		return s.users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return redact(user), nil
}

// Update replaces a user's fields. Uniqueness is only checked for values that change.
func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*domain.User, error) {
	if err := s.validate(in, false); err != nil {
		return nil, err
	}

	var hash string
	if in.Password != "" {
		var err error
		if hash, err = s.hasher.Hash(in.Password); err != nil {
			return nil, domain.StorageFault("hash password", err)
		}
	}

	var user *domain.User
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		in.applyTo(&next)
		if hash != "" {
			next.PasswordHash = hash
		}

		if err := s.checkUnique(ctx, current, &next); err != nil {
			return err
		}
		if err := s.users.Update(ctx, &next); err != nil {
			return err
		}
		user = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return redact(user), nil
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return redactOne(s.users.GetByID(ctx, id))
}

// GetByUsername gets a user by username
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return redactOne(s.users.GetByUsername(ctx, username))
}

// GetByEmail gets a user by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return redactOne(s.users.GetByEmail(ctx, email))
}

// GetByMatricule gets a user by employee number
func (s *UserService) GetByMatricule(ctx context.Context, matricule string) (*domain.User, error) {
	return redactOne(s.users.GetByMatricule(ctx, matricule))
}

// List lists users. A negative limit returns all of them.
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error) {
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	for _, u := range users {
		redact(u)
	}
	return users, total, nil
}

// SetActive flips only the active flag of a user
func (s *UserService) SetActive(ctx context.Context, id uint, active bool) (*domain.User, error) {
	var user *domain.User
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.users.SetActive(ctx, id, active); err != nil {
			return err
		}
		current.Active = active
		user = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return redact(user), nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.users.Delete(ctx, id)
}

// ExistsByUsername reports whether a username is taken
func (s *UserService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.users.ExistsByUsername(ctx, username)
}

// ExistsByEmail reports whether an email is taken
func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.users.ExistsByEmail(ctx, email)
}

// ExistsByMatricule reports whether an employee number is taken
func (s *UserService) ExistsByMatricule(ctx context.Context, matricule string) (bool, error) {
	return s.users.ExistsByMatricule(ctx, matricule)
}

// Count counts all users
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// validate checks in and the password together so every failing field is
// reported at once. An empty password is only accepted on update.
func (s *UserService) validate(in UserInput, requirePassword bool) error {
	fields := map[string]string{}
	if err := s.validator.Check(in); err != nil {
		derr, ok := domain.AsError(err)
		if !ok || len(derr.Fields) == 0 {
			return err
		}
		for k, v := range derr.Fields {
			fields[k] = v
		}
	}

	switch {
	case in.Password == "" && requirePassword:
		fields["password"] = "password is a required field"
	case in.Password != "":
		if err := password.ValidatePassword(in.Password); err != nil {
			fields["password"] = err.Error()
		}
	}

	if len(fields) > 0 {
		return domain.Invalid(fields)
	}
	return nil
}

// checkUnique reports the first of username, email and matricule that next
// would duplicate. With a current user, unchanged values are not checked.
func (s *UserService) checkUnique(ctx context.Context, current, next *domain.User) error {
	checks := []struct {
		field  string
		value  string
		old    string
		exists func(context.Context, string) (bool, error)
	}{
		{"username", next.Username, "", s.users.ExistsByUsername},
		{"email", next.Email, "", s.users.ExistsByEmail},
		{"matricule", next.Matricule, "", s.users.ExistsByMatricule},
	}
	if current != nil {
		checks[0].old = current.Username
		checks[1].old = current.Email
		checks[2].old = current.Matricule
	}

	for _, c := range checks {
		if current != nil && c.value == c.old {
			continue
		}
		exists, err := c.exists(ctx, c.value)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict(entityUser, c.field, c.value)
		}
	}
	return nil
}

func (in UserInput) applyTo(u *domain.User) {
	u.Nom = in.Nom
	u.Prenom = in.Prenom
	u.Username = in.Username
	u.Matricule = in.Matricule
	u.RoleFonction = in.RoleFonction
	u.Email = in.Email
	u.Telephone = in.Telephone
	u.Active = true
	if in.Active != nil {
		u.Active = *in.Active
	}
}

func redact(u *domain.User) *domain.User {
	u.PasswordHash = ""
	return u
}

func redactOne(u *domain.User, err error) (*domain.User, error) {
	if err != nil {
		return nil, err
	}
	return redact(u), nil
}
