package repositories

import (
	"context"

	"courrier-registry/internal/adapters/persistence/models"
	"courrier-registry/internal/core/domain"

	"gorm.io/gorm"
)

const entityUser = "User"

var userUniqueColumns = []uniqueColumn{
	{table: "users", column: "username", field: "username"},
	{table: "users", column: "email", field: "email"},
	{table: "users", column: "matricule", field: "matricule"},
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func userUniqueValues(u *domain.User) map[string]string {
	return map[string]string{
		"username":  u.Username,
		"email":     u.Email,
		"matricule": u.Matricule,
	}
}

// Create creates a new user and sets its ID
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	row := models.UserFromDomain(user)
	if err := conn(ctx, r.db).Create(row).Error; err != nil {
		return translateWriteError(r.db, err, entityUser, userUniqueColumns, userUniqueValues(user))
	}
	user.ID = row.ID
	return nil
}

// Update saves every column of the user, password hash included
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	err := conn(ctx, r.db).Model(&models.User{ID: user.ID}).
		Select("nom", "prenom", "username", "matricule", "active", "role_fonction", "email", "password", "telephone", "updated_at").
		Updates(models.UserFromDomain(user)).Error
	return translateWriteError(r.db, err, entityUser, userUniqueColumns, userUniqueValues(user))
}

// SetActive flips only the active flag
func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	err := conn(ctx, r.db).Model(&models.User{ID: id}).Update("active", active).Error
	if err != nil {
		return domain.StorageFault("update user active flag", err)
	}
	return nil
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var row models.User
	if err := conn(ctx, r.db).First(&row, id).Error; err != nil {
		return nil, notFoundOr(err, entityUser, "id", id)
	}
	return row.ToDomain(), nil
}

// GetByUsername gets a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "username", username)
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByMatricule gets a user by employee number
func (r *userRepository) GetByMatricule(ctx context.Context, matricule string) (*domain.User, error) {
	return r.getBy(ctx, "matricule", matricule)
}

// List lists users in insertion order. A negative limit returns every row.
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	q := conn(ctx, r.db).Order("id ASC")
	if limit >= 0 {
		q = q.Offset(offset).Limit(limit)
	}
	var rows []models.User
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, domain.StorageFault("list users", err)
	}
	users := make([]*domain.User, len(rows))
	for i := range rows {
		users[i] = rows[i].ToDomain()
	}
	return users, total, nil
}

// Count counts all users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&models.User{}).Count(&total).Error; err != nil {
		return 0, domain.StorageFault("count users", err)
	}
	return total, nil
}

// ExistsByUsername checks if username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username", username)
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

// ExistsByMatricule checks if employee number exists
func (r *userRepository) ExistsByMatricule(ctx context.Context, matricule string) (bool, error) {
	return r.exists(ctx, "matricule", matricule)
}

// Delete hard deletes a user
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := conn(ctx, r.db).Delete(&models.User{}, id)
	if res.Error != nil {
		return domain.StorageFault("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(entityUser, "id", id)
	}
	return nil
}

// getBy looks a user up by one of its unique columns
func (r *userRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	var row models.User
	if err := conn(ctx, r.db).Where(column+" = ?", value).First(&row).Error; err != nil {
		return nil, notFoundOr(err, entityUser, column, value)
	}
	return row.ToDomain(), nil
}

func (r *userRepository) exists(ctx context.Context, column, value string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.User{}).Where(column+" = ?", value).Count(&count).Error
	if err != nil {
		return false, domain.StorageFault("count users", err)
	}
	return count > 0, nil
}
