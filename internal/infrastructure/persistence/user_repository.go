package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// translateError maps GORM errors to domain sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts the user and writes the generated ID back
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	user.ID = model.ID
	return nil
}

// Update saves every column of an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	user.Touch()
	model := models.UserModelFromDomain(user)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks if an email is already registered
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormEmailConfirmTokenRepository implements EmailConfirmTokenRepository using GORM
type GormEmailConfirmTokenRepository struct {
	db *gorm.DB
}

// NewGormEmailConfirmTokenRepository creates a new GormEmailConfirmTokenRepository
func NewGormEmailConfirmTokenRepository(db *gorm.DB) *GormEmailConfirmTokenRepository {
	return &GormEmailConfirmTokenRepository{db: db}
}

// Create stores a new token
func (r *GormEmailConfirmTokenRepository) Create(ctx context.Context, token *identity.EmailConfirmToken) error {
	model := models.EmailConfirmTokenModelFromDomain(token)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	token.ID = model.ID
	return nil
}

// FindByToken looks a token up by its value
func (r *GormEmailConfirmTokenRepository) FindByToken(ctx context.Context, token string) (*identity.EmailConfirmToken, error) {
	var model models.EmailConfirmTokenModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Delete removes a token
func (r *GormEmailConfirmTokenRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.EmailConfirmTokenModel{}, id).Error
}

// DeleteExpired removes tokens that expired before the given time
func (r *GormEmailConfirmTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", before).Delete(&models.EmailConfirmTokenModel{})
	return result.RowsAffected, result.Error
}

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// Create inserts the contact and writes the generated ID back
func (r *GormContactRepository) Create(ctx context.Context, contact *identity.Contact) error {
	model := models.ContactModelFromDomain(contact)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err)
	}
	contact.ID = model.ID
	return nil
}

// Update saves an existing contact
func (r *GormContactRepository) Update(ctx context.Context, contact *identity.Contact) error {
	contact.Touch()
	return translateError(r.db.WithContext(ctx).Save(models.ContactModelFromDomain(contact)).Error)
}

// Delete removes a contact. Orders that referenced it keep a NULL contact.
func (r *GormContactRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OrderModel{}).
			Where("contact_id = ?", id).
			Update("contact_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ContactModel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByID finds a contact by ID
func (r *GormContactRepository) FindByID(ctx context.Context, id int64) (*identity.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUser finds a contact owned by the user
func (r *GormContactRepository) FindByIDForUser(ctx context.Context, userID, id int64) (*identity.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUser lists the user's contacts, oldest first
func (r *GormContactRepository) FindByUser(ctx context.Context, userID int64) ([]identity.Contact, error) {
	var rows []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	contacts := make([]identity.Contact, 0, len(rows))
	for i := range rows {
		contacts = append(contacts, *rows[i].ToDomain())
	}
	return contacts, nil
}

var (
	_ identity.UserRepository              = (*GormUserRepository)(nil)
	_ identity.EmailConfirmTokenRepository = (*GormEmailConfirmTokenRepository)(nil)
	_ identity.ContactRepository           = (*GormContactRepository)(nil)
)
