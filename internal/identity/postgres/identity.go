package postgres

import (
	"context"
	"time"

	identityDatamodel "github.com/frahmantamala/hr-assistant/internal/core/datamodel/identity"
	"github.com/frahmantamala/hr-assistant/internal/core/store"
	"github.com/frahmantamala/hr-assistant/internal/identity"
	"gorm.io/gorm"
)

// IdentityRepository implements identity.RepositoryAPI using GORM
type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) identity.RepositoryAPI {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) GetByToken(ctx context.Context, token string) (*identity.Link, error) {
	var row identityDatamodel.ChatLink
	if err := store.Conn(ctx, r.db).Where("session_token = ?", token).First(&row).Error; err != nil {
		return nil, store.Translate(err)
	}
	return identity.FromDataModel(&row), nil
}

func (r *IdentityRepository) GetByEmployee(ctx context.Context, employeeID int64) (*identity.Link, error) {
	var row identityDatamodel.ChatLink
	if err := store.Conn(ctx, r.db).Where("employee_id = ?", employeeID).First(&row).Error; err != nil {
		return nil, store.Translate(err)
	}
	return identity.FromDataModel(&row), nil
}

func (r *IdentityRepository) Create(ctx context.Context, l *identity.Link) error {
	if err := store.Conn(ctx, r.db).Create(identity.ToDataModel(l)).Error; err != nil {
		return store.Translate(err)
	}
	return nil
}

func (r *IdentityRepository) Touch(ctx context.Context, token string, at time.Time) error {
	err := store.Conn(ctx, r.db).
		Model(&identityDatamodel.ChatLink{}).
		Where("session_token = ?", token).
		Update("last_interaction", at).Error
	return store.Translate(err)
}

func (r *IdentityRepository) DeleteByToken(ctx context.Context, token string) error {
	err := store.Conn(ctx, r.db).
		Where("session_token = ?", token).
		Delete(&identityDatamodel.ChatLink{}).Error
	return store.Translate(err)
}
