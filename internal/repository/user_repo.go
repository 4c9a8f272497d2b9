package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-catalog-api/internal/model"
	"go-catalog-api/internal/storeerr"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return storeerr.TranslateError(r.db.WithContext(ctx).Create(user).Error, "User")
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return storeerr.TranslateError(r.db.WithContext(ctx).Save(user).Error, "User")
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, storeerr.TranslateError(err, "User")
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, storeerr.TranslateError(err, "User")
	}
	return &user, nil
}
