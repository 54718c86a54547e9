package repository

import (
	"context"
	"gorm.io/gorm"
	"real-time-dm-api/entity"
)

type UserRepository struct {
	Repository[entity.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (repository UserRepository) FindProfile(ctx context.Context, db *gorm.DB, id string) (*entity.User, error) {
	var user entity.User
	projection := db.Select("id", "name", "avatar", "created_at", "updated_at")
	if err := repository.FindById(ctx, projection, &user, id); err != nil {
		return nil, err
	}
	return &user, nil
}
