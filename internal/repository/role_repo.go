package repository

import (
	"context"

	"waterlife-backoffice/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	FirstOrCreate(ctx context.Context, role *model.Role) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Order("id").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FirstOrCreate loads the role by code, inserting it when missing.
func (r *roleRepo) FirstOrCreate(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Where(model.Role{Code: role.Code}).FirstOrCreate(role).Error
}
