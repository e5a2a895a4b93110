package repository

import (
	"context"

	"waterlife-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	EmailTaken(ctx context.Context, email string, exceptID uuid.UUID) (bool, error)
	Create(ctx context.Context, user *model.User) error
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email, updatedBy string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	ReplaceRoles(ctx context.Context, user *model.User, roles []model.Role) error
	HasActivity(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Roles").Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) EmailTaken(ctx context.Context, email string, exceptID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	if exceptID != uuid.Nil {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Create inserts the user together with its role links.
func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, email, updatedBy string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"email":      email,
			"updated_by": updatedBy,
		}).Error
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hashedPassword).Error
}

func (r *userRepo) ReplaceRoles(ctx context.Context, user *model.User, roles []model.Role) error {
	return r.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles)
}

// HasActivity reports whether the user is referenced by sales or comments.
func (r *userRepo) HasActivity(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)

	var sales int64
	if err := db.Model(&model.Sale{}).
		Where("customer_id = ? OR created_by_admin_id = ?", id, id).
		Count(&sales).Error; err != nil {
		return false, err
	}
	if sales > 0 {
		return true, nil
	}

	var comments int64
	if err := db.Model(&model.Comment{}).
		Where("user_id = ? OR replied_by_id = ?", id, id).
		Count(&comments).Error; err != nil {
		return false, err
	}
	return comments > 0, nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := model.User{BaseModel: model.BaseModel{ID: id}}
		if err := tx.Model(&user).Association("Roles").Clear(); err != nil {
			return err
		}
		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}
