package service

import (
	"context"
	"strings"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/repository"

	"github.com/google/uuid"
)

// IdentityProvider owns credentials and role membership. Other services reach
// users only through it.
type IdentityProvider interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	VerifyPassword(user *model.User, plaintext string) bool
	GetRoles(user *model.User) []string
	CreateUser(ctx context.Context, user *model.User, plaintext, roleCode string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	ChangeEmail(ctx context.Context, userID uuid.UUID, email string) error
	SetPassword(ctx context.Context, userID uuid.UUID, plaintext string) error
}

type identityProvider struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewIdentityProvider(userRepo repository.UserRepository, roleRepo repository.RoleRepository) IdentityProvider {
	return &identityProvider{userRepo: userRepo, roleRepo: roleRepo}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *identityProvider) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := p.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

func (p *identityProvider) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := p.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user")
	}
	return user, nil
}

func (p *identityProvider) VerifyPassword(user *model.User, plaintext string) bool {
	return user != nil && user.CheckPassword(plaintext)
}

func (p *identityProvider) GetRoles(user *model.User) []string {
	return user.RoleCodes()
}

// CreateUser hashes the password and stores the user holding roleCode.
// The role is created when it does not exist yet.
func (p *identityProvider) CreateUser(ctx context.Context, user *model.User, plaintext, roleCode string) error {
	user.Email = normalizeEmail(user.Email)
	taken, err := p.userRepo.EmailTaken(ctx, user.Email, uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return conflictError("email %s is already registered", user.Email)
	}

	role := model.Role{Code: strings.ToUpper(roleCode), Name: strings.ToUpper(roleCode)}
	if err := p.roleRepo.FirstOrCreate(ctx, &role); err != nil {
		return err
	}

	if err := user.SetPassword(plaintext); err != nil {
		return err
	}
	user.Roles = []model.Role{role}
	return p.userRepo.Create(ctx, user)
}

func (p *identityProvider) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := p.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(current) {
		return validationError("current password is incorrect")
	}
	return p.SetPassword(ctx, userID, next)
}

// SetPassword replaces the password without checking the current one.
func (p *identityProvider) SetPassword(ctx context.Context, userID uuid.UUID, plaintext string) error {
	var u model.User
	if err := u.SetPassword(plaintext); err != nil {
		return err
	}
	return p.userRepo.UpdatePassword(ctx, userID, u.Password)
}

func (p *identityProvider) ChangeEmail(ctx context.Context, userID uuid.UUID, email string) error {
	user, err := p.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	email = normalizeEmail(email)
	taken, err := p.userRepo.EmailTaken(ctx, email, userID)
	if err != nil {
		return err
	}
	if taken {
		return conflictError("email %s is already registered", email)
	}
	return p.userRepo.UpdateProfile(ctx, userID, user.Name, email, userID.String())
}
