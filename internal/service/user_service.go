package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"waterlife-backoffice/internal/model"
	"waterlife-backoffice/internal/notify"
	"waterlife-backoffice/internal/repository"
	"waterlife-backoffice/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.UserResponse, error)
	AssignRole(ctx context.Context, req *AssignRoleRequest) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, id, actorID uuid.UUID) error
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)

	// Self-service
	UpdateName(ctx context.Context, userID uuid.UUID, req *UpdateNameRequest) (*model.UserResponse, error)
	UpdateEmail(ctx context.Context, userID uuid.UUID, req *UpdateEmailRequest) (*model.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=ADMIN CLIENT admin client"`
}

type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email"`
}

type AssignRoleRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"uuid_required"`
	Role   string    `json:"role" validate:"required"`
}

type UpdateNameRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type userService struct {
	identity IdentityProvider
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	notifier notify.Notifier
	log      *zap.Logger
}

func NewUserService(identity IdentityProvider, userRepo repository.UserRepository, roleRepo repository.RoleRepository, notifier notify.Notifier, log *zap.Logger) UserService {
	return &userService{
		identity: identity,
		userRepo: userRepo,
		roleRepo: roleRepo,
		notifier: notifier,
		log:      log.Named("users"),
	}
}

func validate(req interface{}) error {
	if err := validator.FirstError(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, actor Actor) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user := &model.User{Name: req.Name, Email: req.Email}
	user.CreatedBy = actor.audit()
	user.UpdatedBy = actor.audit()
	if err := s.identity.CreateUser(ctx, user, req.Password, req.Role); err != nil {
		return nil, err
	}

	// Best-effort: the account exists whether or not the email goes out
	if err := s.notifier.SendNewUserCredentials(ctx, user.Name, user.Email, req.Password); err != nil {
		s.log.Error("credentials email failed", zap.String("user_id", user.ID.String()), zap.String("to", user.Email), zap.Error(err))
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.identity.FindByID(ctx, id); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	taken, err := s.userRepo.EmailTaken(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflictError("email %s is already registered", email)
	}

	if err := s.userRepo.UpdateProfile(ctx, id, req.Name, email, actor.audit()); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}

// AssignRole replaces every role of the user with the given one.
func (s *userService) AssignRole(ctx context.Context, req *AssignRoleRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	user, err := s.identity.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.FindByCode(ctx, strings.ToUpper(req.Role))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationError("unknown role %s", req.Role)
		}
		return nil, err
	}
	if err := s.userRepo.ReplaceRoles(ctx, user, []model.Role{*role}); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, user.ID)
}

func (s *userService) DeleteUser(ctx context.Context, id, actorID uuid.UUID) error {
	if id == actorID {
		return conflictError("you cannot delete your own account")
	}
	if _, err := s.identity.FindByID(ctx, id); err != nil {
		return err
	}
	active, err := s.userRepo.HasActivity(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return conflictError("user has sales or comments and cannot be deleted")
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.UserResponse, len(users))
	for i := range users {
		out[i] = users[i].ToResponse()
	}
	return out, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.identity.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateName(ctx context.Context, userID uuid.UUID, req *UpdateNameRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	user, err := s.identity.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfile(ctx, userID, req.Name, user.Email, userID.String()); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}

func (s *userService) UpdateEmail(ctx context.Context, userID uuid.UUID, req *UpdateEmailRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := s.identity.ChangeEmail(ctx, userID, req.Email); err != nil {
		return nil, err
	}
	return s.GetUserByID(ctx, userID)
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	return s.identity.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword)
}
