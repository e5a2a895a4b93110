package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is both a login identity and, when holding the CLIENT role, a customer.
// Email doubles as the login name.
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Roles    []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// RoleCodes returns role codes ordered by role id.
func (u *User) RoleCodes() []string {
	roles := make([]Role, len(u.Roles))
	copy(roles, u.Roles)
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })

	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.Code
	}
	return codes
}

// PrimaryRole is the role carried in the access token. Empty when the user has none.
func (u *User) PrimaryRole() string {
	codes := u.RoleCodes()
	if len(codes) == 0 {
		return ""
	}
	return codes[0]
}

func (u *User) HasRole(code string) bool {
	for _, r := range u.Roles {
		if r.Code == code {
			return true
		}
	}
	return false
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Roles:     u.RoleCodes(),
		CreatedAt: u.CreatedAt,
	}
}

// UserRef is the short form embedded in sales and comments.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

func (u *User) Ref() *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
