package identity

import (
	"net/mail"
	"strings"

	"github.com/kiylo/backend/internal/domain/shared"
)

// Role names used for access control
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

var knownRoles = map[string]struct{}{
	RoleSuperAdmin: {},
	RoleAdmin:      {},
	RoleUser:       {},
}

// User is an account holder. PasswordHash is a bcrypt digest; the
// plaintext password never reaches the domain layer.
type User struct {
	shared.BaseEntity
	Email        string   `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string   `gorm:"type:varchar(255);not null"`
	FirstName    string   `gorm:"type:varchar(100)"`
	LastName     string   `gorm:"type:varchar(100)"`
	Phone        string   `gorm:"type:varchar(30)"`
	Roles        []string `gorm:"serializer:json;type:text;not null"`
	IsActive     bool     `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with the given role set
func NewUser(email, passwordHash string, roles ...string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid email address")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Password hash is required")
	}
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}
	for _, r := range roles {
		if _, ok := knownRoles[r]; !ok {
			return nil, shared.NewDomainErrorf("INVALID_INPUT", "Unknown role %q", r)
		}
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        roles,
		IsActive:     true,
	}, nil
}

// HasAnyRole reports whether the user holds at least one of the given roles
func (u *User) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// FullName joins the user's first and last names
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}
