package staff

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role controls what a staff member can do through the API.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDoctor    Role = "doctor"
	RoleSecretary Role = "secretary"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RoleSecretary:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Practitioner is a clinic staff member. Only active doctors are
// bookable for appointments; admins and secretaries manage the rest.
type Practitioner struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Role      Role
	Specialty *string
	Phone     string
	Email     string
	Active    bool
	// CredentialHash is the bcrypt hash of the API credential.
	// Never serialized in responses.
	CredentialHash string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Practitioner) FullName() string {
	return p.FirstName + " " + p.LastName
}
