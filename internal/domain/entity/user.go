// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultProfileImage is used for review snapshots when the author has no avatar.
const DefaultProfileImage = "default.jpg"

// Gender is the normalized gender of a library member.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// NormalizeGender upper-cases the first letter and lower-cases the rest,
// so "fEMALE" and "female" are both stored as "Female".
func NormalizeGender(raw string) Gender {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	return Gender(strings.ToUpper(raw[:1]) + strings.ToLower(raw[1:]))
}

// IsValid checks if the Gender is one of the accepted values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// User is a registered library member. Email, username and national ID are unique.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never leaves the service.
	FullName     string    `json:"fullName"`
	BirthDate    time.Time `json:"birthDate"`
	Gender       Gender    `json:"gender"`
	NationalID   string    `json:"nationalId"`
	Phone        string    `json:"phone"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Role         Role      `json:"role"`
	Address      Address   `json:"address"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Roles returns the roles carried in the user's access token.
func (u *User) Roles() Roles {
	if u.Role == "" {
		return Roles{RoleUser}
	}

	return Roles{u.Role}
}

// AvatarOrDefault returns the profile image, falling back to DefaultProfileImage.
func (u *User) AvatarOrDefault() string {
	if u.ProfileImage == "" {
		return DefaultProfileImage
	}

	return u.ProfileImage
}
