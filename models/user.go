package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleEngineer Role = "engineer"
	RoleManager  Role = "manager"
)

func (r Role) Valid() bool {
	return r == RoleEngineer || r == RoleManager
}

func (r *Role) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(r), "role", func(s string) bool { return Role(s).Valid() })
}

type Seniority string

const (
	SeniorityJunior Seniority = "junior"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
)

// Valid reports whether s is a known level. The empty value means "not set".
func (s Seniority) Valid() bool {
	switch s {
	case "", SeniorityJunior, SeniorityMid, SenioritySenior:
		return true
	}
	return false
}

func (s *Seniority) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, (*string)(s), "seniority", func(v string) bool { return Seniority(v).Valid() })
}

// DefaultAvailablePercentage is applied when registration omits availablePercentage.
const DefaultAvailablePercentage = 100

type User struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	CreatedAt           time.Time                   `json:"-"`
	UpdatedAt           time.Time                   `json:"-"`
	Email               string                      `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Name                string                      `gorm:"not null;size:255" json:"name"`
	Role                Role                        `gorm:"not null;size:20;index" json:"role"`
	Skills              datatypes.JSONSlice[string] `json:"skills"`
	Seniority           Seniority                   `gorm:"size:20" json:"seniority,omitempty"`
	MaxCapacity         *int                        `json:"maxCapacity"`
	Department          string                      `gorm:"size:255" json:"department,omitempty"`
	AvailablePercentage int                         `gorm:"not null" json:"availablePercentage"`
	PasswordHash        string                      `gorm:"not null;size:255" json:"-"`
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

func (u *User) IsEngineer() bool {
	return u.Role == RoleEngineer
}

// CanView reports whether u may read the profile of userID.
func (u *User) CanView(userID uint) bool {
	if u.IsManager() {
		return true
	}
	return u.ID == userID
}

// unmarshalEnum decodes a JSON string into dst, rejecting values valid does not accept.
// A JSON null leaves dst untouched.
func unmarshalEnum(data []byte, dst *string, name string, valid func(string) bool) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s must be a string", name)
	}
	if !valid(s) {
		return &EnumError{Field: name, Value: s}
	}
	*dst = s
	return nil
}

// EnumError is returned when a JSON value is outside a closed enumeration.
type EnumError struct {
	Field string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}
