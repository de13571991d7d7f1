package models

import "github.com/harentsoaR/clinic-auth/internal/store"

// UsersCollection is the Mongo collection backing the account directory.
const UsersCollection = "users"

// UserType enumerates account roles. The numbering carries no ranking;
// authorization policy decides what each role may do.
type UserType int

const (
	UserTypeSuperAdmin UserType = iota + 1
	UserTypeAdmin
	UserTypeDoctor
	UserTypeClinicalAssistant
)

func (t UserType) String() string {
	switch t {
	case UserTypeSuperAdmin:
		return "SuperAdmin"
	case UserTypeAdmin:
		return "Admin"
	case UserTypeDoctor:
		return "Doctor"
	case UserTypeClinicalAssistant:
		return "ClinicalAssistant"
	}
	return "Unknown"
}

// UserTypeFromString maps a role claim back to its UserType. Reports false
// for anything it does not recognize.
func UserTypeFromString(s string) (UserType, bool) {
	switch s {
	case "SuperAdmin":
		return UserTypeSuperAdmin, true
	case "Admin":
		return UserTypeAdmin, true
	case "Doctor":
		return UserTypeDoctor, true
	case "ClinicalAssistant":
		return UserTypeClinicalAssistant, true
	}
	return 0, false
}

// User is an account in the directory. Email is stored lowercase and is
// unique among all accounts, soft-deleted ones included. PasswordHash and
// the refresh-token set never leave the process as JSON.
type User struct {
	store.Audit   `bson:",inline"`
	Email         string   `bson:"email" json:"email"`
	FirstName     string   `bson:"firstName" json:"firstName"`
	LastName      string   `bson:"lastName" json:"lastName"`
	Phone         string   `bson:"phone" json:"phone"`
	PasswordHash  string   `bson:"passwordHash" json:"-"`
	Type          UserType `bson:"type" json:"type"`
	RefreshTokens []string `bson:"refreshTokens" json:"-"`
}

// FullName is the display name carried in access-token claims.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
