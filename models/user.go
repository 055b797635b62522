package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ParseRole maps identity provider role names onto Role. Unknown names fall
// back to RoleMember.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "org:admin":
		return RoleAdmin
	default:
		return RoleMember
	}
}

type OrgMembership struct {
	OrgID string `bson:"org_id" json:"orgId"`
	Role  Role   `bson:"role" json:"role"`
}

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TokenIdentifier string             `bson:"token_identifier" json:"tokenIdentifier"`
	Name            string             `bson:"name,omitempty" json:"name,omitempty"`
	Image           string             `bson:"image,omitempty" json:"image,omitempty"`
	Memberships     []OrgMembership    `bson:"org_ids" json:"orgIds"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Membership returns the first membership for orgID.
func (u *User) Membership(orgID string) (OrgMembership, bool) {
	for _, m := range u.Memberships {
		if m.OrgID == orgID {
			return m, true
		}
	}
	return OrgMembership{}, false
}

// IsAdminOf reports whether the user holds the admin role in orgID.
func (u *User) IsAdminOf(orgID string) bool {
	m, ok := u.Membership(orgID)
	return ok && m.Role == RoleAdmin
}

// Profile is the public view of a user shown next to the files they own.
type Profile struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}
