package domain

import "time"

type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleMember MemberRole = "MEMBER"
)

// GroupMember is one caregiver identity inside a family group.
type GroupMember struct {
	Identity    int64      `json:"identity"`
	DisplayName string     `json:"display_name"`
	Role        MemberRole `json:"role"`
	JoinedAt    time.Time  `json:"joined_at"`
}

// FamilyGroup links caregiver identities that share one consolidated
// subject record. All activity data is stored under PrimaryIdentity so
// every member reads and writes the same state. Empty groups are retired
// (Active=false), never deleted, to preserve historical records.
type FamilyGroup struct {
	ID              string        `json:"id"`
	Code            string        `json:"code"`
	Name            string        `json:"name"`
	PrimaryIdentity int64         `json:"primary_identity"`
	Active          bool          `json:"active"`
	Members         []GroupMember `json:"members"`
	CreatedAt       time.Time     `json:"created_at"`
}

// MemberIdentities returns every identity in the group, including primary.
func (g *FamilyGroup) MemberIdentities() []int64 {
	ids := make([]int64, 0, len(g.Members))
	for _, m := range g.Members {
		ids = append(ids, m.Identity)
	}
	return ids
}

// OtherIdentities returns every member identity except the given one.
// Used for fan-out notifications that must not echo back to the actor.
func (g *FamilyGroup) OtherIdentities(exclude int64) []int64 {
	ids := make([]int64, 0, len(g.Members))
	for _, m := range g.Members {
		if m.Identity != exclude {
			ids = append(ids, m.Identity)
		}
	}
	return ids
}

// FindMember returns the member entry for an identity, if present.
func (g *FamilyGroup) FindMember(identity int64) (GroupMember, bool) {
	for _, m := range g.Members {
		if m.Identity == identity {
			return m, true
		}
	}
	return GroupMember{}, false
}
