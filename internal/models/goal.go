package models

// DefaultChangeQuota is the number of free target adjustments a new goal gets.
const DefaultChangeQuota = 3

// DefaultGoalName is used when a goal is created without a name.
const DefaultGoalName = "Unnamed Goal"

// Role is a member's role within one goal.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleContributor Role = "contributor"
)

// Member represents one participant of a shared goal.
type Member struct {
	// ID is unique within the goal's member set.
	ID string

	// Name, Initials and Color are display data and passed through as-is.
	Name     string
	Initials string
	Color    string

	// Contribution is the running total this member has put into the goal.
	// It never goes negative.
	Contribution int64

	Role Role
}

// SharedGoal represents a savings target owned jointly by its members.
type SharedGoal struct {
	// ID is the unique identifier for the goal (UUID format for new goals).
	ID string

	Name string

	// TargetDate is optional and purely informational ("2025-10-12").
	TargetDate string

	// TargetAmount is the milestone amount. Always positive.
	TargetAmount int64

	// TotalSaved equals the sum of all member contributions.
	TotalSaved int64

	// ChangesRemaining counts the target adjustments still allowed.
	ChangesRemaining int

	// Members is ordered by join time; the creator comes first.
	Members []Member

	// SettlementPending is set between a deletion request and its approval.
	// A pending goal is still listed but rejects every mutation.
	SettlementPending bool

	// CreatedAt is the Unix timestamp when the goal was created.
	CreatedAt int64
}

// Clone returns a deep copy of the goal.
func (g *SharedGoal) Clone() *SharedGoal {
	if g == nil {
		return nil
	}
	c := *g
	c.Members = append([]Member(nil), g.Members...)
	return &c
}

// Member returns a pointer to the member with the given ID, or nil.
// The pointer aliases the goal's member slice.
func (g *SharedGoal) Member(memberID string) *Member {
	for i := range g.Members {
		if g.Members[i].ID == memberID {
			return &g.Members[i]
		}
	}
	return nil
}

// HasMember reports whether a member with the given ID belongs to the goal.
func (g *SharedGoal) HasMember(memberID string) bool {
	return g.Member(memberID) != nil
}
