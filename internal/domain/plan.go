package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultGroupCount is the number of empty groups a freshly bootstrapped
// accommodation plan starts with.
const DefaultGroupCount = 5

// GroupName returns the display name for the group at 1-based position n.
// Deleting a group renumbers the survivors with this function, overwriting
// any custom name a caller had saved.
func GroupName(n int) string {
	return fmt.Sprintf("المجموعة %d", n)
}

// RoomCounts are the six advisory room counters shown on the accommodation
// sheet. They are supervisor-entered statistics and are deliberately not
// reconciled against the actual slot counts.
type RoomCounts struct {
	Single int `json:"single"`
	Double int `json:"double"`
	Triple int `json:"triple"`
	Quad   int `json:"quad"`
	Quint  int `json:"quint"`
	Six    int `json:"six"`
}

// Slot is one occupied room-assignment position. PersonID identifies either
// a main client or a companion; both draw from the same identifier space.
// DisplayName and DisplayIdentity are denormalized at assignment time so the
// sheet renders without a ledger lookup.
type Slot struct {
	PersonID        uuid.UUID `json:"person_id"`
	DisplayName     string    `json:"display_name"`
	DisplayIdentity string    `json:"display_identity,omitempty"`
}

// Group is one named room group holding an ordered list of slots.
// ID is stable across renames and renumbering; Name is the display name the
// delete-by-name boundary still keys on.
type Group struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slots []Slot    `json:"slots"`
}

// Plan is the accommodation plan for one trip: supervisor contact, advisory
// room counters, and the ordered group list. A person occupies at most one
// slot across the whole plan; every mutating method below preserves that.
type Plan struct {
	TripID          uuid.UUID  `json:"trip_id"`
	SupervisorName  string     `json:"supervisor_name,omitempty"`
	SupervisorPhone string     `json:"supervisor_phone,omitempty"`
	Rooms           RoomCounts `json:"rooms"`
	Groups          []Group    `json:"groups"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewPlan returns the default starting layout for a trip that has no
// persisted plan yet: DefaultGroupCount empty groups and zero counters.
func NewPlan(tripID uuid.UUID) Plan {
	groups := make([]Group, DefaultGroupCount)
	for i := range groups {
		groups[i] = Group{ID: uuid.New(), Name: GroupName(i + 1), Slots: []Slot{}}
	}
	return Plan{TripID: tripID, Groups: groups}
}

// findGroup returns the index of the first group with the given name, or -1.
// Name is the external key here because the sheet identifies groups by their
// displayed heading.
func (p *Plan) findGroup(name string) int {
	for i := range p.Groups {
		if p.Groups[i].Name == name {
			return i
		}
	}
	return -1
}

// Locate returns the group index and slot index occupied by personID, or
// (-1, -1) if the person is unassigned. O(n) over all slots, which is fine
// for the tens of people a trip carries.
func (p *Plan) Locate(personID uuid.UUID) (groupIdx, slotIdx int) {
	for gi := range p.Groups {
		for si := range p.Groups[gi].Slots {
			if p.Groups[gi].Slots[si].PersonID == personID {
				return gi, si
			}
		}
	}
	return -1, -1
}

// Assign appends a slot for the given person to the named group.
// Returns ErrNotFound if the group does not exist and ErrConflict if the
// person already occupies a slot anywhere in the plan.
func (p *Plan) Assign(groupName string, slot Slot) error {
	gi := p.findGroup(groupName)
	if gi < 0 {
		return fmt.Errorf("%w: group %q", ErrNotFound, groupName)
	}
	if g, _ := p.Locate(slot.PersonID); g >= 0 {
		return fmt.Errorf("%w: person already assigned to %q", ErrConflict, p.Groups[g].Name)
	}
	p.Groups[gi].Slots = append(p.Groups[gi].Slots, slot)
	return nil
}

// Move removes personID's slot from the source group and inserts it at
// toIndex in the destination group. Source and destination may be the same
// group, which reorders within it. toIndex is clamped to the destination's
// slot count. Returns ErrNotFound if the person is not assigned in the
// source group or either group name is unknown.
func (p *Plan) Move(personID uuid.UUID, fromGroup, toGroup string, toIndex int) error {
	fi := p.findGroup(fromGroup)
	ti := p.findGroup(toGroup)
	if fi < 0 || ti < 0 {
		return fmt.Errorf("%w: group", ErrNotFound)
	}

	si := -1
	for i, s := range p.Groups[fi].Slots {
		if s.PersonID == personID {
			si = i
			break
		}
	}
	if si < 0 {
		return fmt.Errorf("%w: person not assigned in %q", ErrNotFound, fromGroup)
	}

	slot := p.Groups[fi].Slots[si]
	p.Groups[fi].Slots = append(p.Groups[fi].Slots[:si], p.Groups[fi].Slots[si+1:]...)

	dst := p.Groups[ti].Slots
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(dst) {
		toIndex = len(dst)
	}
	dst = append(dst, Slot{})
	copy(dst[toIndex+1:], dst[toIndex:])
	dst[toIndex] = slot
	p.Groups[ti].Slots = dst
	return nil
}

// Unassign removes the slot at slotIndex from the named group, freeing that
// person for reassignment. The group itself is kept even when it becomes
// empty. Returns ErrNotFound for an unknown group or out-of-range index.
func (p *Plan) Unassign(groupName string, slotIndex int) error {
	gi := p.findGroup(groupName)
	if gi < 0 {
		return fmt.Errorf("%w: group %q", ErrNotFound, groupName)
	}
	slots := p.Groups[gi].Slots
	if slotIndex < 0 || slotIndex >= len(slots) {
		return fmt.Errorf("%w: slot %d in group %q", ErrNotFound, slotIndex, groupName)
	}
	p.Groups[gi].Slots = append(slots[:slotIndex], slots[slotIndex+1:]...)
	return nil
}

// DeleteGroup removes the named group together with all of its slots — the
// people in them become unassigned, not moved. Remaining groups are renamed
// to a contiguous ordinal sequence. Returns ErrNotFound for an unknown name.
func (p *Plan) DeleteGroup(name string) error {
	gi := p.findGroup(name)
	if gi < 0 {
		return fmt.Errorf("%w: group %q", ErrNotFound, name)
	}
	p.Groups = append(p.Groups[:gi], p.Groups[gi+1:]...)
	for i := range p.Groups {
		p.Groups[i].Name = GroupName(i + 1)
	}
	return nil
}

// Validate checks the invariants a plan must satisfy before it is persisted:
// no person in two slots, no negative room counters, no duplicate group ids.
// Group names are not required to be unique — the sheet allows it, and
// name-keyed operations resolve to the first match.
func (p *Plan) Validate() error {
	seen := make(map[uuid.UUID]string)
	gids := make(map[uuid.UUID]struct{}, len(p.Groups))
	for _, g := range p.Groups {
		if _, dup := gids[g.ID]; dup {
			return fmt.Errorf("%w: duplicate group id %s", ErrValidation, g.ID)
		}
		gids[g.ID] = struct{}{}
		for _, s := range g.Slots {
			if prev, dup := seen[s.PersonID]; dup {
				return fmt.Errorf("%w: person %s assigned in both %q and %q", ErrConflict, s.PersonID, prev, g.Name)
			}
			seen[s.PersonID] = g.Name
		}
	}
	for _, n := range []int{p.Rooms.Single, p.Rooms.Double, p.Rooms.Triple, p.Rooms.Quad, p.Rooms.Quint, p.Rooms.Six} {
		if n < 0 {
			return fmt.Errorf("%w: room counts must not be negative", ErrValidation)
		}
	}
	return nil
}
