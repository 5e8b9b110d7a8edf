package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alrihal/umrah-office/internal/domain"
)

// planFixture returns a plan with n empty, ordinally named groups.
func planFixture(n int) domain.Plan {
	groups := make([]domain.Group, n)
	for i := range groups {
		groups[i] = domain.Group{ID: uuid.New(), Name: domain.GroupName(i + 1), Slots: []domain.Slot{}}
	}
	return domain.Plan{TripID: uuid.New(), Groups: groups}
}

func slotFor(name string) domain.Slot {
	return domain.Slot{PersonID: uuid.New(), DisplayName: name}
}

// assignedPersons returns the set of person ids currently seated in the plan.
func assignedPersons(p domain.Plan) map[uuid.UUID]bool {
	out := map[uuid.UUID]bool{}
	for _, g := range p.Groups {
		for _, s := range g.Slots {
			out[s.PersonID] = true
		}
	}
	return out
}

func TestNewPlan_DefaultLayout(t *testing.T) {
	tripID := uuid.New()
	p := domain.NewPlan(tripID)

	assert.Equal(t, tripID, p.TripID)
	require.Len(t, p.Groups, domain.DefaultGroupCount)
	for i, g := range p.Groups {
		assert.Equal(t, domain.GroupName(i+1), g.Name)
		assert.Empty(t, g.Slots)
		assert.NotEqual(t, uuid.Nil, g.ID)
	}
	assert.Equal(t, domain.RoomCounts{}, p.Rooms)
}

func TestPlan_Assign(t *testing.T) {
	p := planFixture(3)
	slot := slotFor("Ahmed")

	require.NoError(t, p.Assign(p.Groups[0].Name, slot))

	require.Len(t, p.Groups[0].Slots, 1)
	assert.Equal(t, slot.PersonID, p.Groups[0].Slots[0].PersonID)
}

func TestPlan_Assign_UnknownGroup(t *testing.T) {
	p := planFixture(3)

	err := p.Assign("no such group", slotFor("Ahmed"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlan_Assign_DuplicatePerson(t *testing.T) {
	p := planFixture(3)
	slot := slotFor("Ahmed")
	require.NoError(t, p.Assign(p.Groups[0].Name, slot))

	err := p.Assign(p.Groups[1].Name, slot)

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, p.Groups[1].Slots, "failed assign must not seat the person")
	assert.Len(t, p.Groups[0].Slots, 1, "original seat must be untouched")
}

func TestPlan_Move_AcrossGroups(t *testing.T) {
	p := planFixture(3)
	slot := slotFor("Ahmed")
	require.NoError(t, p.Assign(p.Groups[0].Name, slot))

	require.NoError(t, p.Move(slot.PersonID, p.Groups[0].Name, p.Groups[1].Name, 0))

	assert.Empty(t, p.Groups[0].Slots)
	require.Len(t, p.Groups[1].Slots, 1)
	assert.Equal(t, slot.PersonID, p.Groups[1].Slots[0].PersonID)
	assert.Len(t, assignedPersons(p), 1, "person must never hold two seats")
}

func TestPlan_Move_ReorderWithinGroup(t *testing.T) {
	p := planFixture(1)
	first, second, third := slotFor("A"), slotFor("B"), slotFor("C")
	g := p.Groups[0].Name
	require.NoError(t, p.Assign(g, first))
	require.NoError(t, p.Assign(g, second))
	require.NoError(t, p.Assign(g, third))

	// Move C to the front of the same group.
	require.NoError(t, p.Move(third.PersonID, g, g, 0))

	got := make([]uuid.UUID, 0, 3)
	for _, s := range p.Groups[0].Slots {
		got = append(got, s.PersonID)
	}
	assert.Equal(t, []uuid.UUID{third.PersonID, first.PersonID, second.PersonID}, got)
}

func TestPlan_Move_NotAssignedInSource(t *testing.T) {
	p := planFixture(2)
	slot := slotFor("Ahmed")
	require.NoError(t, p.Assign(p.Groups[0].Name, slot))

	// Wrong source group.
	err := p.Move(slot.PersonID, p.Groups[1].Name, p.Groups[0].Name, 0)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlan_Unassign(t *testing.T) {
	p := planFixture(2)
	slot := slotFor("Ahmed")
	require.NoError(t, p.Assign(p.Groups[0].Name, slot))

	require.NoError(t, p.Unassign(p.Groups[0].Name, 0))

	assert.Empty(t, p.Groups[0].Slots)
	assert.Len(t, p.Groups, 2, "unassign must not delete the group")

	// The freed person can be seated again.
	assert.NoError(t, p.Assign(p.Groups[1].Name, slot))
}

func TestPlan_Unassign_OutOfRange(t *testing.T) {
	p := planFixture(1)

	assert.ErrorIs(t, p.Unassign(p.Groups[0].Name, 0), domain.ErrNotFound)
	assert.ErrorIs(t, p.Unassign(p.Groups[0].Name, -1), domain.ErrNotFound)
}

func TestPlan_DeleteGroup_RenumbersAndKeepsOthers(t *testing.T) {
	p := planFixture(3)
	inFirst := slotFor("A")
	inSecond := slotFor("B")
	inThird := slotFor("C")
	require.NoError(t, p.Assign(p.Groups[0].Name, inFirst))
	require.NoError(t, p.Assign(p.Groups[1].Name, inSecond))
	require.NoError(t, p.Assign(p.Groups[2].Name, inThird))

	require.NoError(t, p.DeleteGroup(domain.GroupName(2)))

	require.Len(t, p.Groups, 2)
	assert.Equal(t, domain.GroupName(1), p.Groups[0].Name)
	assert.Equal(t, domain.GroupName(2), p.Groups[1].Name, "survivors renumber contiguously")

	// Exactly the deleted group's people are gone; the others kept their seats.
	seated := assignedPersons(p)
	assert.True(t, seated[inFirst.PersonID])
	assert.False(t, seated[inSecond.PersonID], "deleted group's person becomes unassigned")
	assert.True(t, seated[inThird.PersonID])
}

func TestPlan_DeleteGroup_UnknownName(t *testing.T) {
	p := planFixture(2)

	assert.ErrorIs(t, p.DeleteGroup("no such group"), domain.ErrNotFound)
}

func TestPlan_Validate_DuplicatePerson(t *testing.T) {
	p := planFixture(2)
	dup := uuid.New()
	p.Groups[0].Slots = []domain.Slot{{PersonID: dup, DisplayName: "A"}}
	p.Groups[1].Slots = []domain.Slot{{PersonID: dup, DisplayName: "A"}}

	assert.ErrorIs(t, p.Validate(), domain.ErrConflict)
}

func TestPlan_Validate_NegativeRooms(t *testing.T) {
	p := planFixture(1)
	p.Rooms.Double = -1

	assert.ErrorIs(t, p.Validate(), domain.ErrValidation)
}

func TestPlan_Validate_OK(t *testing.T) {
	p := planFixture(3)
	require.NoError(t, p.Assign(p.Groups[0].Name, slotFor("A")))
	require.NoError(t, p.Assign(p.Groups[1].Name, slotFor("B")))

	assert.NoError(t, p.Validate())
}

// TestPlan_Scenario walks the full assign/conflict/move/delete sequence and
// checks the single-assignment invariant at each step.
func TestPlan_Scenario(t *testing.T) {
	p := planFixture(3)
	g1, g2 := p.Groups[0].Name, p.Groups[1].Name
	p1 := slotFor("P1")

	require.NoError(t, p.Assign(g1, p1))
	require.Len(t, p.Groups[0].Slots, 1)

	assert.ErrorIs(t, p.Assign(g2, p1), domain.ErrConflict)

	require.NoError(t, p.Move(p1.PersonID, g1, g2, 0))
	assert.Empty(t, p.Groups[0].Slots)
	require.Len(t, p.Groups[1].Slots, 1)

	require.NoError(t, p.DeleteGroup(g2))
	assert.Empty(t, assignedPersons(p), "P1 must not survive the group deletion")
	require.Len(t, p.Groups, 2)
	assert.Equal(t, domain.GroupName(1), p.Groups[0].Name)
	assert.Equal(t, domain.GroupName(2), p.Groups[1].Name)
}
