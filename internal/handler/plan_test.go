package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alrihal/umrah-office/internal/domain"
	"github.com/alrihal/umrah-office/internal/handler"
)

// mockAllocatorServicer is a test double for handler.AllocatorServicer.
type mockAllocatorServicer struct {
	planForTrip func(ctx context.Context, tripID uuid.UUID) (domain.Plan, error)
	savePlan    func(ctx context.Context, plan domain.Plan) (domain.Plan, error)
	deleteGroup func(ctx context.Context, tripID uuid.UUID, groupName string) (domain.Plan, error)
	deleteSlot  func(ctx context.Context, tripID uuid.UUID, groupName string, slotIndex int) (domain.Plan, error)
}

func (m *mockAllocatorServicer) PlanForTrip(ctx context.Context, tripID uuid.UUID) (domain.Plan, error) {
	return m.planForTrip(ctx, tripID)
}
func (m *mockAllocatorServicer) SavePlan(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	return m.savePlan(ctx, plan)
}
func (m *mockAllocatorServicer) DeleteGroup(ctx context.Context, tripID uuid.UUID, groupName string) (domain.Plan, error) {
	return m.deleteGroup(ctx, tripID, groupName)
}
func (m *mockAllocatorServicer) DeleteSlot(ctx context.Context, tripID uuid.UUID, groupName string, slotIndex int) (domain.Plan, error) {
	return m.deleteSlot(ctx, tripID, groupName, slotIndex)
}

// compile-time check: mockAllocatorServicer must satisfy handler.AllocatorServicer.
var _ handler.AllocatorServicer = (*mockAllocatorServicer)(nil)

// ---- GET /trips/{tripID}/plan ----------------------------------------------

func TestGetPlan_200_DefaultLayout(t *testing.T) {
	tripID := uuid.New()
	allocator := &mockAllocatorServicer{
		planForTrip: func(_ context.Context, id uuid.UUID) (domain.Plan, error) {
			return domain.NewPlan(id), nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/plan", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, allocator, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.Plan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, tripID, resp.TripID)
	require.Len(t, resp.Groups, domain.DefaultGroupCount)
	for _, g := range resp.Groups {
		assert.NotNil(t, g.Slots, "slots serialize as [], never null")
	}
}

func TestGetPlan_404_UnknownTrip(t *testing.T) {
	allocator := &mockAllocatorServicer{
		planForTrip: func(_ context.Context, _ uuid.UUID) (domain.Plan, error) {
			return domain.Plan{}, fmt.Errorf("%w: trip", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.New().String()+"/plan", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, allocator, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- PUT /trips/{tripID}/plan ----------------------------------------------

func TestSavePlan_200(t *testing.T) {
	tripID := uuid.New()
	personID := uuid.New()
	var got domain.Plan
	allocator := &mockAllocatorServicer{
		savePlan: func(_ context.Context, plan domain.Plan) (domain.Plan, error) {
			got = plan
			return plan, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"supervisor_name":  "Abu Khalid",
		"supervisor_phone": "+966500000000",
		"rooms":            map[string]int{"double": 3, "quad": 2},
		"groups": []map[string]any{
			{
				"name": "Group 1",
				"slots": []map[string]any{
					{"person_id": personID, "display_name": "Ahmed"},
				},
			},
			{"name": "Group 2"},
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/trips/"+tripID.String()+"/plan", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, allocator, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tripID, got.TripID, "trip id comes from the path, never the body")
	assert.Equal(t, "Abu Khalid", got.SupervisorName)
	assert.Equal(t, 3, got.Rooms.Double)
	require.Len(t, got.Groups, 2)
	require.Len(t, got.Groups[0].Slots, 1)
	assert.Equal(t, personID, got.Groups[0].Slots[0].PersonID)
}

func TestSavePlan_409_DuplicatePerson(t *testing.T) {
	allocator := &mockAllocatorServicer{
		savePlan: func(_ context.Context, _ domain.Plan) (domain.Plan, error) {
			return domain.Plan{}, fmt.Errorf("%w: person assigned twice", domain.ErrConflict)
		},
	}

	body := jsonBody(t, map[string]any{"groups": []map[string]any{}})

	req := httptest.NewRequest(http.MethodPut, "/trips/"+uuid.New().String()+"/plan", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, allocator, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", errorCode(t, rec))
}

func TestSavePlan_422_SlotWithoutName(t *testing.T) {
	body := jsonBody(t, map[string]any{
		"groups": []map[string]any{
			{
				"name": "Group 1",
				"slots": []map[string]any{
					{"person_id": uuid.New()},
				},
			},
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/trips/"+uuid.New().String()+"/plan", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, &mockAllocatorServicer{}, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- DELETE /trips/{tripID}/plan/groups/{groupName} ------------------------

func TestDeleteGroup_200(t *testing.T) {
	tripID := uuid.New()
	var gotName string
	allocator := &mockAllocatorServicer{
		deleteGroup: func(_ context.Context, _ uuid.UUID, groupName string) (domain.Plan, error) {
			gotName = groupName
			plan := domain.NewPlan(tripID)
			plan.Groups = plan.Groups[:domain.DefaultGroupCount-1]
			return plan, nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+tripID.String()+"/plan/groups/group-2", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, allocator, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "group-2", gotName)

	var resp domain.Plan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Groups, domain.DefaultGroupCount-1)
}

func TestDeleteGroup_404(t *testing.T) {
	allocator := &mockAllocatorServicer{
		deleteGroup: func(_ context.Context, _ uuid.UUID, _ string) (domain.Plan, error) {
			return domain.Plan{}, fmt.Errorf("%w: group", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+uuid.New().String()+"/plan/groups/nope", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, allocator, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE /trips/{tripID}/plan/groups/{groupName}/slots/{slotIndex} ------

func TestDeleteSlot_200(t *testing.T) {
	tripID := uuid.New()
	var gotIndex int
	allocator := &mockAllocatorServicer{
		deleteSlot: func(_ context.Context, _ uuid.UUID, _ string, slotIndex int) (domain.Plan, error) {
			gotIndex = slotIndex
			return domain.NewPlan(tripID), nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+tripID.String()+"/plan/groups/group-1/slots/2", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, allocator, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, gotIndex)
}

func TestDeleteSlot_422_BadIndex(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/trips/"+uuid.New().String()+"/plan/groups/group-1/slots/two", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, &mockAllocatorServicer{}, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteSlot_404_OutOfRange(t *testing.T) {
	allocator := &mockAllocatorServicer{
		deleteSlot: func(_ context.Context, _ uuid.UUID, _ string, _ int) (domain.Plan, error) {
			return domain.Plan{}, fmt.Errorf("%w: slot", domain.ErrNotFound)
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/trips/"+uuid.New().String()+"/plan/groups/group-1/slots/9", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, allocator, nil, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
