package dto_test

import (
	"eventdesk/internal/domains/booking/model"
	"eventdesk/internal/domains/booking/model/dto"
	"eventdesk/shared/constant"
	"eventdesk/shared/failure"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	parsed, _ := time.Parse(constant.DayLayout, value)

	return parsed
}

func TestNormalizeEquipment(t *testing.T) {
	tests := []struct {
		name     string
		items    []dto.EquipmentRequest
		expected model.Equipments
	}{
		{
			name:     "nil list",
			items:    nil,
			expected: model.Equipments{},
		},
		{
			name: "quantity floor of one",
			items: []dto.EquipmentRequest{
				{Name: "Projector", Quantity: 0},
				{Name: "Speaker", Quantity: -4},
			},
			expected: model.Equipments{{Name: "Projector", Quantity: 1}, {Name: "Speaker", Quantity: 1}},
		},
		{
			name: "duplicates are merged",
			items: []dto.EquipmentRequest{
				{Name: " Chairs ", Quantity: 20},
				{Name: "chairs", Quantity: 10},
				{Name: "Mic", Quantity: 2},
			},
			expected: model.Equipments{{Name: "Chairs", Quantity: 30}, {Name: "Mic", Quantity: 2}},
		},
		{
			name:     "blank names are dropped",
			items:    []dto.EquipmentRequest{{Name: "   ", Quantity: 3}},
			expected: model.Equipments{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, dto.NormalizeEquipment(tt.items)); diff != "" {
				t.Errorf("NormalizeEquipment() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		StartDate:     "2025-03-14",
		EndDate:       "2025-03-16",
		StartTime:     "09:00",
		EndTime:       "11:30",
		ActivityTitle: " Youth Camp ",
		RequestorName: "Ana Cruz",
		Equipment:     []dto.EquipmentRequest{{Name: "Tent", Quantity: 0}},
	}

	booking, err := req.ToModel("ana@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, date("2025-03-14"), booking.StartDate)
	assert.Equal(t, date("2025-03-16"), booking.EndDate)
	assert.Equal(t, "Youth Camp", booking.ActivityTitle)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, model.Equipments{{Name: "Tent", Quantity: 1}}, booking.Equipment)
	assert.Equal(t, "ana@example.com", booking.CreatedBy)
	assert.True(t, booking.IsMultiDay())
}

func TestCreateBookingRequest_ToModelRejectsReversedDates(t *testing.T) {
	req := dto.CreateBookingRequest{StartDate: "2025-03-16", EndDate: "2025-03-14", StartTime: "09:00", EndTime: "10:00"}

	_, err := req.ToModel("ana@example.com")

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestUpdateBookingRequest_Merge(t *testing.T) {
	current := model.Booking{
		ID:        "b-1",
		StartDate: date("2025-03-14"),
		EndDate:   date("2025-03-14"),
		StartTime: "09:00",
		EndTime:   "10:00",
		Equipment: model.Equipments{{Name: "Mic", Quantity: 1}},
	}

	tests := []struct {
		name        string
		req         dto.UpdateBookingRequest
		changes     bool
		expected    model.Booking
		expectError bool
	}{
		{
			name:     "title only keeps schedule",
			req:      dto.UpdateBookingRequest{ActivityTitle: "Renamed"},
			changes:  false,
			expected: current,
		},
		{
			name:    "new end time",
			req:     dto.UpdateBookingRequest{EndTime: "12:00"},
			changes: true,
			expected: func() model.Booking {
				b := current
				b.EndTime = "12:00"

				return b
			}(),
		},
		{
			name:    "extended range and equipment",
			req:     dto.UpdateBookingRequest{EndDate: "2025-03-15", Equipment: []dto.EquipmentRequest{{Name: "Tables", Quantity: 4}}},
			changes: true,
			expected: func() model.Booking {
				b := current
				b.EndDate = date("2025-03-15")
				b.Equipment = model.Equipments{{Name: "Tables", Quantity: 4}}

				return b
			}(),
		},
		{
			name:        "start moved past end",
			req:         dto.UpdateBookingRequest{StartDate: "2025-03-20"},
			changes:     true,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.changes, tt.req.ChangesSchedule())

			merged, err := tt.req.Merge(current)
			if tt.expectError {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, merged)
		})
	}
}

func TestUpdateBookingRequest_Fields(t *testing.T) {
	req := dto.UpdateBookingRequest{Remarks: "bring extension cords", Equipment: []dto.EquipmentRequest{}}

	fields := req.Fields("admin@example.com")

	assert.Equal(t, "bring extension cords", fields["remarks"])
	assert.Equal(t, model.Equipments{}, fields["equipment"])
	assert.Equal(t, "admin@example.com", fields[constant.FieldModifiedBy])
	assert.NotContains(t, fields, "start_date")
}

func TestUpdateStatusRequest(t *testing.T) {
	tests := []struct {
		status    string
		eventType string
	}{
		{status: model.StatusApproved, eventType: dto.EventTypeApproved},
		{status: model.StatusRejected, eventType: dto.EventTypeRejected},
		{status: model.StatusPending, eventType: dto.EventTypeUpdated},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			req := dto.UpdateStatusRequest{Status: tt.status}

			assert.Equal(t, tt.eventType, req.EventType())

			fields := req.Fields("admin")
			assert.Equal(t, tt.status, fields[model.FieldStatus])
			assert.NotContains(t, fields, model.FieldRemarks)
		})
	}
}

func TestBookingFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings?status=approved&requestor_name=ana", nil)

	filter := dto.BookingFilter{}
	filter.FromRequest(req)

	group := filter.ToFilterGroup()
	where, args := group.GetWhereClause()

	assert.Equal(t, "(status = :status AND LOWER(requestor_name) LIKE LOWER(:requestor_name))", where)
	assert.Equal(t, map[string]any{"status": "approved", "requestor_name": "%ana%"}, args)
}

func TestSnapshotFilter(t *testing.T) {
	group := dto.SnapshotFilter(date("2025-03-14"), date("2025-03-16"), model.StatusPending, model.StatusApproved)

	where, args := group.GetWhereClause()

	assert.Equal(t, "(start_date >= :range_start AND start_date <= :range_end AND status IN (:status_0, :status_1))", where)
	assert.Equal(t, map[string]any{
		"range_start": "2025-03-14",
		"range_end":   "2025-03-16",
		"status_0":    model.StatusPending,
		"status_1":    model.StatusApproved,
	}, args)
}

func TestMonthFilter(t *testing.T) {
	group := dto.MonthFilter(date("2024-02-01"))
	_, args := group.GetWhereClause()

	assert.Equal(t, map[string]any{"month_end": "2024-02-29", "month_start": "2024-02-01"}, args)
}

func TestBookingResponse_FromModel(t *testing.T) {
	booking := model.Booking{
		ID:            "b-1",
		StartDate:     date("2025-03-14"),
		EndDate:       date("2025-03-14"),
		StartTime:     "09:00",
		EndTime:       "10:00",
		ActivityTitle: "Choir",
		Status:        model.StatusApproved,
		Equipment:     model.Equipments{{Name: "Piano", Quantity: 1}},
	}

	res := dto.BookingResponse{}
	res.FromModel(booking)

	assert.Equal(t, "2025-03-14", res.StartDate)
	assert.False(t, res.MultiDay)
	assert.Equal(t, []dto.EquipmentResponse{{Name: "Piano", Quantity: 1}}, res.Equipment)

	list := dto.GetBookingsResponse{}
	list.FromModels([]model.Booking{booking}, 11, 10)

	assert.Equal(t, 2, list.TotalPage)
	assert.Len(t, list.Bookings, 1)
}

func TestNewBookingEvent(t *testing.T) {
	event := dto.NewBookingEvent(dto.EventTypeCreated, model.Booking{ID: "b-1", Status: model.StatusPending, StartDate: date("2025-03-14"), EndDate: date("2025-03-14")}, "ana")

	assert.Equal(t, dto.EventTypeCreated, event.Type)
	assert.Equal(t, "b-1", event.BookingID)
	assert.Equal(t, "2025-03-14", event.StartDate)
	assert.Equal(t, "ana", event.Actor)
	assert.NotEmpty(t, event.OccurredAt)
}
