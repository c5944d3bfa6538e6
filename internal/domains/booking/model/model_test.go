package model_test

import (
	"eventdesk/internal/domains/booking/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquipments_Value(t *testing.T) {
	value, err := model.Equipments{{Name: "Projector", Quantity: 2}}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Projector","quantity":2}]`, string(value.([]byte)))

	value, err = model.Equipments(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(value.([]byte)))
}

func TestEquipments_Scan(t *testing.T) {
	tests := []struct {
		name        string
		src         any
		expected    model.Equipments
		expectError bool
	}{
		{name: "bytes", src: []byte(`[{"name":"Chairs","quantity":30}]`), expected: model.Equipments{{Name: "Chairs", Quantity: 30}}},
		{name: "string", src: `[{"name":"Mic","quantity":1}]`, expected: model.Equipments{{Name: "Mic", Quantity: 1}}},
		{name: "null", src: nil, expected: model.Equipments{}},
		{name: "unsupported type", src: 42, expectError: true},
		{name: "broken json", src: []byte(`[{`), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var equipment model.Equipments

			err := equipment.Scan(tt.src)

			if tt.expectError {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, equipment)
		})
	}
}

func TestBooking_IsMultiDay(t *testing.T) {
	start := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	assert.False(t, model.Booking{StartDate: start, EndDate: start}.IsMultiDay())
	assert.True(t, model.Booking{StartDate: start, EndDate: start.AddDate(0, 0, 2)}.IsMultiDay())
}

func TestToConflicts(t *testing.T) {
	start := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	bookings := []model.Booking{{ID: "b-1", StartDate: start, EndDate: start, StartTime: "09:00", EndTime: "10:00"}}

	snapshot := model.ToConflicts(bookings)

	require.Len(t, snapshot, 1)
	assert.Equal(t, "b-1", snapshot[0].ID)
	assert.Equal(t, "09:00", snapshot[0].StartTime)
	assert.Equal(t, bookings[0].ToProposal().EndTime, "10:00")
}
