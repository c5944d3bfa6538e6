package dto_test

import (
	"eventdesk/internal/domains/booking/model"
	"eventdesk/internal/domains/event/model/dto"
	"eventdesk/shared/failure"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: dto.FilterUpcoming},
		{in: "all", want: dto.FilterAll},
		{in: "today", want: dto.FilterToday},
		{in: "upcoming", want: dto.FilterUpcoming},
		{in: "past", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := dto.ParseFilter(tt.in)
			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func booking(id string, start, end time.Time, startTime string) model.Booking {
	return model.Booking{
		ID:            id,
		StartDate:     start,
		EndDate:       end,
		StartTime:     startTime,
		EndTime:       "23:00",
		ActivityTitle: "Event " + id,
		RequestorName: "Ana",
		Status:        model.StatusApproved,
	}
}

func TestGetEventsResponse_FromModels(t *testing.T) {
	mar1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mar30 := time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC)
	apr2 := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)

	var res dto.GetEventsResponse
	require.NoError(t, res.FromModels(dto.FilterAll, []model.Booking{
		booking("a", mar1, mar1, "09:00"),
		booking("b", mar30, apr2, "18:00"),
		booking("c", apr2, apr2, "10:00"),
	}))

	want := dto.GetEventsResponse{
		Filter: dto.FilterAll,
		Total:  3,
		Groups: []dto.EventGroup{
			{Month: "March 2025", Events: []dto.EventResponse{
				{ID: "a", ActivityTitle: "Event a", RequestorName: "Ana", StartDate: "2025-03-01", EndDate: "2025-03-01", StartTime: "09:00", EndTime: "23:00"},
				{ID: "b", ActivityTitle: "Event b", RequestorName: "Ana", StartDate: "2025-03-30", EndDate: "2025-04-02", StartTime: "18:00", EndTime: "23:00", MultiDay: true},
			}},
			{Month: "April 2025", Events: []dto.EventResponse{
				{ID: "c", ActivityTitle: "Event c", RequestorName: "Ana", StartDate: "2025-04-02", EndDate: "2025-04-02", StartTime: "10:00", EndTime: "23:00"},
			}},
		},
	}

	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("FromModels() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetEventsResponse_Empty(t *testing.T) {
	var res dto.GetEventsResponse
	require.NoError(t, res.FromModels(dto.FilterToday, nil))

	assert.Equal(t, 0, res.Total)
	assert.NotNil(t, res.Groups)
}
