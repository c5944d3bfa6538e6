package dto

import (
	"eventdesk/internal/domains/booking/model"
	"eventdesk/shared/constant"
	"eventdesk/shared/failure"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
)

const (
	FilterAll      = "all"
	FilterUpcoming = "upcoming"
	FilterToday    = "today"
)

// ParseFilter defaults an empty filter to upcoming.
func ParseFilter(value string) (string, error) {
	switch value {
	case constant.Empty:
		return FilterUpcoming, nil
	case FilterAll, FilterUpcoming, FilterToday:
		return value, nil
	default:
		return constant.Empty, failure.BadRequestFromString(fmt.Sprintf("filter must be one of %s, %s or %s", FilterAll, FilterUpcoming, FilterToday)) //nolint:wrapcheck
	}
}

var dayConverter = copier.TypeConverter{
	SrcType: time.Time{},
	DstType: copier.String,
	Fn: func(src any) (any, error) {
		day, ok := src.(time.Time)
		if !ok {
			return nil, fmt.Errorf("unexpected date type %T", src)
		}

		return day.Format(constant.DayLayout), nil
	},
}

type EventResponse struct {
	ID            string `json:"id"`
	ActivityTitle string `json:"title"`
	RequestorName string `json:"organizer"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Remarks       string `json:"remarks"`
	MultiDay      bool   `json:"multi_day"`
}

func (r *EventResponse) FromModel(booking model.Booking) error {
	if err := copier.CopyWithOption(r, &booking, copier.Option{Converters: []copier.TypeConverter{dayConverter}}); err != nil {
		return fmt.Errorf("failed to map event: %w", err)
	}

	r.MultiDay = booking.IsMultiDay()

	return nil
}

type EventGroup struct {
	Month  string          `json:"month"`
	Events []EventResponse `json:"events"`
}

type GetEventsResponse struct {
	Filter string       `json:"filter"`
	Total  int          `json:"total"`
	Groups []EventGroup `json:"groups"`
}

// FromModels groups bookings, already in start order, under "January 2006" titles.
func (r *GetEventsResponse) FromModels(filter string, bookings []model.Booking) error {
	r.Filter = filter
	r.Total = len(bookings)
	r.Groups = []EventGroup{}

	for _, booking := range bookings {
		var event EventResponse
		if err := event.FromModel(booking); err != nil {
			return err
		}

		month := booking.StartDate.Format(constant.MonthTitleLayout)
		if last := len(r.Groups) - 1; last >= 0 && r.Groups[last].Month == month {
			r.Groups[last].Events = append(r.Groups[last].Events, event)

			continue
		}

		r.Groups = append(r.Groups, EventGroup{Month: month, Events: []EventResponse{event}})
	}

	return nil
}
