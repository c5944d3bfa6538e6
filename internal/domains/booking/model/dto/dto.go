package dto

import (
	"eventdesk/internal/domains/booking/model"
	"eventdesk/shared"
	"eventdesk/shared/constant"
	gDto "eventdesk/shared/dto"
	"eventdesk/shared/failure"
	gModel "eventdesk/shared/model"
	"eventdesk/shared/timezone"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCreated  = "booking.created"
	EventTypeUpdated  = "booking.updated"
	EventTypeApproved = "booking.approved"
	EventTypeRejected = "booking.rejected"
	EventTypeDeleted  = "booking.deleted"
)

const (
	queryStatus        = "status"
	queryStartDate     = "start_date"
	queryRequestorName = "requestor_name"
)

var errEndDateBeforeStartDate = failure.BadRequestFromString("end_date must not be before start_date")

type EquipmentRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Quantity int    `json:"quantity" validate:"omitempty,max=10000"`
}

// NormalizeEquipment trims names, merges duplicates case-insensitively by
// summing quantities and raises quantities below one to one.
func NormalizeEquipment(items []EquipmentRequest) model.Equipments {
	equipment := model.Equipments{}
	index := map[string]int{}

	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}

		quantity := max(item.Quantity, 1)
		key := strings.ToLower(name)

		if at, ok := index[key]; ok {
			equipment[at].Quantity += quantity

			continue
		}

		index[key] = len(equipment)
		equipment = append(equipment, model.Equipment{Name: name, Quantity: quantity})
	}

	return equipment
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(constant.DayLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	end, err := time.Parse(constant.DayLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errEndDateBeforeStartDate
	}

	return start, end, nil
}

type CreateBookingRequest struct {
	StartDate     string             `json:"start_date"     validate:"required,date"`
	EndDate       string             `json:"end_date"       validate:"required,date"`
	StartTime     string             `json:"start_time"     validate:"required,hhmm"`
	EndTime       string             `json:"end_time"       validate:"required,hhmm"`
	ActivityTitle string             `json:"activity_title" validate:"required,max=200"`
	RequestorName string             `json:"requestor_name" validate:"required,max=100"`
	Name          string             `json:"name"           validate:"omitempty,max=100"`
	ContactNo     string             `json:"contact_no"     validate:"omitempty,max=20"`
	Email         string             `json:"email"          validate:"omitempty,email,max=100"`
	Equipment     []EquipmentRequest `json:"equipment"      validate:"omitempty,dive"`
	Remarks       string             `json:"remarks"        validate:"omitempty,max=1000"`
}

func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	start, end, err := parseRange(c.StartDate, c.EndDate)
	if err != nil {
		return model.Booking{}, err
	}

	return model.Booking{
		ID:            uuid.NewString(),
		StartDate:     start,
		EndDate:       end,
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		ActivityTitle: strings.TrimSpace(c.ActivityTitle),
		RequestorName: strings.TrimSpace(c.RequestorName),
		Name:          strings.TrimSpace(c.Name),
		ContactNo:     strings.TrimSpace(c.ContactNo),
		Email:         strings.TrimSpace(c.Email),
		Equipment:     NormalizeEquipment(c.Equipment),
		Remarks:       c.Remarks,
		Status:        model.StatusPending,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}, nil
}

// UpdateBookingRequest is a partial update; empty fields keep their value.
type UpdateBookingRequest struct {
	StartDate     string             `db:"start_date"     json:"start_date"     validate:"omitempty,date"`
	EndDate       string             `db:"end_date"       json:"end_date"       validate:"omitempty,date"`
	StartTime     string             `db:"start_time"     json:"start_time"     validate:"omitempty,hhmm"`
	EndTime       string             `db:"end_time"       json:"end_time"       validate:"omitempty,hhmm"`
	ActivityTitle string             `db:"activity_title" json:"activity_title" validate:"omitempty,max=200"`
	RequestorName string             `db:"requestor_name" json:"requestor_name" validate:"omitempty,max=100"`
	Name          string             `db:"name"           json:"name"           validate:"omitempty,max=100"`
	ContactNo     string             `db:"contact_no"     json:"contact_no"     validate:"omitempty,max=20"`
	Email         string             `db:"email"          json:"email"          validate:"omitempty,email,max=100"`
	Equipment     []EquipmentRequest `json:"equipment"      validate:"omitempty,dive"`
	Remarks       string             `db:"remarks"        json:"remarks"        validate:"omitempty,max=1000"`
}

// ChangesSchedule reports whether any date or time field is set.
func (u *UpdateBookingRequest) ChangesSchedule() bool {
	return u.StartDate != "" || u.EndDate != "" || u.StartTime != "" || u.EndTime != ""
}

func (u *UpdateBookingRequest) IsEmpty() bool {
	return !u.ChangesSchedule() && u.Equipment == nil &&
		u.ActivityTitle == "" && u.RequestorName == "" && u.Name == "" &&
		u.ContactNo == "" && u.Email == "" && u.Remarks == ""
}

// Merge overlays the request on the stored booking.
func (u *UpdateBookingRequest) Merge(current model.Booking) (model.Booking, error) {
	merged := current

	startDate := current.StartDate.Format(constant.DayLayout)
	if u.StartDate != "" {
		startDate = u.StartDate
	}

	endDate := current.EndDate.Format(constant.DayLayout)
	if u.EndDate != "" {
		endDate = u.EndDate
	}

	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return model.Booking{}, err
	}

	merged.StartDate = start
	merged.EndDate = end

	if u.StartTime != "" {
		merged.StartTime = u.StartTime
	}

	if u.EndTime != "" {
		merged.EndTime = u.EndTime
	}

	for target, value := range map[*string]string{
		&merged.ActivityTitle: u.ActivityTitle,
		&merged.RequestorName: u.RequestorName,
		&merged.Name:          u.Name,
		&merged.ContactNo:     u.ContactNo,
		&merged.Email:         u.Email,
		&merged.Remarks:       u.Remarks,
	} {
		if value != "" {
			*target = value
		}
	}

	if u.Equipment != nil {
		merged.Equipment = NormalizeEquipment(u.Equipment)
	}

	return merged, nil
}

// Fields returns the columns to update.
func (u *UpdateBookingRequest) Fields(user string) map[string]any {
	fields := shared.TransformFields(*u, user)

	if u.Equipment != nil {
		fields["equipment"] = NormalizeEquipment(u.Equipment)
	}

	return fields
}

type UpdateStatusRequest struct {
	Status  string `json:"status"  validate:"required,oneof=pending approved rejected"`
	Remarks string `json:"remarks" validate:"omitempty,max=1000"`
}

func (u *UpdateStatusRequest) Fields(user string) map[string]any {
	fields := map[string]any{
		model.FieldStatus:        u.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if u.Remarks != "" {
		fields[model.FieldRemarks] = u.Remarks
	}

	return fields
}

// EventType maps a status change to the published event.
func (u *UpdateStatusRequest) EventType() string {
	switch u.Status {
	case model.StatusApproved:
		return EventTypeApproved
	case model.StatusRejected:
		return EventTypeRejected
	default:
		return EventTypeUpdated
	}
}

// BookingFilter holds the list filters accepted on GET /bookings.
type BookingFilter struct {
	Status        string `validate:"omitempty,oneof=pending approved rejected"`
	StartDate     string `validate:"omitempty,date"`
	RequestorName string `validate:"omitempty,max=100"`
	CreatedBy     string
}

func (f *BookingFilter) FromRequest(r *http.Request) {
	query := r.URL.Query()

	f.Status = query.Get(queryStatus)
	f.StartDate = query.Get(queryStartDate)
	f.RequestorName = query.Get(queryRequestorName)
}

func (f *BookingFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Status != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorEq})
	}

	if f.StartDate != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldStartDate, Value: f.StartDate, Operator: gDto.FilterOperatorEq})
	}

	if f.RequestorName != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldRequestorName, Value: f.RequestorName, Operator: gDto.FilterOperatorLike})
	}

	if f.CreatedBy != "" {
		group.Filters = append(group.Filters, gDto.Filter{Field: model.FieldCreatedBy, Value: f.CreatedBy, Operator: gDto.FilterOperatorEq})
	}

	return group
}

// SnapshotFilter selects bookings that can block [start, end]: those starting
// inside the range whose status is one of statuses.
func SnapshotFilter(start, end time.Time, statuses ...string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{ArgName: "range_start", Field: model.FieldStartDate, Value: start.Format(constant.DayLayout), Operator: gDto.FilterOperatorGreaterEq},
			gDto.Filter{ArgName: "range_end", Field: model.FieldStartDate, Value: end.Format(constant.DayLayout), Operator: gDto.FilterOperatorLessEq},
			gDto.Filter{Field: model.FieldStatus, Value: statuses, Operator: gDto.FilterOperatorIn},
		},
	}
}

// MonthFilter selects bookings whose date range touches the month.
func MonthFilter(first time.Time) gDto.FilterGroup {
	last := first.AddDate(0, 1, -1)

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{ArgName: "month_end", Field: model.FieldStartDate, Value: last.Format(constant.DayLayout), Operator: gDto.FilterOperatorLessEq},
			gDto.Filter{ArgName: "month_start", Field: "end_date", Value: first.Format(constant.DayLayout), Operator: gDto.FilterOperatorGreaterEq},
		},
	}
}

type EquipmentResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type BookingResponse struct {
	ID            string              `json:"id"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	StartTime     string              `json:"start_time"`
	EndTime       string              `json:"end_time"`
	ActivityTitle string              `json:"activity_title"`
	RequestorName string              `json:"requestor_name"`
	Name          string              `json:"name"`
	ContactNo     string              `json:"contact_no"`
	Email         string              `json:"email"`
	Equipment     []EquipmentResponse `json:"equipment"`
	Remarks       string              `json:"remarks"`
	Status        string              `json:"status"`
	Attachment    string              `json:"attachment"`
	MultiDay      bool                `json:"multi_day"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.StartDate = model.StartDate.Format(constant.DayLayout)
	r.EndDate = model.EndDate.Format(constant.DayLayout)
	r.StartTime = model.StartTime
	r.EndTime = model.EndTime
	r.ActivityTitle = model.ActivityTitle
	r.RequestorName = model.RequestorName
	r.Name = model.Name
	r.ContactNo = model.ContactNo
	r.Email = model.Email
	r.Remarks = model.Remarks
	r.Status = model.Status
	r.Attachment = model.Attachment
	r.MultiDay = model.IsMultiDay()
	r.Metadata.FromModel(model.Metadata)

	r.Equipment = make([]EquipmentResponse, len(model.Equipment))
	for i, item := range model.Equipment {
		r.Equipment[i] = EquipmentResponse{Name: item.Name, Quantity: item.Quantity}
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type CalendarResponse struct {
	Month    string            `json:"month"`
	Bookings []BookingResponse `json:"bookings"`
}

func (r *CalendarResponse) FromModels(month time.Time, models []model.Booking) {
	r.Month = month.Format(constant.MonthLayout)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingEvent is the message published for every booking lifecycle change.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  string `json:"booking_id"`
	Status     string `json:"status"`
	Title      string `json:"activity_title"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Actor      string `json:"actor"`
	OccurredAt string `json:"occurred_at"`
}

func NewBookingEvent(eventType string, booking model.Booking, actor string) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		Status:     booking.Status,
		Title:      booking.ActivityTitle,
		StartDate:  booking.StartDate.Format(constant.DayLayout),
		EndDate:    booking.EndDate.Format(constant.DayLayout),
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		Actor:      actor,
		OccurredAt: timezone.Now().Format(constant.DateFormat),
	}
}

// AttachmentContentTypes lists the accepted attachment formats.
var AttachmentContentTypes = []string{"application/pdf", "image/png", "image/jpeg"}

type AttachmentResponse struct {
	ID         string `json:"id"`
	Attachment string `json:"attachment"`
}
