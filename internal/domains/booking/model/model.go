package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"eventdesk/internal/domains/booking/conflict"
	"eventdesk/shared/model"
	"fmt"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldStartTime     = "start_time"
	FieldActivityTitle = "activity_title"
	FieldRequestorName = "requestor_name"
	FieldStatus        = "status"
	FieldRemarks       = "remarks"
	FieldAttachment    = "attachment"
	FieldCreatedBy     = "created_by"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var errUnsupportedEquipment = errors.New("unsupported equipment column type")

type Equipment struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Equipments is stored as a JSONB array.
type Equipments []Equipment

func (e Equipments) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}

	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal equipment: %w", err)
	}

	return raw, nil
}

func (e *Equipments) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		*e = Equipments{}

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return fmt.Errorf("%w: %T", errUnsupportedEquipment, src)
	}

	if err := json.Unmarshal(raw, e); err != nil {
		return fmt.Errorf("failed to unmarshal equipment: %w", err)
	}

	return nil
}

type Booking struct {
	ID            string     `db:"id"`
	StartDate     time.Time  `db:"start_date"`
	EndDate       time.Time  `db:"end_date"`
	StartTime     string     `db:"start_time"`
	EndTime       string     `db:"end_time"`
	ActivityTitle string     `db:"activity_title"`
	RequestorName string     `db:"requestor_name"`
	Name          string     `db:"name"`
	ContactNo     string     `db:"contact_no"`
	Email         string     `db:"email"`
	Equipment     Equipments `db:"equipment"`
	Remarks       string     `db:"remarks"`
	Status        string     `db:"status"`
	Attachment    string     `db:"attachment"`
	model.Metadata
}

// IsMultiDay reports whether the booking ends on a later day than it starts.
func (b Booking) IsMultiDay() bool {
	return !conflict.SameDay(b.StartDate, b.EndDate)
}

func (b Booking) ToConflict() conflict.Booking {
	return conflict.Booking{
		ID:        b.ID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}

func (b Booking) ToProposal() conflict.Proposal {
	return conflict.Proposal{
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}

func ToConflicts(bookings []Booking) []conflict.Booking {
	snapshot := make([]conflict.Booking, len(bookings))
	for i, b := range bookings {
		snapshot[i] = b.ToConflict()
	}

	return snapshot
}
