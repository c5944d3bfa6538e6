package dto

import (
	"eventdesk/shared/constant"
	"eventdesk/shared/model"
	"eventdesk/shared/timezone"
	"time"
)

// Metadata is the audit block of a response, rendered in the application
// timezone. Edited is set once the record changed after it was created.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at"`
	ModifiedBy string `json:"modified_by"`
	Edited     bool   `json:"edited"`
}

func (m *Metadata) FromModel(source model.Metadata) {
	*m = Metadata{
		CreatedAt:  auditTime(source.CreatedAt),
		CreatedBy:  source.CreatedBy,
		ModifiedAt: auditTime(source.ModifiedAt),
		ModifiedBy: source.ModifiedBy,
		Edited:     source.ModifiedAt.After(source.CreatedAt),
	}
}

// auditTime leaves unset timestamps empty instead of printing year one.
func auditTime(value time.Time) string {
	if value.IsZero() {
		return constant.Empty
	}

	return timezone.Format(value, constant.DateFormat)
}
