package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// FieldMap is a raw import row: field name to raw string value. Stored as
// a JSON blob so retry batches can carry the source row forward verbatim.
type FieldMap map[string]string

func (m FieldMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal field map: %w", err)
	}
	return string(b), nil
}

func (m *FieldMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported field map column type %T", value)
	}
	return json.Unmarshal(b, m)
}

// ReadSlot is one reading session parsed out of an import row.
type ReadSlot struct {
	StartDate  *time.Time `json:"start_date,omitempty"`
	FinishDate *time.Time `json:"finish_date,omitempty"`
	Progress   int        `json:"progress,omitempty"`
}

// ReadSlots serializes a record's parsed reading sessions as JSON.
type ReadSlots []ReadSlot

func (s ReadSlots) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal read slots: %w", err)
	}
	return string(b), nil
}

func (s *ReadSlots) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported read slots column type %T", value)
	}
	return json.Unmarshal(b, s)
}

// ImportBatch is one bulk-import job: a user's uploaded catalog export
// plus job-level configuration and completion state.
type ImportBatch struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"index" json:"user_id"`
	IncludeReviews bool           `json:"include_reviews"`
	Privacy        Privacy        `gorm:"size:20;default:'public'" json:"privacy"`
	RetryOfID      *uint          `gorm:"index" json:"retry_of_id,omitempty"`
	Complete       bool           `gorm:"default:false" json:"complete"`
	TaskRef        string         `gorm:"size:64" json:"task_ref,omitempty"`
	User           User           `gorm:"foreignKey:UserID" json:"-"`
	RetryOf        *ImportBatch   `gorm:"foreignKey:RetryOfID" json:"-"`
	Records        []ImportRecord `gorm:"foreignKey:BatchID" json:"records,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ImportRecord is one row of a batch plus its resolution outcome. Index is
// the row's position in the originating upload and is preserved through
// retry batches so failures map back to source rows.
type ImportRecord struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	BatchID    uint     `gorm:"index:idx_record_batch_index,unique" json:"batch_id"`
	Index      int      `gorm:"column:idx;index:idx_record_batch_index,unique" json:"index"`
	Data       FieldMap `gorm:"type:text" json:"data"`
	EditionID  *uint    `gorm:"index" json:"edition_id,omitempty"`
	FailReason string   `gorm:"size:256" json:"fail_reason,omitempty"`

	// Attributes derived from Data by the row parser, consumed by the
	// reconciler.
	Shelf      string     `gorm:"size:100" json:"shelf,omitempty"`
	Reads      ReadSlots  `gorm:"type:text" json:"reads,omitempty"`
	Rating     int        `json:"rating,omitempty"`
	ReviewText string     `gorm:"type:text" json:"review_text,omitempty"`
	DateRead   *time.Time `json:"date_read,omitempty"`
	DateAdded  *time.Time `json:"date_added,omitempty"`

	Batch   ImportBatch `gorm:"foreignKey:BatchID" json:"-"`
	Edition *Edition    `gorm:"foreignKey:EditionID" json:"edition,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Failed reports whether the record ended its single execution pass
// without producing side effects.
func (r *ImportRecord) Failed() bool {
	return r.FailReason != ""
}
