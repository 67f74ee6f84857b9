package bill

import (
	"context"
)

// UpsertResult reports what was stored for the bill before this upsert.
// Found is false on first observation; PriorStatus is only meaningful when
// Found is true.
type UpsertResult struct {
	PriorStatus Status
	Found       bool
}

// ListFilter narrows read queries. Zero values mean "no constraint".
type ListFilter struct {
	Topic        string
	Jurisdiction string
	Status       Status
	Limit        int
}

// Overview is the read-side row shape: bill display fields joined with the
// comma-separated topic labels.
type Overview struct {
	UID            string `db:"bill_uid"       json:"bill_uid"`
	Jurisdiction   string `db:"jurisdiction"   json:"jurisdiction"`
	Number         string `db:"bill_number"    json:"bill_number"`
	Title          string `db:"title"          json:"title"`
	Status         Status `db:"status_general" json:"status_general"`
	LastActionDate string `db:"last_action_date" json:"last_action_date"`
	EffectiveDate  string `db:"effective_date" json:"effective_date"`
	TopicLabels    string `db:"topic_labels"   json:"topic_labels"`
}

// Repository is the persistence contract for canonical bills.
//
// Upsert performs the three writes for one bill as a single atomic unit:
// full replace of the bill row keyed by UID, insert of each action keyed by
// its content digest only when absent, and full replace of the labels row.
// It reports the previously stored status so the caller can detect a
// transition. The read-prior/write-new sequence for one UID must not
// interleave across concurrent callers.
type Repository interface {
	Upsert(ctx context.Context, b *Bill, actions []Action, labels *Labels) (UpsertResult, error)
	List(ctx context.Context, filter *ListFilter) ([]*Overview, error)
	EffectiveBetween(ctx context.Context, start, end string) ([]*Overview, error)
}
