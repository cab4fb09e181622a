package model

import "time"

// RelType is the RELTYPE parameter on a RELATED-TO property. "PARENT" is
// the default: the codec assumes it when RELTYPE is absent and omits the
// parameter when encoding it. The sync engine treats no RelType specially.
type RelType string

const (
	RelTypeParent RelType = "PARENT"
)

// Relationship is a RELATED-TO property: the UID of the related item and
// its RELTYPE.
type Relationship struct {
	UID  string
	Type RelType
}

func (r Relationship) String() string { return string(r.Type) + ":" + r.UID }

// CompletionStatus is a Task's completion state. Completed may or may not
// carry a completion timestamp; Uncompleted never carries one.
type CompletionStatus struct {
	Completed      bool
	CompletionDate *time.Time
}

func Uncompleted() CompletionStatus { return CompletionStatus{} }

func Completed(at *time.Time) CompletionStatus {
	return CompletionStatus{Completed: true, CompletionDate: at}
}

// ExtraProperty is an unrecognized iCal property kept verbatim so it can be
// re-emitted on the next write.
type ExtraProperty struct {
	Name   string
	Value  string
	Params map[string][]string
}

// Task is a VTODO item.
type Task struct {
	URL            string
	UID            string
	Name           string
	CreationDate   *time.Time
	LastModified   time.Time
	Completion     CompletionStatus
	ProdID         string
	Relationships  []Relationship
	ExtraProperties []ExtraProperty

	status SyncStatus
}

func NewTask(url, name string, completed bool, prodID string) *Task {
	now := time.Now().UTC()
	return &Task{
		URL:          url,
		Name:         name,
		LastModified: now,
		CreationDate: &now,
		Completion:   CompletionStatus{Completed: completed},
		ProdID:       prodID,
		status:       NotSynced(),
	}
}

func (t *Task) SyncStatus() SyncStatus       { return t.status }
func (t *Task) SetSyncStatus(s SyncStatus)   { t.status = s }

// SetName changes the task's display name and marks it modified.
func (t *Task) SetName(name string) {
	t.Name = name
	t.touch()
}

// MarkCompleted flips the task's completion state.
func (t *Task) MarkCompleted(at *time.Time) {
	t.Completion = Completed(at)
	t.touch()
}

// MarkUncompleted flips the task back to uncompleted.
func (t *Task) MarkUncompleted() {
	t.Completion = Uncompleted()
	t.touch()
}

func (t *Task) touch() {
	t.LastModified = time.Now().UTC()
	MarkModifiedSinceLastSync(t)
}

// HasSameObservableContentAs compares the fields visible to a sync-pass
// invariant check (name, completion, UID) — not timestamps or sync state.
func (t *Task) HasSameObservableContentAs(other *Task) bool {
	if other == nil {
		return false
	}
	return t.UID == other.UID &&
		t.Name == other.Name &&
		t.Completion.Completed == other.Completion.Completed
}
