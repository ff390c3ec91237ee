package domain

// Known status values. The store never validates inbound status strings;
// an unrecognized value is stored verbatim and the task simply renders
// outside every known column.
const (
	StatusTodo       = "todo"
	StatusInProgress = "inprogress"
	StatusDone       = "done"
)

// Known priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Known category values.
const (
	CategoryBug         = "bug"
	CategoryFeature     = "feature"
	CategoryEnhancement = "enhancement"
)

// Attachment is a file reference nested under a task. URL is an opaque
// reference into attachment storage and is not addressable outside the
// owning task.
type Attachment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"type"`
	URL      string `json:"url"`
}

// Task represents a single board card.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	Category    string       `json:"category"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   string       `json:"createdAt"`
}

// Clone returns a copy of the task whose attachment slice does not alias
// the original.
func (t Task) Clone() Task {
	if t.Attachments != nil {
		atts := make([]Attachment, len(t.Attachments))
		copy(atts, t.Attachments)
		t.Attachments = atts
	}
	return t
}

// TaskPatch carries a partial task update. A nil field was absent from
// the incoming JSON and leaves the stored value untouched. CreatedAt is
// deliberately not patchable: it is assigned once at creation and any
// value a client sends for it is discarded on decode.
type TaskPatch struct {
	ID          string        `json:"id"`
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Status      *string       `json:"status,omitempty"`
	Priority    *string       `json:"priority,omitempty"`
	Category    *string       `json:"category,omitempty"`
	Attachments *[]Attachment `json:"attachments,omitempty"`
}

// Apply merges the patch onto t, overwriting exactly the fields present
// in the patch.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Attachments != nil {
		atts := make([]Attachment, len(*p.Attachments))
		copy(atts, *p.Attachments)
		t.Attachments = atts
	}
}
