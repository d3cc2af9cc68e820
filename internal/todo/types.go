package todo

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/todofewer/internal/winzone"
)

// TaskStatus indicates the state or progress of a task.
type TaskStatus string

const (
	StatusNotStarted      TaskStatus = "notStarted"
	StatusInProgress      TaskStatus = "inProgress"
	StatusCompleted       TaskStatus = "completed"
	StatusWaitingOnOthers TaskStatus = "waitingOnOthers"
	StatusDeferred        TaskStatus = "deferred"
)

// Importance of a task.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceNormal Importance = "normal"
	ImportanceHigh   Importance = "high"
)

// WellknownListName marks the special lists every mailbox has.
// "none" is what the service reports for ordinary lists; it is distinct
// from the field being absent.
type WellknownListName string

const (
	WellknownNone               WellknownListName = "none"
	WellknownDefaultList        WellknownListName = "defaultList"
	WellknownFlaggedEmails      WellknownListName = "flaggedEmails"
	WellknownUnknownFutureValue WellknownListName = "unknownFutureValue"
)

// Body holds the free-form description of a task.
type Body struct {
	Content     string `json:"content"`
	ContentType string `json:"contentType"` // "text" or "html"
}

// DateTimeTimeZone is the zone-tagged timestamp shape the Graph API uses
// for due, start, reminder and completed times. DateTime is a local
// ISO-8601 timestamp without offset; TimeZone names the zone it is local
// to and may be a Windows display name.
type DateTimeTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// localLayout parses Graph local timestamps. The trailing 9s make the
// fractional seconds optional, so "2023-01-15T09:00:00" and
// "2023-01-15T09:00:00.0000000" both parse.
const localLayout = "2006-01-02T15:04:05.9999999"

// wireLayout is how due dates are serialized when creating tasks.
const wireLayout = "2006-01-02T15:04:05.0000000"

// NewUTCDateTime builds a zone-tagged timestamp from t, rendered as a
// UTC wall-clock time the way the To Do clients themselves send it.
func NewUTCDateTime(t time.Time) DateTimeTimeZone {
	return DateTimeTimeZone{
		DateTime: t.UTC().Format(wireLayout),
		TimeZone: "UTC",
	}
}

// Time resolves the timestamp in its own zone. A zero DateTimeTimeZone
// yields a zero time and no error. An empty TimeZone is treated as UTC.
func (d DateTimeTimeZone) Time() (time.Time, error) {
	if d.DateTime == "" {
		return time.Time{}, nil
	}

	loc := time.UTC
	if d.TimeZone != "" {
		var err error
		loc, err = winzone.Location(d.TimeZone)
		if err != nil {
			return time.Time{}, fmt.Errorf("resolving time zone %q: %w", d.TimeZone, err)
		}
	}

	t, err := time.ParseInLocation(localLayout, d.DateTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", d.DateTime, err)
	}
	return t, nil
}

// IsZero reports whether the timestamp is absent.
func (d DateTimeTimeZone) IsZero() bool {
	return d.DateTime == ""
}

// TaskList is a To Do task list.
type TaskList struct {
	ID                string            `json:"id"`
	DisplayName       string            `json:"displayName"`
	IsOwner           bool              `json:"isOwner"`
	IsShared          bool              `json:"isShared"`
	WellknownListName WellknownListName `json:"wellknownListName"`
}

// String renders a one-line description of the list. Pipes in the display
// name are replaced so the output stays table-safe.
func (l TaskList) String() string {
	return sanitizeTitle(l.DisplayName)
}

// WebLink returns the To Do web app URL for the list.
func (l TaskList) WebLink() string {
	return "https://to-do.live.com/tasks/" + l.ID
}

// IsWellknown reports whether the list is one of the special mailbox lists
// (the service reports "none" for ordinary lists).
func (l TaskList) IsWellknown() bool {
	return l.WellknownListName != "" && l.WellknownListName != WellknownNone
}

// Task is a To Do task.
type Task struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Body                 *Body             `json:"body,omitempty"`
	Categories           []string          `json:"categories,omitempty"`
	Status               TaskStatus        `json:"status"`
	Importance           Importance        `json:"importance"`
	HasAttachments       bool              `json:"hasAttachments"`
	IsReminderOn         bool              `json:"isReminderOn"`
	CreatedDateTime      string            `json:"createdDateTime"`
	LastModifiedDateTime string            `json:"lastModifiedDateTime"`
	CompletedDateTime    *DateTimeTimeZone `json:"completedDateTime,omitempty"`
	DueDateTime          *DateTimeTimeZone `json:"dueDateTime,omitempty"`
	ReminderDateTime     *DateTimeTimeZone `json:"reminderDateTime,omitempty"`
	StartDateTime        *DateTimeTimeZone `json:"startDateTime,omitempty"`
}

// String renders a one-line description of the task, appending the due
// date when one is set and parseable.
func (t Task) String() string {
	title := sanitizeTitle(t.Title)
	if due, err := t.DueDate(); err == nil && !due.IsZero() {
		title += " • Due " + due.Format("2006-01-02")
	}
	return title
}

// BodyText returns the raw body content, or "" when the task has no body.
func (t Task) BodyText() string {
	if t.Body == nil {
		return ""
	}
	return t.Body.Content
}

// DueDate returns the due time in its own zone.
// Absent due dates yield a zero time and no error.
func (t Task) DueDate() (time.Time, error) {
	return zonedTime(t.DueDateTime)
}

// StartDate returns the scheduled start time in its own zone.
func (t Task) StartDate() (time.Time, error) {
	return zonedTime(t.StartDateTime)
}

// ReminderDate returns the reminder time in its own zone.
func (t Task) ReminderDate() (time.Time, error) {
	return zonedTime(t.ReminderDateTime)
}

// CompletedDate returns the completion time in its own zone.
func (t Task) CompletedDate() (time.Time, error) {
	return zonedTime(t.CompletedDateTime)
}

// CreatedDate returns the creation time in UTC.
func (t Task) CreatedDate() (time.Time, error) {
	return utcTime(t.CreatedDateTime)
}

// LastModDate returns the last modification time in UTC.
func (t Task) LastModDate() (time.Time, error) {
	return utcTime(t.LastModifiedDateTime)
}

func zonedTime(d *DateTimeTimeZone) (time.Time, error) {
	if d == nil {
		return time.Time{}, nil
	}
	return d.Time()
}

// utcTime parses the bare UTC timestamps used for created/lastModified.
// The service appends a Z suffix; tolerate its absence.
func utcTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(localLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

func sanitizeTitle(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "|", "—"))
}
