package todo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeTimeZone_Time(t *testing.T) {
	t.Run("windows zone name", func(t *testing.T) {
		d := DateTimeTimeZone{DateTime: "2023-06-15T09:30:00.0000000", TimeZone: "Pacific Standard Time"}
		got, err := d.Time()
		require.NoError(t, err)

		loc, err := time.LoadLocation("America/Los_Angeles")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2023, 6, 15, 9, 30, 0, 0, loc), got)
	})

	t.Run("iana zone name", func(t *testing.T) {
		d := DateTimeTimeZone{DateTime: "2023-06-15T09:30:00", TimeZone: "Europe/Berlin"}
		got, err := d.Time()
		require.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", got.Location().String())
		assert.Equal(t, 9, got.Hour())
	})

	t.Run("empty zone defaults to UTC", func(t *testing.T) {
		d := DateTimeTimeZone{DateTime: "2023-06-15T09:30:00"}
		got, err := d.Time()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("absent timestamp is zero, not an error", func(t *testing.T) {
		got, err := (DateTimeTimeZone{}).Time()
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("unresolvable zone is an error", func(t *testing.T) {
		d := DateTimeTimeZone{DateTime: "2023-06-15T09:30:00", TimeZone: "Atlantis Standard Time"}
		_, err := d.Time()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Atlantis Standard Time")
	})

	t.Run("garbage timestamp is an error", func(t *testing.T) {
		d := DateTimeTimeZone{DateTime: "next tuesday", TimeZone: "UTC"}
		_, err := d.Time()
		assert.Error(t, err)
	})
}

func TestTaskDateAccessors(t *testing.T) {
	t.Run("absent fields yield zero times", func(t *testing.T) {
		var task Task
		for name, fn := range map[string]func() (time.Time, error){
			"due":       task.DueDate,
			"start":     task.StartDate,
			"reminder":  task.ReminderDate,
			"completed": task.CompletedDate,
			"created":   task.CreatedDate,
			"modified":  task.LastModDate,
		} {
			got, err := fn()
			require.NoError(t, err, name)
			assert.True(t, got.IsZero(), name)
		}
	})

	t.Run("due date resolves its zone", func(t *testing.T) {
		task := Task{DueDateTime: &DateTimeTimeZone{
			DateTime: "2023-12-24T18:00:00.0000000",
			TimeZone: "W. Europe Standard Time",
		}}
		got, err := task.DueDate()
		require.NoError(t, err)
		assert.Equal(t, "Europe/Berlin", got.Location().String())
		assert.Equal(t, 18, got.Hour())
	})

	t.Run("created date is UTC with Z suffix", func(t *testing.T) {
		task := Task{CreatedDateTime: "2020-07-21T17:02:24.1266391Z"}
		got, err := task.CreatedDate()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, got.Location())
		assert.Equal(t, 2020, got.Year())
		assert.Equal(t, 17, got.Hour())
	})

	t.Run("modified date tolerates missing Z", func(t *testing.T) {
		task := Task{LastModifiedDateTime: "2020-07-21T17:02:24.1266391"}
		got, err := task.LastModDate()
		require.NoError(t, err)
		assert.Equal(t, time.UTC, got.Location())
	})
}

func TestTaskListString(t *testing.T) {
	tests := []struct {
		name     string
		display  string
		expected string
	}{
		{"plain", "Groceries", "Groceries"},
		{"pipes replaced", "Work | Personal", "Work — Personal"},
		{"trimmed", "  Errands  ", "Errands"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := TaskList{DisplayName: tt.display}
			assert.Equal(t, tt.expected, list.String())
		})
	}
}

func TestTaskString(t *testing.T) {
	t.Run("without due date", func(t *testing.T) {
		task := Task{Title: " Buy milk | eggs "}
		assert.Equal(t, "Buy milk — eggs", task.String())
	})

	t.Run("with due date", func(t *testing.T) {
		task := Task{
			Title:       "Buy milk",
			DueDateTime: &DateTimeTimeZone{DateTime: "2023-12-24T18:00:00", TimeZone: "UTC"},
		}
		assert.Equal(t, "Buy milk • Due 2023-12-24", task.String())
	})

	t.Run("unparseable due date is left off", func(t *testing.T) {
		task := Task{
			Title:       "Buy milk",
			DueDateTime: &DateTimeTimeZone{DateTime: "garbage", TimeZone: "UTC"},
		}
		assert.Equal(t, "Buy milk", task.String())
	})
}

func TestTaskListWebLink(t *testing.T) {
	list := TaskList{ID: "AQMkAGVm"}
	assert.Equal(t, "https://to-do.live.com/tasks/AQMkAGVm", list.WebLink())
}

func TestTaskListIsWellknown(t *testing.T) {
	assert.False(t, TaskList{WellknownListName: WellknownNone}.IsWellknown())
	assert.False(t, TaskList{}.IsWellknown())
	assert.True(t, TaskList{WellknownListName: WellknownDefaultList}.IsWellknown())
	assert.True(t, TaskList{WellknownListName: WellknownFlaggedEmails}.IsWellknown())
}

func TestTaskJSONDecoding(t *testing.T) {
	raw := `{
		"id": "AAMkADAw",
		"title": "Review draft",
		"status": "inProgress",
		"importance": "high",
		"hasAttachments": true,
		"isReminderOn": false,
		"categories": ["writing"],
		"createdDateTime": "2023-01-05T08:00:00Z",
		"lastModifiedDateTime": "2023-01-06T09:00:00Z",
		"body": {"content": "second pass", "contentType": "text"},
		"dueDateTime": {"dateTime": "2023-01-10T17:00:00.0000000", "timeZone": "GMT Standard Time"}
	}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))

	assert.Equal(t, "AAMkADAw", task.ID)
	assert.Equal(t, "Review draft", task.Title)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, ImportanceHigh, task.Importance)
	assert.True(t, task.HasAttachments)
	assert.Equal(t, []string{"writing"}, task.Categories)
	assert.Equal(t, "second pass", task.BodyText())

	due, err := task.DueDate()
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", due.Location().String())
}

func TestBodyTextWithoutBody(t *testing.T) {
	assert.Equal(t, "", Task{}.BodyText())
}
