package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	// User events
	EventUserCreated       = "user.created"
	EventUserUpdated       = "user.updated"
	EventUserDeleted       = "user.deleted"
	EventUserRoleChanged   = "user.role.changed"
	EventUserPasswordReset = "user.password.reset"

	// Department events
	EventDepartmentCreated  = "department.created"
	EventDepartmentUpdated  = "department.updated"
	EventDepartmentDisabled = "department.disabled"

	// Project events
	EventProjectCreated = "project.created"
	EventProjectUpdated = "project.updated"

	// Time entry events
	EventEntryCreated = "timesheet.entry.created"
	EventEntryUpdated = "timesheet.entry.updated"
	EventEntryDeleted = "timesheet.entry.deleted"
	EventQuickFilled  = "timesheet.quickfill.submitted"

	// Report events
	EventReportExported = "report.exported"
)

// Exchange names
const (
	ExchangeWorklogEvents = "worklog.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// User Events

// UserCreatedEvent is published when an admin creates a user
type UserCreatedEvent struct {
	UserID       string  `json:"user_id"`
	Username     string  `json:"username"`
	Role         string  `json:"role"`
	DepartmentID *string `json:"department_id,omitempty"`
	CreatedBy    string  `json:"created_by"`
}

// UserUpdatedEvent is published when a user's profile is updated
type UserUpdatedEvent struct {
	UserID    string         `json:"user_id"`
	Fields    map[string]any `json:"fields"`
	UpdatedBy string         `json:"updated_by"`
}

// UserDeletedEvent is published when a user is deleted
type UserDeletedEvent struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	DeletedBy string `json:"deleted_by"`
}

// UserRoleChangedEvent is published when a user's role changes
type UserRoleChangedEvent struct {
	UserID    string `json:"user_id"`
	OldRole   string `json:"old_role"`
	NewRole   string `json:"new_role"`
	ChangedBy string `json:"changed_by"`
}

// UserPasswordResetEvent is published when an admin resets a user's password
type UserPasswordResetEvent struct {
	UserID  string `json:"user_id"`
	ResetBy string `json:"reset_by"`
}

// Department Events

// DepartmentCreatedEvent is published when a department is created
type DepartmentCreatedEvent struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
}

// DepartmentUpdatedEvent is published when a department is updated
type DepartmentUpdatedEvent struct {
	DepartmentID string         `json:"department_id"`
	Fields       map[string]any `json:"fields"`
}

// DepartmentDisabledEvent is published when a department is soft disabled
type DepartmentDisabledEvent struct {
	DepartmentID string `json:"department_id"`
}

// Project Events

// ProjectCreatedEvent is published when a project is created
type ProjectCreatedEvent struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
}

// ProjectUpdatedEvent is published when a project is updated
type ProjectUpdatedEvent struct {
	ProjectID string         `json:"project_id"`
	Fields    map[string]any `json:"fields"`
}

// Time Entry Events

// EntryCreatedEvent is published when a time entry is logged
type EntryCreatedEvent struct {
	EntryID   string  `json:"entry_id"`
	UserID    string  `json:"user_id"`
	ProjectID string  `json:"project_id"`
	EntryDate string  `json:"entry_date"`
	Hours     float64 `json:"hours"`
}

// EntryUpdatedEvent is published when a time entry is updated
type EntryUpdatedEvent struct {
	EntryID string         `json:"entry_id"`
	UserID  string         `json:"user_id"`
	Fields  map[string]any `json:"fields"`
}

// EntryDeletedEvent is published when a time entry is deleted
type EntryDeletedEvent struct {
	EntryID string `json:"entry_id"`
	UserID  string `json:"user_id"`
}

// QuickFilledEvent is published when last week's entries are copied forward
type QuickFilledEvent struct {
	UserID     string  `json:"user_id"`
	EntryCount int     `json:"entry_count"`
	TotalHours float64 `json:"total_hours"`
}

// Report Events

// ReportExportedEvent is published when a report file is generated
type ReportExportedEvent struct {
	UserID   string `json:"user_id"`
	Scope    string `json:"scope"`
	Period   string `json:"period"`
	Format   string `json:"format"`
	Filename string `json:"filename"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}
