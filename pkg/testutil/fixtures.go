package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProfileFixture represents a test user profile
type ProfileFixture struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	DepartmentID *string
	IsActive     bool
	CreatedAt    time.Time
}

// DepartmentFixture represents a test department
type DepartmentFixture struct {
	ID       string
	Name     string
	Code     string
	IsActive bool
}

// ProjectFixture represents a test project
type ProjectFixture struct {
	ID       string
	Name     string
	Color    string
	IsActive bool
}

// EntryFixture represents a test time entry
type EntryFixture struct {
	ID        string
	UserID    string
	ProjectID string
	EntryDate time.Time
	Hours     float64
	Note      *string
}

// FixtureFactory creates test fixtures with unique sequential values
type FixtureFactory struct {
	mu  sync.Mutex
	seq int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{}
}

func (f *FixtureFactory) nextSeq() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq
}

// Profile creates a member profile fixture with optional overrides
func (f *FixtureFactory) Profile(opts ...func(*ProfileFixture)) ProfileFixture {
	seq := f.nextSeq()
	p := ProfileFixture{
		ID:       uuid.New().String(),
		Username: fmt.Sprintf("user%d", seq),
		// bcrypt hash of "password123"
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMye1J1xZvHHyT1F0mBqFhXgXoGmIOyDGS6",
		Role:         "member",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithUsername overrides the fixture username
func WithUsername(username string) func(*ProfileFixture) {
	return func(p *ProfileFixture) {
		p.Username = username
	}
}

// WithRole overrides the fixture role
func WithRole(role string) func(*ProfileFixture) {
	return func(p *ProfileFixture) {
		p.Role = role
	}
}

// WithProfileDepartment assigns the profile to a department
func WithProfileDepartment(departmentID string) func(*ProfileFixture) {
	return func(p *ProfileFixture) {
		p.DepartmentID = &departmentID
	}
}

// WithInactive marks the profile as deactivated
func WithInactive() func(*ProfileFixture) {
	return func(p *ProfileFixture) {
		p.IsActive = false
	}
}

// Department creates a department fixture with optional overrides
func (f *FixtureFactory) Department(opts ...func(*DepartmentFixture)) DepartmentFixture {
	seq := f.nextSeq()
	d := DepartmentFixture{
		ID:       uuid.New().String(),
		Name:     fmt.Sprintf("Department %d", seq),
		Code:     fmt.Sprintf("DEPT%d", seq),
		IsActive: true,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WithDepartmentName overrides the department name
func WithDepartmentName(name string) func(*DepartmentFixture) {
	return func(d *DepartmentFixture) {
		d.Name = name
	}
}

// Project creates a project fixture with optional overrides
func (f *FixtureFactory) Project(opts ...func(*ProjectFixture)) ProjectFixture {
	seq := f.nextSeq()
	p := ProjectFixture{
		ID:       uuid.New().String(),
		Name:     fmt.Sprintf("Project %d", seq),
		Color:    "#7C9CBF",
		IsActive: true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithProjectName overrides the project name
func WithProjectName(name string) func(*ProjectFixture) {
	return func(p *ProjectFixture) {
		p.Name = name
	}
}

// WithProjectColor overrides the project color
func WithProjectColor(color string) func(*ProjectFixture) {
	return func(p *ProjectFixture) {
		p.Color = color
	}
}

// WithProjectInactive disables the project
func WithProjectInactive() func(*ProjectFixture) {
	return func(p *ProjectFixture) {
		p.IsActive = false
	}
}

// Entry creates a time entry fixture with optional overrides
func (f *FixtureFactory) Entry(userID, projectID string, opts ...func(*EntryFixture)) EntryFixture {
	e := EntryFixture{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProjectID: projectID,
		EntryDate: time.Now().UTC().Truncate(24 * time.Hour),
		Hours:     8,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// WithEntryDate overrides the entry date
func WithEntryDate(date time.Time) func(*EntryFixture) {
	return func(e *EntryFixture) {
		e.EntryDate = date
	}
}

// WithHours overrides the logged hours
func WithHours(hours float64) func(*EntryFixture) {
	return func(e *EntryFixture) {
		e.Hours = hours
	}
}

// WithNote attaches a note to the entry
func WithNote(note string) func(*EntryFixture) {
	return func(e *EntryFixture) {
		e.Note = &note
	}
}
