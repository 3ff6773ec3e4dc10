package domain

import "time"

// Workspace groups clips, notes, and focus sessions under a named context.
type Workspace struct {
	ID          string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewWorkspace creates a workspace with UTC timestamps.
func NewWorkspace(id, userID, name, description string) *Workspace {
	now := time.Now().UTC()
	return &Workspace{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clip is a captured fragment of text, optionally tied to a source page.
type Clip struct {
	ID          string    `json:"clip_id"`
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	Content     string    `json:"content"`
	URL         string    `json:"url,omitempty"`
	Title       string    `json:"title,omitempty"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewClip creates a clip with a UTC creation timestamp.
// Tags default to an empty slice so JSON output carries [] rather than null.
func NewClip(id, userID, workspaceID, content, url, title string, tags []string) *Clip {
	if tags == nil {
		tags = []string{}
	}
	return &Clip{
		ID:          id,
		UserID:      userID,
		WorkspaceID: workspaceID,
		Content:     content,
		URL:         url,
		Title:       title,
		Tags:        tags,
		CreatedAt:   time.Now().UTC(),
	}
}

// Note is a free-form text document.
type Note struct {
	ID          string    `json:"note_id"`
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	Content     string    `json:"content"`
	Title       string    `json:"title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewNote creates a note with UTC timestamps.
func NewNote(id, userID, workspaceID, title, content string) *Note {
	now := time.Now().UTC()
	return &Note{
		ID:          id,
		UserID:      userID,
		WorkspaceID: workspaceID,
		Title:       title,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Touch updates the note's modification timestamp.
func (n *Note) Touch() {
	n.UpdatedAt = time.Now().UTC()
}

// Task is a to-do item with an optional due date.
type Task struct {
	ID          string     `json:"task_id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTask creates a task with a UTC creation timestamp.
func NewTask(id, userID, title, description string, dueDate *time.Time) *Task {
	return &Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		CreatedAt:   time.Now().UTC(),
	}
}

// Bookmark is a saved page reference.
type Bookmark struct {
	ID        string    `json:"bookmark_id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Favicon   string    `json:"favicon,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBookmark creates a bookmark with a UTC creation timestamp.
func NewBookmark(id, userID, url, title, favicon string, tags []string) *Bookmark {
	if tags == nil {
		tags = []string{}
	}
	return &Bookmark{
		ID:        id,
		UserID:    userID,
		URL:       url,
		Title:     title,
		Favicon:   favicon,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}
}

// HistoryEntry records a single page visit.
type HistoryEntry struct {
	ID        string    `json:"history_id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	VisitedAt time.Time `json:"visited_at"`
}

// NewHistoryEntry creates a history entry stamped with the current UTC time.
func NewHistoryEntry(id, userID, url, title string) *HistoryEntry {
	return &HistoryEntry{
		ID:        id,
		UserID:    userID,
		URL:       url,
		Title:     title,
		VisitedAt: time.Now().UTC(),
	}
}

// Settings holds per-user UI preferences. Keyed by user ID; created with
// defaults on first read.
type Settings struct {
	UserID              string    `json:"user_id"`
	Theme               string    `json:"theme"`
	FontSize            string    `json:"font_size"`
	SpacingDensity      string    `json:"spacing_density"`
	DefaultSearchEngine string    `json:"default_search_engine"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings a user starts with.
func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:              userID,
		Theme:               "dark",
		FontSize:            "medium",
		SpacingDensity:      "comfortable",
		DefaultSearchEngine: "google",
		UpdatedAt:           time.Now().UTC(),
	}
}

// FocusSession stores an AI-generated focus plan: topic analysis, local
// matching rules, and synthesis templates. The nested payloads are kept as
// free-form documents since their shape is owned by the model prompt.
type FocusSession struct {
	ID                 string         `json:"session_id"`
	UserID             string         `json:"user_id"`
	WorkspaceID        string         `json:"workspace_id,omitempty"`
	Topic              map[string]any `json:"topic"`
	LocalMatchingRules map[string]any `json:"local_matching_rules"`
	SynthTemplates     map[string]any `json:"synth_templates"`
	Confidence         float64        `json:"confidence"`
	Notes              []string       `json:"notes"`
	Recommendations    map[string]any `json:"recommendations"`
	Status             string         `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
}

// FocusSessionStatusActive is the status a focus session starts in.
const FocusSessionStatusActive = "active"

// NewFocusSession creates an active focus session from a parsed model plan.
func NewFocusSession(id, userID, workspaceID string, plan FocusPlan) *FocusSession {
	return &FocusSession{
		ID:                 id,
		UserID:             userID,
		WorkspaceID:        workspaceID,
		Topic:              orEmpty(plan.Topic),
		LocalMatchingRules: orEmpty(plan.LocalMatchingRules),
		SynthTemplates:     orEmpty(plan.SynthTemplates),
		Confidence:         plan.Confidence,
		Notes:              orEmptySlice(plan.Notes),
		Recommendations:    orEmpty(plan.Recommendations),
		Status:             FocusSessionStatusActive,
		CreatedAt:          time.Now().UTC(),
	}
}

// FocusPlan is the JSON structure the model returns for a focus session.
type FocusPlan struct {
	SessionID          string         `json:"sessionId,omitempty"`
	Topic              map[string]any `json:"topic"`
	LocalMatchingRules map[string]any `json:"localMatchingRules"`
	SynthTemplates     map[string]any `json:"synthTemplates"`
	Confidence         float64        `json:"confidence"`
	Notes              []string       `json:"notes"`
	Recommendations    map[string]any `json:"recommendations"`
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// PageSummary stores the result of an AI page summarization.
type PageSummary struct {
	ID        string         `json:"summary_id"`
	UserID    string         `json:"user_id"`
	URL       string         `json:"url,omitempty"`
	Title     string         `json:"title,omitempty"`
	Summary   map[string]any `json:"summary"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewPageSummary records a model-produced page summary.
func NewPageSummary(id, userID, url, title string, summary map[string]any) *PageSummary {
	return &PageSummary{
		ID:        id,
		UserID:    userID,
		URL:       url,
		Title:     title,
		Summary:   orEmpty(summary),
		CreatedAt: time.Now().UTC(),
	}
}
