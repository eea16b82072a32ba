package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case SessionResult:
		o.printSession(v)
	case Game:
		o.printGame(v)
	case Snapshot:
		o.printSnapshot(v)
	case SnapshotData:
		o.printSnapshotData(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Session response type
type Session struct {
	ID        string    `json:"id"`
	Tier      string    `json:"tier"`
	Full      bool      `json:"full"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResult combines session and user
type SessionResult struct {
	Session Session `json:"session"`
	User    User    `json:"user"`
}

// Game response type
type Game struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
	Unprotected   bool      `json:"unprotected"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	TutorialName  *string   `json:"tutorial_name"`
	TutorialIndex *int      `json:"tutorial_index"`
}

// Snapshot response type
type Snapshot struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	OwnerName *string   `json:"owner_name"`
	Code      string    `json:"code"`
}

// SnapshotData response type
type SnapshotData struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	OwnerName *string   `json:"owner_name"`
	Code      string    `json:"code"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func orNone(s *string) string {
	if s == nil {
		return "(none)"
	}
	return *s
}

func (o *Output) printSession(s SessionResult) {
	fmt.Fprintf(o.w, "User: %s <%s> (%s)\n", orNone(s.User.Username), s.User.Email, s.User.ID)
	fmt.Fprintf(o.w, "Session: %s\n", s.Session.ID)
	fmt.Fprintf(o.w, "Tier: %s\n", s.Session.Tier)
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s (%s)\n", g.Name, g.ID)
	fmt.Fprintf(o.w, "Owner: %s\n", g.OwnerID)
	fmt.Fprintf(o.w, "Unprotected: %t\n", g.Unprotected)
	fmt.Fprintf(o.w, "Modified: %s\n", g.ModifiedAt.Format(time.RFC3339))
	if g.TutorialName != nil {
		idx := "-"
		if g.TutorialIndex != nil {
			idx = fmt.Sprint(*g.TutorialIndex)
		}
		fmt.Fprintf(o.w, "Tutorial: %s #%s\n", *g.TutorialName, idx)
	}
	fmt.Fprintf(o.w, "\n%s\n", g.Code)
}

func (o *Output) printSnapshot(s Snapshot) {
	fmt.Fprintf(o.w, "Snapshot: %s\n", s.ID)
	fmt.Fprintf(o.w, "Game: %s (%s)\n", s.Name, s.GameID)
	fmt.Fprintf(o.w, "Owner: %s\n", orNone(s.OwnerName))
}

func (o *Output) printSnapshotData(s SnapshotData) {
	fmt.Fprintf(o.w, "Snapshot: %s\n", s.ID)
	fmt.Fprintf(o.w, "Name: %s\n", s.Name)
	fmt.Fprintf(o.w, "Owner: %s\n", orNone(s.OwnerName))
	fmt.Fprintf(o.w, "Taken: %s\n", s.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(o.w, "\n%s\n", s.Code)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
