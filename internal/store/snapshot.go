package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/idilsaglam/techtrack/internal/model"
)

// ExportTimeLayout is ISO-8601 in UTC with millisecond precision.
const ExportTimeLayout = "2006-01-02T15:04:05.000Z"

// Snapshot is the export document.
type Snapshot struct {
	ExportedAt   string              `json:"exportedAt"`
	Technologies []model.TrackedItem `json:"technologies"`

	at time.Time
}

// Marshal renders the snapshot as indented JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// ExportFileName is the default file name for an export made at t. The
// date is taken in UTC, like ExportedAt.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("tech-tracker-%s.json", t.UTC().Format("2006-01-02"))
}

// FileName is the default file name for this snapshot.
func (s Snapshot) FileName() string {
	return ExportFileName(s.at)
}

// WriteFile writes the export document to path.
func (s Snapshot) WriteFile(path string) error {
	b, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}
