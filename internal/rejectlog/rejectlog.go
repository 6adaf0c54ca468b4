// Package rejectlog keeps a JSON-lines record of Trade_History values that
// could not be decoded, one object per line.
package rejectlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Entry struct {
	Time   string `json:"time"`
	Row    int    `json:"row"`
	PortID string `json:"port_id,omitempty"`
	Reason string `json:"reason"`
	Text   string `json:"text"`
}

// Log appends entries to a file. A nil *Log discards everything.
type Log struct {
	path string
	now  func() time.Time
}

// New returns a Log writing to path, or nil when path is empty.
func New(path string) *Log {
	if path == "" {
		return nil
	}
	return &Log{path: path, now: time.Now}
}

func (l *Log) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes e as one line, stamping Time.
func (l *Log) Append(e Entry) error {
	if l == nil {
		return nil
	}
	e.Time = l.now().UTC().Format(time.RFC3339)
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}
