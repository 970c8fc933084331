// Package manifest records completed generation tasks in an append-only
// JSON-lines audit log. The sink is invoked by the renderer, never by the
// scheduler; its presence or absence does not alter scheduling behavior.
package manifest

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/genweave/genweave/errors"
)

// Entry is one manifest record for a finished task.
type Entry struct {
	RunID       string    `json:"run_id"`
	Task        string    `json:"task"`
	Status      string    `json:"status"`
	Artifact    string    `json:"artifact,omitempty"`
	Digest      string    `json:"digest,omitempty"`
	Bytes       int64     `json:"bytes,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// Sink appends entries to a writer, one JSON object per line. It is safe
// for concurrent use.
type Sink struct {
	mu    sync.Mutex
	enc   *json.Encoder
	runID string
	c     io.Closer
}

// NewSink creates a sink writing to w under a fresh run ID.
func NewSink(w io.Writer) *Sink {
	return &Sink{
		enc:   json.NewEncoder(w),
		runID: uuid.NewString(),
	}
}

// NewFileSink creates a sink appending to the file at path.
func NewFileSink(path string) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, errors.ManifestWrite(err)
	}
	s := NewSink(f)
	s.c = f
	return s, nil
}

// RunID returns the identifier shared by every entry this sink records.
func (s *Sink) RunID() string { return s.runID }

// Record appends one entry. RunID and CompletedAt are filled in when unset.
func (s *Sink) Record(e Entry) error {
	if e.RunID == "" {
		e.RunID = s.runID
	}
	if e.CompletedAt.IsZero() {
		e.CompletedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(&e); err != nil {
		return errors.ManifestWrite(err)
	}
	return nil
}

// Close releases the underlying file, if any.
func (s *Sink) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}

// Digest returns the hex BLAKE2b-256 digest of artifact content.
func Digest(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}
