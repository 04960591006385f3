// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.Telemetry = (*Recorder)(nil)

// Recorder implements the ports.Telemetry interface using the progrock library.
type Recorder struct {
	w       progrock.Writer
	rec     *progrock.Recorder
	journal *Journal

	mu    sync.Mutex
	tails map[string]*tail
}

// New creates a new Recorder writing into an in-memory journal.
func New() *Recorder {
	return NewRecorder(nil)
}

// NewRecorder creates a new Recorder. Updates are also forwarded to w when it is not nil.
func NewRecorder(w progrock.Writer) *Recorder {
	journal := NewJournal(w)
	return &Recorder{
		w:       journal,
		rec:     progrock.NewRecorder(journal),
		journal: journal,
		tails:   make(map[string]*tail),
	}
}

// Record starts recording a new vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	d := digest.FromString(name)
	t := newTail(tailLines)

	r.mu.Lock()
	r.tails[d.String()] = t
	r.mu.Unlock()

	vertex := &Vertex{vertex: r.rec.Vertex(d, name), tail: t}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Results returns the recorded stages with the tail of their output.
func (r *Recorder) Results() []domain.StageResult {
	results := r.journal.Results()

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range results {
		if t, ok := r.tails[results[i].ID]; ok {
			results[i].Output = t.Lines()
		}
	}

	out := make([]domain.StageResult, 0, len(results))
	for _, res := range results {
		out = append(out, res.StageResult)
	}
	return out
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.w.Close()
}
