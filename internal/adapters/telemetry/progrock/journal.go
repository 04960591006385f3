package progrock

import (
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/kiln/internal/core/domain"
)

var _ progrock.Writer = (*Journal)(nil)

// Entry is a journal record keyed by vertex id.
type Entry struct {
	domain.StageResult
	ID string
}

// Journal is a progrock.Writer that keeps the latest state of every vertex.
type Journal struct {
	next progrock.Writer

	mu      sync.Mutex
	order   []string
	entries map[string]*Entry
}

// NewJournal creates an empty Journal. Updates are forwarded to next when it is not nil.
func NewJournal(next progrock.Writer) *Journal {
	return &Journal{next: next, entries: make(map[string]*Entry)}
}

// WriteStatus applies the vertex updates of upd.
func (j *Journal) WriteStatus(upd *progrock.StatusUpdate) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	for _, v := range upd.Vertexes {
		e, ok := j.entries[v.Id]
		if !ok {
			e = &Entry{ID: v.Id}
			j.entries[v.Id] = e
			j.order = append(j.order, v.Id)
		}
		e.Name = v.Name

		switch {
		case v.Cached:
			e.Status = domain.StageCached
		case v.Completed != nil && v.Error != nil:
			e.Status = domain.StageFailed
			e.Error = *v.Error
		case v.Completed != nil:
			e.Status = domain.StageDone
		default:
			e.Status = domain.StageRunning
		}

		if v.Started != nil && v.Completed != nil {
			e.Duration = v.Completed.AsTime().Sub(v.Started.AsTime())
		}
	}

	if j.next != nil {
		return j.next.WriteStatus(upd)
	}
	return nil
}

// Results returns a copy of the entries in the order their vertices first appeared.
func (j *Journal) Results() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Entry, 0, len(j.order))
	for _, id := range j.order {
		out = append(out, *j.entries[id])
	}
	return out
}

// Close implements progrock.Writer.
func (j *Journal) Close() error {
	if j.next != nil {
		return j.next.Close()
	}
	return nil
}
