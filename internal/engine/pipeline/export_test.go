package pipeline

import "time"

// SetNow replaces the clock used for package timestamps.
func SetNow(p *Pipeline, now func() time.Time) {
	p.now = now
}
