// Package logtest provides a Sink that keeps messages in memory.
package logtest

import (
	"strings"
	"sync"

	"github.com/programme-lv/crun/internal/logger"
)

type Record struct {
	Level logger.Level
	Msg   string
}

type Recorder struct {
	mu      sync.Mutex
	records []Record
}

func (r *Recorder) Log(level logger.Level, msg string, _ ...logger.Option) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, Record{Level: level, Msg: msg})
}

func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// AtLevel returns the records logged with the given level.
func (r *Recorder) AtLevel(level logger.Level) []Record {
	var res []Record
	for _, rec := range r.Records() {
		if rec.Level == level {
			res = append(res, rec)
		}
	}
	return res
}

// Contains reports whether any message contains substr.
func (r *Recorder) Contains(substr string) bool {
	for _, rec := range r.Records() {
		if strings.Contains(rec.Msg, substr) {
			return true
		}
	}
	return false
}
