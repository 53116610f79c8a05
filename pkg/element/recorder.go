package element

import (
	"time"

	"github.com/vango-dev/livetree/pkg/diff"
)

// Recorder receives counters from a Group. pkg/metrics provides a
// Prometheus implementation.
type Recorder interface {
	ReconcilePass(d time.Duration)
	DiffOp(op diff.Op)
	TextNodesCreated(n int)
	CacheEvictions(n int)
	AttributeWrite()
	Event(kind string)
	Violation(code string)
}

type nopRecorder struct{}

func (nopRecorder) ReconcilePass(time.Duration) {}
func (nopRecorder) DiffOp(diff.Op)              {}
func (nopRecorder) TextNodesCreated(int)        {}
func (nopRecorder) CacheEvictions(int)          {}
func (nopRecorder) AttributeWrite()             {}
func (nopRecorder) Event(string)                {}
func (nopRecorder) Violation(string)            {}
