package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TrainingLog is the append-only retraining history, newest first.
type TrainingLog struct {
	mu      sync.RWMutex
	entries []string
}

// NewTrainingLog starts from initial, which is already newest first.
func NewTrainingLog(initial []string) *TrainingLog {
	return &TrainingLog{entries: append([]string(nil), initial...)}
}

// Retrain records a mock training job started at now and returns its id.
func (l *TrainingLog) Retrain(now time.Time) string {
	id := uuid.NewString()
	entry := fmt.Sprintf("Training job %s – Yield TFT v2.1 (mape -0.3%%)", now.Format("15:04:05"))

	l.mu.Lock()
	l.entries = append([]string{entry}, l.entries...)
	l.mu.Unlock()
	return id
}

// Entries returns a copy, newest first.
func (l *TrainingLog) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.entries...)
}
