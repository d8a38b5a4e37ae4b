package metrics

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/localtodo/internal/store"
)

// InstrumentedStorage wraps a store.Storage, timing and logging each call.
type InstrumentedStorage struct {
	next   store.Storage
	rec    Recorder
	logger *log.Logger
}

// Instrument wraps s. A nil rec records nothing; a nil logger logs nothing.
func Instrument(s store.Storage, rec Recorder, logger *log.Logger) *InstrumentedStorage {
	if rec == nil {
		rec = NoopRecorder{}
	}
	return &InstrumentedStorage{next: s, rec: rec, logger: logger}
}

func (i *InstrumentedStorage) GetItem(key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := i.next.GetItem(key)
	i.observe("get", key, start, err, "found", ok, "bytes", len(v))
	return v, ok, err
}

func (i *InstrumentedStorage) SetItem(key, value string) error {
	start := time.Now()
	err := i.next.SetItem(key, value)
	i.observe("set", key, start, err, "bytes", len(value))
	return err
}

func (i *InstrumentedStorage) RemoveItem(key string) error {
	start := time.Now()
	err := i.next.RemoveItem(key)
	i.observe("remove", key, start, err)
	return err
}

// Reset forwards to the wrapped backend when it supports store.Resetter.
func (i *InstrumentedStorage) Reset() error {
	start := time.Now()
	err := store.Reset(i.next)
	i.observe("reset", "*", start, err)
	return err
}

func (i *InstrumentedStorage) observe(op, key string, start time.Time, err error, kv ...any) {
	d := time.Since(start)
	i.rec.ObserveStorage(op, d, err)
	if i.logger == nil {
		return
	}
	fields := append([]any{"key", key, "took", d}, kv...)
	if err != nil {
		// Callers report the error.
		i.logger.Debug("storage "+op+" failed", append(fields, "err", err)...)
		return
	}
	i.logger.Debug("storage "+op, fields...)
}
