package metrics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/localtodo/internal/store"
	"github.com/Makepad-fr/localtodo/internal/store/memstore"
)

func TestInstrumentedStorageCounts(t *testing.T) {
	rec := NewPrometheusRecorder(nil)
	mem := memstore.New(0)
	s := Instrument(mem, rec, nil)

	require.NoError(t, s.SetItem("todos", "[]"))
	_, ok, err := s.GetItem("todos")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, s.RemoveItem("todos"))

	mem.SetDisabled(true)
	assert.ErrorIs(t, s.SetItem("todos", "[]"), store.ErrUnavailable)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.opResults.WithLabelValues("set", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.opResults.WithLabelValues("set", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.opResults.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.opResults.WithLabelValues("remove", "ok")))
}

func TestInstrumentedStorageLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	mem := memstore.New(0)
	s := Instrument(mem, nil, logger)

	require.NoError(t, s.SetItem("todos", "[]"))
	assert.Contains(t, buf.String(), "storage set")

	mem.SetDisabled(true)
	_, _, _ = s.GetItem("todos")
	assert.Contains(t, buf.String(), "storage get failed")
}

func TestWriteTextfile(t *testing.T) {
	rec := NewPrometheusRecorder(nil)
	rec.ObserveStorage("get", 0, nil)

	path := filepath.Join(t.TempDir(), "localtodo.prom")
	require.NoError(t, rec.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `localtodo_storage_ops_total{op="get",result="ok"} 1`)
}

func TestInstrumentedStorageReset(t *testing.T) {
	rec := NewPrometheusRecorder(nil)
	mem := memstore.New(0)
	s := Instrument(mem, rec, nil)

	require.NoError(t, s.SetItem("todos", "[]"))
	require.NoError(t, store.Reset(s))
	_, ok, err := mem.GetItem("todos")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.opResults.WithLabelValues("reset", "ok")))
}
