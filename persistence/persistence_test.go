package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with injectable failures.
type memStore struct {
	data    []byte
	getErr  error
	putErr  error
	puts    int
	deletes int
}

func (m *memStore) Get() ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.data == nil {
		return nil, ErrNotFound
	}
	return m.data, nil
}

func (m *memStore) Put(data []byte) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Delete() error {
	m.deletes++
	m.data = nil
	return nil
}

func (m *memStore) Close() error { return nil }

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "save.json")
	fs := NewFileStore(path)

	_, err := fs.Get()
	assert.ErrorIs(t, err, ErrNotFound)

	payload := []byte(`{"version":1}`)
	require.NoError(t, fs.Put(payload))

	got, err := fs.Get()
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// No stray temp file after the atomic rename.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, fs.Delete())
	_, err = fs.Get()
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent save is not an error.
	assert.NoError(t, fs.Delete())
}

func TestFileStoreOverwrite(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "save.json"))
	require.NoError(t, fs.Put([]byte("first")))
	require.NoError(t, fs.Put([]byte("second, longer payload")))

	got, err := fs.Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("second, longer payload"), got)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")
	st, err := OpenSQLite(path)
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Get()
	assert.ErrorIs(t, err, ErrNotFound)

	payload := []byte(`{"version":1,"player":{"money":42}}`)
	require.NoError(t, st.Put(payload))

	got, err := st.Get()
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Upsert replaces in place.
	require.NoError(t, st.Put([]byte("v2")))
	got, err = st.Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, st.Delete())
	_, err = st.Get()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saves.db")

	st, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, st.Put([]byte("persisted")))
	require.NoError(t, st.Close())

	st2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer st2.Close()
	got, err := st2.Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

func TestTieredReadsPrimaryFirst(t *testing.T) {
	primary := &memStore{data: []byte("primary")}
	fallback := &memStore{data: []byte("fallback")}
	tr := NewTiered(primary, fallback, nil)

	got, err := tr.Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("primary"), got)
}

func TestTieredFallbackAndWarmUp(t *testing.T) {
	primary := &memStore{getErr: errors.New("disk on fire")}
	fallback := &memStore{data: []byte("rescued")}
	tr := NewTiered(primary, fallback, nil)

	got, err := tr.Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("rescued"), got)
	// The fallback hit warms the primary for the next read.
	assert.Equal(t, 1, primary.puts)
	assert.Equal(t, []byte("rescued"), primary.data)
}

func TestTieredPut(t *testing.T) {
	t.Run("writes both tiers", func(t *testing.T) {
		primary := &memStore{}
		fallback := &memStore{}
		tr := NewTiered(primary, fallback, nil)
		require.NoError(t, tr.Put([]byte("x")))
		assert.Equal(t, 1, primary.puts)
		assert.Equal(t, 1, fallback.puts)
	})

	t.Run("one surviving tier is a success", func(t *testing.T) {
		primary := &memStore{putErr: errors.New("locked")}
		fallback := &memStore{}
		tr := NewTiered(primary, fallback, nil)
		assert.NoError(t, tr.Put([]byte("x")))
		assert.Equal(t, []byte("x"), fallback.data)
	})

	t.Run("both tiers failing surfaces the error", func(t *testing.T) {
		primary := &memStore{putErr: errors.New("locked")}
		fallback := &memStore{putErr: errors.New("read-only fs")}
		tr := NewTiered(primary, fallback, nil)
		assert.Error(t, tr.Put([]byte("x")))
	})
}

func TestTieredMissingEverywhere(t *testing.T) {
	tr := NewTiered(&memStore{}, &memStore{}, nil)
	_, err := tr.Get()
	assert.ErrorIs(t, err, ErrNotFound)

	trNilFallback := NewTiered(&memStore{}, nil, nil)
	_, err = trNilFallback.Get()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTieredDelete(t *testing.T) {
	primary := &memStore{data: []byte("a")}
	fallback := &memStore{data: []byte("a")}
	tr := NewTiered(primary, fallback, nil)
	require.NoError(t, tr.Delete())
	assert.Equal(t, 1, primary.deletes)
	assert.Equal(t, 1, fallback.deletes)
}

func TestAutosaverFlush(t *testing.T) {
	st := &memStore{}
	a := NewAutosaver(func() ([]byte, error) { return []byte("snap"), nil }, st, time.Minute, nil)

	require.NoError(t, a.Flush())
	assert.Equal(t, []byte("snap"), st.data)
	assert.Equal(t, StatusOK, a.Status())
}

func TestAutosaverDebounce(t *testing.T) {
	st := &memStore{}
	a := NewAutosaver(func() ([]byte, error) { return []byte("snap"), nil }, st, 20*time.Millisecond, nil)

	// A burst of schedules collapses into one write.
	a.Schedule()
	a.Schedule()
	a.Schedule()
	assert.Equal(t, 0, st.puts)

	assert.Eventually(t, func() bool { return st.puts == 1 },
		time.Second, 5*time.Millisecond)

	// Quiet period: no further writes.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, st.puts)
}

func TestAutosaverStatusDegradation(t *testing.T) {
	st := &memStore{putErr: errors.New("disk full")}
	a := NewAutosaver(func() ([]byte, error) { return []byte("snap"), nil }, st, time.Minute, nil)

	assert.Error(t, a.Flush())
	assert.Equal(t, StatusDegraded, a.Status())

	assert.Error(t, a.Flush())
	assert.Error(t, a.Flush())
	assert.Equal(t, StatusFailing, a.Status())

	// A successful write resets health.
	st.putErr = nil
	require.NoError(t, a.Flush())
	assert.Equal(t, StatusOK, a.Status())
}

func TestAutosaverWipe(t *testing.T) {
	st := &memStore{data: []byte("snap")}
	a := NewAutosaver(func() ([]byte, error) { return []byte("snap"), nil }, st, time.Minute, nil)

	a.Schedule()
	a.Wipe()
	assert.Equal(t, 1, st.deletes)
	assert.Nil(t, st.data)

	// The pending debounce was cancelled along with the data.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, st.puts)
}

func TestAutosaverCloseFlushes(t *testing.T) {
	st := &memStore{}
	a := NewAutosaver(func() ([]byte, error) { return []byte("final"), nil }, st, time.Minute, nil)

	require.NoError(t, a.Close())
	assert.Equal(t, []byte("final"), st.data)

	// Closed autosavers ignore further schedules.
	a.Schedule()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, st.puts)
}
