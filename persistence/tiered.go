package persistence

import (
	"errors"

	"go.uber.org/zap"
)

// Tiered reads from the primary store first and falls through to the
// fallback. Writes go to both; a primary failure degrades the session to the
// fallback rather than losing the save.
type Tiered struct {
	primary  Store
	fallback Store
	log      *zap.Logger
}

// NewTiered wires a primary and fallback store. Either may be nil, in which
// case the other carries the full load.
func NewTiered(primary, fallback Store, log *zap.Logger) *Tiered {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tiered{primary: primary, fallback: fallback, log: log}
}

func (t *Tiered) Get() ([]byte, error) {
	if t.primary != nil {
		data, err := t.primary.Get()
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			t.log.Warn("primary save tier read failed", zap.Error(err))
		}
	}
	if t.fallback == nil {
		return nil, ErrNotFound
	}
	data, err := t.fallback.Get()
	if err != nil {
		return nil, err
	}
	// Warm the primary so the next read is served from it.
	if t.primary != nil {
		if perr := t.primary.Put(data); perr != nil {
			t.log.Warn("primary save tier warm-up failed", zap.Error(perr))
		}
	}
	return data, nil
}

func (t *Tiered) Put(data []byte) error {
	var primaryErr error
	if t.primary != nil {
		primaryErr = t.primary.Put(data)
		if primaryErr != nil {
			t.log.Warn("primary save tier write failed", zap.Error(primaryErr))
		}
	}
	var fallbackErr error
	if t.fallback != nil {
		fallbackErr = t.fallback.Put(data)
		if fallbackErr != nil {
			t.log.Warn("fallback save tier write failed", zap.Error(fallbackErr))
		}
	}
	// One successful tier is enough to call the save written.
	if t.primary != nil && primaryErr == nil {
		return nil
	}
	if t.fallback != nil && fallbackErr == nil {
		return nil
	}
	if primaryErr != nil {
		return primaryErr
	}
	return fallbackErr
}

func (t *Tiered) Delete() error {
	var firstErr error
	if t.primary != nil {
		if err := t.primary.Delete(); err != nil {
			firstErr = err
		}
	}
	if t.fallback != nil {
		if err := t.fallback.Delete(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *Tiered) Close() error {
	var firstErr error
	if t.primary != nil {
		if err := t.primary.Close(); err != nil {
			firstErr = err
		}
	}
	if t.fallback != nil {
		if err := t.fallback.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
