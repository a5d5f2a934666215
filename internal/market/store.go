// AngelaMos | 2026
// store.go

package market

import (
	"context"
	"fmt"
	"log/slog"
)

// PreferenceStore persists the visitor's raw market code. Read returns an
// empty string when nothing is stored.
type PreferenceStore interface {
	Name() string
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, code Code) error
}

type State uint8

const (
	Uninitialized State = iota
	Detecting
	Resolved
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Detecting:
		return "detecting"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Source uint8

const (
	SourceNone Source = iota
	SourcePersisted
	SourceDetected
	SourceSelected
)

func (s Source) String() string {
	switch s {
	case SourcePersisted:
		return "persisted"
	case SourceDetected:
		return "detected"
	case SourceSelected:
		return "selected"
	default:
		return "none"
	}
}

func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Store holds the current market for one page load. It is not safe for
// concurrent use; build one per request.
type Store struct {
	catalog  *Catalog
	detector *Detector
	stores   []PreferenceStore
	logger   *slog.Logger

	current Code
	state   State
	source  Source
}

// NewStore takes preference stores in read priority order.
func NewStore(
	catalog *Catalog,
	detector *Detector,
	logger *slog.Logger,
	stores ...PreferenceStore,
) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		catalog:  catalog,
		detector: detector,
		stores:   stores,
		logger:   logger,
		current:  catalog.Default(),
	}
}

// Initialize resolves the current market: persisted choices first, in store
// order, then the detector. Calling it on a resolved store is a no-op.
func (s *Store) Initialize(ctx context.Context, signals Signals) Code {
	if s.state == Resolved {
		return s.current
	}

	s.state = Detecting

	for _, ps := range s.stores {
		if code, ok := s.readValid(ctx, ps); ok {
			s.resolve(code, SourcePersisted)
			return s.current
		}
	}

	s.resolve(s.detector.Detect(signals), SourceDetected)
	return s.current
}

func (s *Store) readValid(ctx context.Context, ps PreferenceStore) (code Code, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Warn("market preference read panicked",
				"store", ps.Name(),
				"panic", p,
			)
			ok = false
		}
	}()

	raw, err := ps.Read(ctx)
	if err != nil {
		s.logger.Warn("market preference read failed",
			"store", ps.Name(),
			"error", err,
		)
		return 0, false
	}
	if raw == "" {
		return 0, false
	}

	code, ok = ParseCode(raw)
	if !ok || !s.catalog.IsEnabled(code) {
		s.logger.Debug("ignoring persisted market",
			"store", ps.Name(),
			"value", raw,
		)
		return 0, false
	}

	return code, true
}

func (s *Store) resolve(code Code, source Source) {
	s.current = code
	s.source = source
	s.state = Resolved
}

// SetMarket switches to code and writes it to every preference store. It
// returns false without side effects when code is not enabled. Write
// failures are logged and never stop the remaining writes.
func (s *Store) SetMarket(ctx context.Context, code Code) bool {
	if !s.catalog.IsEnabled(code) {
		return false
	}

	s.resolve(code, SourceSelected)

	for _, ps := range s.stores {
		s.write(ctx, ps, code)
	}

	return true
}

func (s *Store) write(ctx context.Context, ps PreferenceStore, code Code) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Warn("market preference write panicked",
				"store", ps.Name(),
				"market", code.String(),
				"panic", p,
			)
		}
	}()

	if err := ps.Write(ctx, code); err != nil {
		s.logger.Warn("market preference write failed",
			"store", ps.Name(),
			"market", code.String(),
			"error", err,
		)
	}
}

func (s *Store) Current() Code {
	return s.current
}

func (s *Store) Config() Config {
	return s.catalog.MustGet(s.current)
}

func (s *Store) State() State {
	return s.state
}

func (s *Store) Detecting() bool {
	return s.state == Detecting
}

func (s *Store) Source() Source {
	return s.source
}

func (s *Store) Catalog() *Catalog {
	return s.catalog
}

// Teardown drops the preference stores and returns the store to
// Uninitialized. A later Initialize needs fresh stores via Attach.
func (s *Store) Teardown() {
	s.stores = nil
	s.current = s.catalog.Default()
	s.source = SourceNone
	s.state = Uninitialized
}

func (s *Store) Attach(stores ...PreferenceStore) {
	s.stores = append(s.stores, stores...)
}
