package alerts

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned for an unknown alert id
	ErrNotFound = errors.New("alert not found")
	// ErrMissingField is returned when name, type or condition is empty
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField is returned for an unknown type, condition or priority
	ErrInvalidField = errors.New("invalid field")
)

// Store holds alerts for the lifetime of the process, newest first.
// Nothing is persisted; a restart starts from an empty list.
type Store struct {
	mu     sync.RWMutex
	alerts []Alert
	now    func() time.Time
	newID  func() string
	log    zerolog.Logger
}

// NewStore creates an empty alert store.
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		now:   time.Now,
		newID: uuid.NewString,
		log:   log.With().Str("component", "alerts").Logger(),
	}
}

// List returns a copy of all alerts, newest first.
func (s *Store) List() []Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Create validates req and prepends the new alert. On error the store is unchanged.
func (s *Store) Create(req CreateRequest) (Alert, error) {
	name := strings.TrimSpace(req.Name)
	typ := strings.ToLower(strings.TrimSpace(req.Type))
	cond := strings.ToLower(strings.TrimSpace(req.Condition))
	prio := strings.ToLower(strings.TrimSpace(req.Priority))

	switch {
	case name == "":
		return Alert{}, fmt.Errorf("%w: name", ErrMissingField)
	case typ == "":
		return Alert{}, fmt.Errorf("%w: type", ErrMissingField)
	case cond == "":
		return Alert{}, fmt.Errorf("%w: condition", ErrMissingField)
	}

	if prio == "" {
		prio = PriorityMedium
	}
	if !validTypes[typ] {
		return Alert{}, fmt.Errorf("%w: type %q", ErrInvalidField, req.Type)
	}
	if !validConditions[cond] {
		return Alert{}, fmt.Errorf("%w: condition %q", ErrInvalidField, req.Condition)
	}
	if !validPriorities[prio] {
		return Alert{}, fmt.Errorf("%w: priority %q", ErrInvalidField, req.Priority)
	}

	alert := Alert{
		ID:        s.newID(),
		Name:      name,
		Type:      typ,
		Condition: cond,
		Value:     req.Value,
		Priority:  prio,
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.alerts = append([]Alert{alert}, s.alerts...)
	s.mu.Unlock()

	s.log.Info().Str("id", alert.ID).Str("type", typ).Str("condition", cond).Float64("value", req.Value).Msg("Alert created")
	return alert, nil
}

// Toggle flips the active flag of one alert. Deactivating also clears its triggered state.
func (s *Store) Toggle(id string) (Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID != id {
			continue
		}
		a := &s.alerts[i]
		a.IsActive = !a.IsActive
		if !a.IsActive {
			a.IsTriggered = false
			a.TriggeredAt = nil
		}
		return *a, nil
	}
	return Alert{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete removes exactly one alert.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts = append(s.alerts[:i:i], s.alerts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Evaluate marks active, untriggered alerts whose condition holds for metrics as triggered
// and returns them. Alerts whose metric is absent are left alone.
func (s *Store) Evaluate(metrics map[string]float64) []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	var triggered []Alert
	for i := range s.alerts {
		a := &s.alerts[i]
		if !a.IsActive || a.IsTriggered {
			continue
		}
		value, ok := metrics[a.Type]
		if !ok || !a.Holds(value) {
			continue
		}

		a.IsTriggered = true
		at := now
		a.TriggeredAt = &at
		triggered = append(triggered, *a)

		s.log.Info().Str("id", a.ID).Str("name", a.Name).Float64("value", value).Msg("Alert triggered")
	}
	return triggered
}
