package registration

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jobify/assistant/internal/storage"
)

// State is a user's position in the linear onboarding flow.
type State int

const (
	StateNone State = iota
	StateAwaitingEmail
	StateAwaitingName
)

// Outcome tells the dispatcher what happened to a piece of input and which
// prompt to show next.
type Outcome int

const (
	// OutcomeIgnored means the input did not belong to a registration flow.
	OutcomeIgnored Outcome = iota
	// OutcomeInvalidEmail asks the user to retry; the state is unchanged.
	OutcomeInvalidEmail
	// OutcomeEmailAccepted moves on to the name prompt.
	OutcomeEmailAccepted
	// OutcomeInvalidName asks for a non-empty name; the state is unchanged.
	OutcomeInvalidName
	// OutcomeNameAccepted completes the linear flow; the skills prompt follows.
	OutcomeNameAccepted
	// OutcomeSkillsSaved chains into the positions prompt.
	OutcomeSkillsSaved
	// OutcomePositionsSaved completes the profile.
	OutcomePositionsSaved
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ProfileStore is the persistence surface the machine writes through.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, userID string, update storage.ProfileUpdate) error
}

// Machine sequences the onboarding flow per user. All state transitions for
// one user are serialized through a per-user lock, so a double-submit can
// never observe the same pre-transition state twice.
type Machine struct {
	store  ProfileStore
	logger *zap.Logger

	mu     sync.Mutex
	states map[string]State
	locks  map[string]*sync.Mutex
}

func NewMachine(store ProfileStore, logger *zap.Logger) *Machine {
	return &Machine{
		store:  store,
		logger: logger,
		states: make(map[string]State),
		locks:  make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex guarding the given user's state, creating it on
// first use.
func (m *Machine) userLock(userID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	return lock
}

func (m *Machine) state(userID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[userID]
}

func (m *Machine) setState(userID string, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state == StateNone {
		delete(m.states, userID)
		return
	}
	m.states[userID] = state
}

// Begin starts the email/name flow for the user.
func (m *Machine) Begin(userID string) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	m.setState(userID, StateAwaitingEmail)
}

// Reset clears any pending registration state for the user.
func (m *Machine) Reset(userID string) {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	m.setState(userID, StateNone)
}

// HandleInput routes a free-text message according to the user's current
// state. Input outside an active flow is a no-op, never an error.
func (m *Machine) HandleInput(ctx context.Context, userID, text string) Outcome {
	lock := m.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	text = strings.TrimSpace(text)

	switch m.state(userID) {
	case StateAwaitingEmail:
		if !emailPattern.MatchString(text) {
			return OutcomeInvalidEmail
		}

		// The machine advances even when the write fails; the user can fix
		// the stored value later by re-running registration.
		if err := m.store.UpsertProfile(ctx, userID, storage.ProfileUpdate{Email: storage.String(text)}); err != nil {
			m.logger.Warn("saving email failed", zap.String("user_id", userID), zap.Error(err))
		}

		m.setState(userID, StateAwaitingName)
		return OutcomeEmailAccepted

	case StateAwaitingName:
		if text == "" {
			return OutcomeInvalidName
		}

		if err := m.store.UpsertProfile(ctx, userID, storage.ProfileUpdate{Name: storage.String(text)}); err != nil {
			m.logger.Warn("saving name failed", zap.String("user_id", userID), zap.Error(err))
		}

		m.setState(userID, StateNone)
		return OutcomeNameAccepted

	default:
		return OutcomeIgnored
	}
}

// SaveSkills stores the selected skill values as a comma-joined list. Store
// failures are logged and swallowed; the flow always continues into the
// positions prompt.
func (m *Machine) SaveSkills(ctx context.Context, userID string, values []string) Outcome {
	joined := strings.Join(values, ", ")
	if err := m.store.UpsertProfile(ctx, userID, storage.ProfileUpdate{Skills: storage.String(joined)}); err != nil {
		m.logger.Warn("saving skills failed", zap.String("user_id", userID), zap.Error(err))
	}
	return OutcomeSkillsSaved
}

// SavePositions stores the selected position values as a comma-joined list.
// Unlike SaveSkills, a store failure surfaces to the caller.
func (m *Machine) SavePositions(ctx context.Context, userID string, values []string) (Outcome, error) {
	joined := strings.Join(values, ", ")
	if err := m.store.UpsertProfile(ctx, userID, storage.ProfileUpdate{Interests: storage.String(joined)}); err != nil {
		return OutcomeIgnored, err
	}
	return OutcomePositionsSaved, nil
}
