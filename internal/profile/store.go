package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/groupflow/sage/internal/cognitive"
)

// Storage is the durable keyed backend behind the Store. Load must
// return an owned copy the caller may mutate freely, and
// ErrProfileNotFound for unknown participants.
type Storage interface {
	Load(ctx context.Context, participantID string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

// Store serializes profile updates per participant. Locking is keyed
// by participant id, not global, so unrelated participants never
// contend. Absorbing the same utterance twice is a caller contract
// violation and is not detected here.
type Store struct {
	storage Storage

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(storage Storage) *Store {
	return &Store{
		storage: storage,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *Store) lockFor(participantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[participantID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[participantID] = l
	}
	return l
}

// Absorb folds one cognitive-state observation into the participant's
// running averages. sessionBoundary marks the first observation of
// this participant in a new session and is the only thing that
// advances SessionCount; the boundary is signalled by the caller, not
// inferred here.
func (s *Store) Absorb(ctx context.Context, participantID string, state cognitive.State, topicTags []string, sessionBoundary bool) error {
	l := s.lockFor(participantID)
	l.Lock()
	defer l.Unlock()

	p, err := s.storage.Load(ctx, participantID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		p = &Profile{
			ParticipantID:   participantID,
			TopicDifficulty: make(map[string]TopicStat),
		}
	case err != nil:
		return fmt.Errorf("load profile %s: %w", participantID, err)
	}
	if p.TopicDifficulty == nil {
		p.TopicDifficulty = make(map[string]TopicStat)
	}

	n := float64(p.UtteranceCount)
	p.AvgConfidence += (state.ConfidenceLevel - p.AvgConfidence) / (n + 1)
	p.AvgUnderstanding += (state.UnderstandingLevel - p.AvgUnderstanding) / (n + 1)
	p.AvgHesitation += (state.HesitationLevel - p.AvgHesitation) / (n + 1)
	p.UtteranceCount++

	if sessionBoundary {
		p.SessionCount++
	}

	difficulty := 1.0 - state.UnderstandingLevel
	if difficulty < 0 {
		difficulty = 0
	}
	for _, tag := range topicTags {
		ts := p.TopicDifficulty[tag]
		ts.AvgDifficulty += (difficulty - ts.AvgDifficulty) / float64(ts.Observations+1)
		ts.Observations++
		p.TopicDifficulty[tag] = ts
	}

	p.ContributionStyle = styleFor(p)

	if err := s.storage.Save(ctx, p); err != nil {
		return fmt.Errorf("save profile %s: %w", participantID, err)
	}
	return nil
}

// Snapshot returns a read-only copy of the participant's profile, or
// ErrProfileNotFound. A snapshot taken during a concurrent Absorb for
// the same participant sees either the pre- or post-update profile,
// never a torn one: Save replaces the stored profile atomically.
func (s *Store) Snapshot(ctx context.Context, participantID string) (*Profile, error) {
	return s.storage.Load(ctx, participantID)
}

// styleFor derives the contribution style from the running averages.
func styleFor(p *Profile) string {
	switch {
	case p.AvgConfidence > 0.7:
		return "assertive"
	case p.AvgHesitation > 0.6:
		return "deliberate"
	case p.AvgUnderstanding < 0.5:
		return "exploratory"
	default:
		return "balanced"
	}
}
