package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/groupflow/sage/internal/profile"
)

// Load fetches a participant profile. Implements profile.Storage; the
// returned profile is freshly scanned and therefore owned by the
// caller.
func (s *Store) Load(ctx context.Context, participantID string) (*profile.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT participant_id, session_count, utterance_count,
		       avg_confidence, avg_understanding, avg_hesitation,
		       contribution_style, topic_difficulty
		FROM participant_profiles
		WHERE participant_id = $1`,
		participantID,
	)

	var p profile.Profile
	var topicJSON []byte
	err := row.Scan(&p.ParticipantID, &p.SessionCount, &p.UtteranceCount,
		&p.AvgConfidence, &p.AvgUnderstanding, &p.AvgHesitation,
		&p.ContributionStyle, &topicJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, profile.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	p.TopicDifficulty = make(map[string]profile.TopicStat)
	if len(topicJSON) > 0 {
		if err := json.Unmarshal(topicJSON, &p.TopicDifficulty); err != nil {
			return nil, fmt.Errorf("parse topic difficulty: %w", err)
		}
	}

	return &p, nil
}

// Save upserts the whole profile in one statement, so a concurrent
// Load sees either the old or the new row, never a partial update.
func (s *Store) Save(ctx context.Context, p *profile.Profile) error {
	topicJSON, err := json.Marshal(p.TopicDifficulty)
	if err != nil {
		return fmt.Errorf("marshal topic difficulty: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO participant_profiles
			(participant_id, session_count, utterance_count,
			 avg_confidence, avg_understanding, avg_hesitation,
			 contribution_style, topic_difficulty, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (participant_id)
		DO UPDATE SET
			session_count = $2,
			utterance_count = $3,
			avg_confidence = $4,
			avg_understanding = $5,
			avg_hesitation = $6,
			contribution_style = $7,
			topic_difficulty = $8,
			updated_at = now()`,
		p.ParticipantID, p.SessionCount, p.UtteranceCount,
		p.AvgConfidence, p.AvgUnderstanding, p.AvgHesitation,
		p.ContributionStyle, topicJSON,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
