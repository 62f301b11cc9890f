package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/podcast-flow/internal/podcast"
)

// podcastRecord is the persistence shape of the aggregate. All mapping
// between the two lives in this file.
type podcastRecord struct {
	ID           uuid.UUID
	BookID       uuid.UUID
	UserID       uuid.UUID
	Title        string
	Status       string
	Language     string
	AudioURL     string
	ScriptJSON   []byte
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type turnRecord struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

func toRecord(p *podcast.Podcast) (*podcastRecord, error) {
	rec := &podcastRecord{
		ID:           p.ID,
		BookID:       p.BookID,
		UserID:       p.UserID,
		Title:        p.Title,
		Status:       string(p.Status),
		Language:     p.Language,
		AudioURL:     p.AudioURL,
		ErrorMessage: p.ErrorMessage,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	if p.Script != nil {
		turns := make([]turnRecord, len(p.Script.Turns))
		for i, t := range p.Script.Turns {
			turns[i] = turnRecord{Speaker: string(t.Speaker), Text: t.Text}
		}
		data, err := json.Marshal(turns)
		if err != nil {
			return nil, fmt.Errorf("marshal script: %w", err)
		}
		rec.ScriptJSON = data
	}

	return rec, nil
}

func toAggregate(rec *podcastRecord) (*podcast.Podcast, error) {
	status := podcast.Status(rec.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q for podcast %s", rec.Status, rec.ID)
	}

	p := &podcast.Podcast{
		ID:           rec.ID,
		BookID:       rec.BookID,
		UserID:       rec.UserID,
		Title:        rec.Title,
		Status:       status,
		Language:     rec.Language,
		AudioURL:     rec.AudioURL,
		ErrorMessage: rec.ErrorMessage,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}

	if len(rec.ScriptJSON) > 0 {
		var turns []turnRecord
		if err := json.Unmarshal(rec.ScriptJSON, &turns); err != nil {
			return nil, fmt.Errorf("unmarshal script for podcast %s: %w", rec.ID, err)
		}
		scriptTurns := make([]podcast.Turn, len(turns))
		for i, t := range turns {
			sp, ok := podcast.ParseSpeaker(t.Speaker)
			if !ok {
				return nil, fmt.Errorf("unknown speaker %q in stored script for podcast %s", t.Speaker, rec.ID)
			}
			scriptTurns[i] = podcast.Turn{Speaker: sp, Text: t.Text}
		}
		script, err := podcast.NewScript(scriptTurns)
		if err != nil {
			return nil, fmt.Errorf("rebuild script for podcast %s: %w", rec.ID, err)
		}
		p.Script = script
	}

	return p, nil
}
