package report

import "github.com/pavelanni/aisoal/internal/model"

// Normalize returns q in canonical shape: serialized options and keywords are
// parsed, and malformed or non-array values become empty lists. It never fails
// and is idempotent.
func Normalize(q model.Question) model.Question {
	return model.Question{
		ID:          q.ID,
		LogID:       q.LogID,
		Question:    q.Question,
		Options:     q.Options.Resolve(),
		Answer:      q.Answer,
		Explanation: q.Explanation,
		SourceText:  q.SourceText,
		Keywords:    q.Keywords.Resolve(),
		Difficulty:  q.Difficulty,
		Type:        q.Type,
		Language:    q.Language,
		Source:      q.Source,
		Confidence:  q.Confidence,
		Duration:    q.Duration,
	}
}

// NormalizeAll normalizes every question of a log.
func NormalizeAll(qs []model.Question) []model.Question {
	out := make([]model.Question, len(qs))
	for i, q := range qs {
		out[i] = Normalize(q)
	}
	return out
}

// SelectQuestions keeps the questions whose IDs are in ids and drops logs left
// empty. An empty ids set selects everything.
func SelectQuestions(logs []model.Log, ids []string) []model.Log {
	if len(ids) == 0 {
		return logs
	}
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	var out []model.Log
	for _, l := range logs {
		var qs []model.Question
		for _, q := range l.Questions {
			if keep[q.ID.String()] {
				qs = append(qs, q)
			}
		}
		if len(qs) == 0 {
			continue
		}
		l.Questions = qs
		out = append(out, l)
	}
	return out
}
