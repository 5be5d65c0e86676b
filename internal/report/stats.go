package report

import (
	"github.com/pavelanni/aisoal/internal/model"
)

// series accumulates min/max/avg over the values it has seen.
type series struct {
	n             int
	sum, min, max float64
}

func (s *series) add(v float64) {
	if s.n == 0 || v < s.min {
		s.min = v
	}
	if s.n == 0 || v > s.max {
		s.max = v
	}
	s.sum += v
	s.n++
}

func (s series) stat(v float64) model.Number {
	if s.n == 0 {
		return model.Number{}
	}
	return model.NumberOf(v)
}

func (s series) minimum() model.Number { return s.stat(s.min) }
func (s series) maximum() model.Number { return s.stat(s.max) }

func (s series) mean() model.Number {
	if s.n == 0 {
		return model.Number{}
	}
	return model.NumberOf(s.sum / float64(s.n))
}

// ComputeSessionStats fills the aggregate fields of s from logs: confidence
// over every parseable question confidence, efficiency over each question's
// batch generation time, the type distribution and the question total.
func ComputeSessionStats(s model.Session, logs []model.Log) model.Session {
	var conf, dur series
	dist := make(map[model.QuestionType]int)
	total := 0
	for _, l := range logs {
		for _, q := range l.Questions {
			total++
			dist[q.Type]++
			if v, ok := q.Confidence.Float(); ok {
				conf.add(v)
			}
			if v, ok := l.Duration.Float(); ok {
				dur.add(v)
			}
		}
	}

	s.ConfidenceStats = model.ConfidenceStats{
		Max:   conf.maximum(),
		Min:   conf.minimum(),
		Avg:   conf.mean(),
		Scale: s.ConfidenceStats.Scale,
	}
	s.EfficiencyStats = model.EfficiencyStats{
		Fastest: dur.minimum(),
		Slowest: dur.maximum(),
		Avg:     dur.mean(),
	}
	s.QuestionTypeDistribution = dist
	s.TotalQuestions = model.NumberOf(float64(total))
	return s
}

// SessionFromHistory rebuilds the session view the generators expect from a
// history entry's flat aggregate columns.
func SessionFromHistory(e model.HistoryEntry) model.Session {
	return model.Session{
		ID:             e.ID,
		UserID:         e.UserID,
		Title:          e.Title,
		Filename:       e.Filename,
		Model:          e.Model,
		CreatedAt:      e.CreatedAt,
		TotalQuestions: e.TotalQuestions,
		ConfidenceStats: model.ConfidenceStats{
			Max: e.MaxConfidence,
			Min: e.MinConfidence,
			Avg: e.AvgConfidence,
		},
		EfficiencyStats: model.EfficiencyStats{
			Fastest: e.MinDuration,
			Slowest: e.MaxDuration,
			Avg:     e.AvgDuration,
		},
		QuestionTypeDistribution: map[model.QuestionType]int{
			model.TypeEssay:          e.EssayCount,
			model.TypeFillInTheBlank: e.FillInTheBlankCount,
			model.TypeTrueFalse:      e.TrueFalseCount,
			model.TypeMultipleChoice: e.MultipleChoiceCount,
		},
	}
}

// HistoryFromLogs derives a history entry's aggregate columns from its logs.
func HistoryFromLogs(e model.HistoryEntry) model.HistoryEntry {
	s := ComputeSessionStats(model.Session{}, e.Logs)
	e.TotalQuestions = s.TotalQuestions
	e.MaxConfidence = s.ConfidenceStats.Max
	e.MinConfidence = s.ConfidenceStats.Min
	e.AvgConfidence = s.ConfidenceStats.Avg
	e.MinDuration = s.EfficiencyStats.Fastest
	e.MaxDuration = s.EfficiencyStats.Slowest
	e.AvgDuration = s.EfficiencyStats.Avg
	e.EssayCount = s.QuestionTypeDistribution[model.TypeEssay]
	e.FillInTheBlankCount = s.QuestionTypeDistribution[model.TypeFillInTheBlank]
	e.TrueFalseCount = s.QuestionTypeDistribution[model.TypeTrueFalse]
	e.MultipleChoiceCount = s.QuestionTypeDistribution[model.TypeMultipleChoice]
	return e
}

// EntryExport prepares a stored entry for a single-session export: logs are
// narrowed to the selected question IDs and the statistics recomputed over
// what remains.
func EntryExport(e model.HistoryEntry, ids []string) (*model.Session, []model.Log) {
	logs := SelectQuestions(e.Logs, ids)
	s := ComputeSessionStats(SessionFromHistory(e), logs)
	return &s, logs
}

// WithStats returns s with its statistics computed from logs when the caller
// supplied none. A nil session stays nil.
func WithStats(s *model.Session, logs []model.Log) *model.Session {
	if s == nil || s.TotalQuestions.Valid {
		return s
	}
	computed := ComputeSessionStats(*s, logs)
	return &computed
}
