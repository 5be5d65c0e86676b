package report

import (
	"context"
	"encoding/json"

	"github.com/pavelanni/aisoal/internal/model"
)

// GenerateJSON renders the session metadata and its normalized logs as
// indented JSON.
func GenerateJSON(ctx context.Context, logs []model.Log, session *model.Session) ([]byte, error) {
	var details model.SessionDetails
	if session != nil {
		details = model.SessionDetails{
			ID:                       session.ID,
			UserID:                   session.UserID,
			Title:                    session.Title,
			Filename:                 session.Filename,
			Model:                    session.Model,
			CreatedAt:                session.CreatedAt,
			TotalQuestions:           session.TotalQuestions,
			ConfidenceStats:          session.ConfidenceStats,
			QuestionTypeDistribution: session.QuestionTypeDistribution,
			EfficiencyStats:          session.EfficiencyStats,
		}
	}

	details.Logs = make([]model.LogExport, 0, len(logs))
	for _, l := range logs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		details.Logs = append(details.Logs, model.LogExport{
			ID:            l.ID,
			Duration:      l.Duration,
			Pages:         l.Pages,
			InputTokens:   l.InputTokens,
			OutputTokens:  l.OutputTokens,
			TotalTokens:   l.TotalTokens,
			QuestionCount: l.QuestionCount,
			CreatedAt:     l.CreatedAt,
			TemplateID:    l.TemplateID,
			TemplateText:  l.TemplateText,
			Questions:     NormalizeAll(l.Questions),
		})
	}

	return json.MarshalIndent(model.SessionExport{SessionDetails: details}, "", "  ")
}
