package report

import (
	"context"
	"strings"

	"github.com/pavelanni/aisoal/internal/model"
)

var batchRule = strings.Repeat("=", 20)

// GenerateText renders the plain-text export.
func GenerateText(ctx context.Context, logs []model.Log, session *model.Session) ([]byte, error) {
	var sb strings.Builder
	modelName := sessionModel(session)

	err := eachQuestion(ctx, logs,
		func(n int, l model.Log) {
			sb.WriteString(batchRule + "\n")
			sb.WriteString(batchHeader(ctx, n, l) + "\n")
			sb.WriteString(batchRule + "\n\n")
		},
		func(_ model.Log, q model.Question, index int) {
			sb.WriteString(FormatQuestion(ctx, q, index, modelName))
			sb.WriteString("\n\n")
		},
	)
	if err != nil {
		return nil, err
	}
	sb.WriteString(FormatSessionSummary(ctx, session))
	return []byte(sb.String()), nil
}
