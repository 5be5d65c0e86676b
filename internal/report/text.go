package report

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pavelanni/aisoal/internal/i18n"
	"github.com/pavelanni/aisoal/internal/model"
)

const (
	notAvailable = "N/A"
	placeholder  = "-"
)

var (
	questionSeparator = strings.Repeat("-", 60)
	summaryRule       = strings.Repeat("=", 60)
)

var typeLabelIDs = map[model.QuestionType]string{
	model.TypeMultipleChoice: "TypeMultipleChoice",
	model.TypeEssay:          "TypeEssay",
	model.TypeTrueFalse:      "TypeTrueFalse",
	model.TypeFillInTheBlank: "TypeFillInTheBlank",
}

// FormatPercent renders a confidence value, accepting both 0..1 and 0..100 scales.
func FormatPercent(n model.Number) string {
	return formatPercent(n, model.ScaleAuto, 2)
}

// FormatPercentScale renders a confidence value expressed in a known unit.
func FormatPercentScale(n model.Number, scale model.ConfidenceScale) string {
	return formatPercent(n, scale, 2)
}

func formatPercent(n model.Number, scale model.ConfidenceScale, digits int) string {
	v, ok := n.Float()
	if !ok {
		return notAvailable
	}
	switch scale {
	case model.ScalePercent:
	case model.ScaleFraction:
		v *= 100
	default:
		if v <= 1 {
			v *= 100
		}
	}
	v = math.Max(math.Min(v, 100), 0)
	return strconv.FormatFloat(v, 'f', digits, 64) + "%"
}

// FormatDuration renders a duration in seconds.
func FormatDuration(n model.Number) string {
	return formatDuration(n, 2)
}

func formatDuration(n model.Number, digits int) string {
	v, ok := n.Float()
	if !ok {
		return notAvailable
	}
	return strconv.FormatFloat(v, 'f', digits, 64) + "s"
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate renders a timestamp as "YYYY-MM-DD HH:MM:SS" in UTC.
func formatDate(s string) string {
	if s == "" {
		return placeholder
	}
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func optionLetter(i int) string {
	return string(rune('A' + i))
}

// answerDisplay prefixes the answer with its option letter when it is one of the options.
func answerDisplay(q model.Question) string {
	opts := q.Options.Resolve().Items
	for i, o := range opts {
		if o == q.Answer {
			return optionLetter(i) + ". " + q.Answer
		}
	}
	if a := strings.TrimSpace(q.Answer); len(a) == 1 {
		if i := int(strings.ToUpper(a)[0]) - 'A'; i >= 0 && i < len(opts) {
			return optionLetter(i) + ". " + opts[i]
		}
	}
	return q.Answer
}

func labelLine(sb *strings.Builder, label, value string) {
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteByte('\n')
}

// FormatQuestion renders one question as a fixed block of lines. index is
// zero-based; modelName is the AI model that produced the question.
func FormatQuestion(ctx context.Context, q model.Question, index int, modelName string) string {
	q = Normalize(q)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. %s\n", index+1, q.Question)
	for i, opt := range q.Options.Items {
		fmt.Fprintf(&sb, "%s. %s\n", optionLetter(i), opt)
	}

	confidence := placeholder
	if !q.Confidence.IsZero() {
		confidence = q.Confidence.String()
	}
	keywords := placeholder
	if len(q.Keywords.Items) > 0 {
		tags := make([]string, len(q.Keywords.Items))
		for i, k := range q.Keywords.Items {
			tags[i] = "#" + k
		}
		keywords = strings.Join(tags, ", ")
	}

	labelLine(&sb, i18n.T(ctx, "QuestionAnswer"), answerDisplay(q))
	labelLine(&sb, i18n.T(ctx, "QuestionExplanation"), orPlaceholder(q.Explanation))
	labelLine(&sb, i18n.T(ctx, "QuestionSourceText"), orPlaceholder(q.SourceText))
	labelLine(&sb, i18n.T(ctx, "QuestionModel"), orPlaceholder(modelName))
	labelLine(&sb, i18n.T(ctx, "QuestionSource"), orPlaceholder(q.Source))
	labelLine(&sb, i18n.T(ctx, "QuestionDuration"), orPlaceholder(q.Duration.String()))
	labelLine(&sb, i18n.T(ctx, "QuestionConfidence"), confidence)
	labelLine(&sb, i18n.T(ctx, "QuestionID"), orPlaceholder(q.ID.String()))
	labelLine(&sb, i18n.T(ctx, "QuestionKeywords"), keywords)
	sb.WriteString(questionSeparator)
	return sb.String()
}

// FormatSessionSummary renders the session details block appended to every
// textual export. A nil session renders as "".
func FormatSessionSummary(ctx context.Context, s *model.Session) string {
	if s == nil {
		return ""
	}
	total := notAvailable
	if !s.TotalQuestions.IsZero() {
		total = s.TotalQuestions.String()
	}
	cs, es := s.ConfidenceStats, s.EfficiencyStats
	avg := i18n.T(ctx, "Average")

	var sb strings.Builder
	sb.WriteString("\n\n" + summaryRule + "\n")
	sb.WriteString(i18n.T(ctx, "SummaryHeading") + "\n")
	sb.WriteString(summaryRule + "\n")
	labelLine(&sb, i18n.T(ctx, "SummaryTitle"), orPlaceholder(s.Title))
	labelLine(&sb, i18n.T(ctx, "SummaryCreatedAt"), formatDate(s.CreatedAt))
	labelLine(&sb, i18n.T(ctx, "SummaryFile"), orPlaceholder(s.Filename))
	labelLine(&sb, i18n.T(ctx, "SummaryModel"), orPlaceholder(s.Model))
	sb.WriteByte('\n')
	labelLine(&sb, i18n.T(ctx, "SummaryTotal"), total)
	sb.WriteByte('\n')

	sb.WriteString(i18n.T(ctx, "SummaryDistribution") + "\n")
	for _, qt := range model.QuestionTypes {
		labelLine(&sb, "- "+i18n.T(ctx, typeLabelIDs[qt]), strconv.Itoa(s.QuestionTypeDistribution[qt]))
	}
	sb.WriteByte('\n')

	sb.WriteString(i18n.T(ctx, "SummaryConfidence") + "\n")
	labelLine(&sb, "- "+i18n.T(ctx, "ConfidenceMax"), FormatPercentScale(cs.Max, cs.Scale))
	labelLine(&sb, "- "+i18n.T(ctx, "ConfidenceMin"), FormatPercentScale(cs.Min, cs.Scale))
	labelLine(&sb, "- "+avg, FormatPercentScale(cs.Avg, cs.Scale))
	sb.WriteByte('\n')

	sb.WriteString(i18n.T(ctx, "SummaryEfficiency") + "\n")
	labelLine(&sb, "- "+i18n.T(ctx, "EfficiencyFastest"), FormatDuration(es.Fastest))
	labelLine(&sb, "- "+i18n.T(ctx, "EfficiencySlowest"), FormatDuration(es.Slowest))
	labelLine(&sb, "- "+avg, FormatDuration(es.Avg))
	sb.WriteString(summaryRule)
	return sb.String()
}

// batchHeader is the one-line batch title used by the PDF and text exports.
func batchHeader(ctx context.Context, n int, l model.Log) string {
	return i18n.Td(ctx, "BatchHeader", batchData(n, l))
}

func batchData(n int, l model.Log) map[string]any {
	return map[string]any{
		"N":        n,
		"Pages":    orPlaceholder(l.Pages),
		"Duration": orPlaceholder(l.Duration.String()),
	}
}

func sessionModel(s *model.Session) string {
	if s == nil {
		return ""
	}
	return s.Model
}
