package model

// QuestionType is the kind of a generated quiz item.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeEssay          QuestionType = "essay"
	TypeTrueFalse      QuestionType = "true-false"
	TypeFillInTheBlank QuestionType = "fill-in-the-blank"
)

// QuestionTypes is the canonical display order of question types.
var QuestionTypes = []QuestionType{
	TypeMultipleChoice,
	TypeEssay,
	TypeTrueFalse,
	TypeFillInTheBlank,
}

// Difficulty represents the cognitive level a question targets.
type Difficulty string

const (
	DifficultyLOTS  Difficulty = "lots"
	DifficultyMOTS  Difficulty = "mots"
	DifficultyHOTS  Difficulty = "hots"
	DifficultyMixed Difficulty = "mixed"
)

// Question is one generated quiz item.
type Question struct {
	ID          Scalar       `json:"id"`
	LogID       Scalar       `json:"log_id"`
	Question    string       `json:"question"`
	Options     StringList   `json:"options"`
	Answer      string       `json:"answer"`
	Explanation string       `json:"explanation"`
	SourceText  string       `json:"source_text"`
	Keywords    StringList   `json:"keywords"`
	Difficulty  Difficulty   `json:"difficulty"`
	Type        QuestionType `json:"type"`
	Language    string       `json:"language"`
	Source      string       `json:"source"`
	Confidence  Number       `json:"confidence"`
	Duration    Scalar       `json:"duration"`
}

// Log is one AI generation batch and owns its questions.
type Log struct {
	ID            Scalar     `json:"id"`
	Pages         string     `json:"pages"`
	Duration      Number     `json:"duration"`
	InputTokens   Number     `json:"input_tokens"`
	OutputTokens  Number     `json:"output_tokens"`
	TotalTokens   Number     `json:"total_tokens"`
	QuestionCount Number     `json:"question_count"`
	CreatedAt     string     `json:"created_at"`
	TemplateID    Scalar     `json:"template_id"`
	TemplateText  string     `json:"template_text"`
	Questions     []Question `json:"questions"`
}

// ConfidenceScale states the unit confidence values are expressed in.
type ConfidenceScale string

const (
	// ScaleAuto infers the unit per value: anything above 1 is already a percentage.
	ScaleAuto     ConfidenceScale = ""
	ScaleFraction ConfidenceScale = "fraction"
	ScalePercent  ConfidenceScale = "percent"
)

// ConfidenceStats aggregates question confidence over a session.
type ConfidenceStats struct {
	Max   Number          `json:"max"`
	Min   Number          `json:"min"`
	Avg   Number          `json:"avg"`
	Scale ConfidenceScale `json:"scale,omitempty"`
}

// EfficiencyStats aggregates generation time in seconds over a session.
type EfficiencyStats struct {
	Fastest Number `json:"fastest"`
	Slowest Number `json:"slowest"`
	Avg     Number `json:"avg"`
}

// Session is a named collection of logs produced against one uploaded document.
// The aggregate fields are computed by the caller.
type Session struct {
	ID                       Scalar               `json:"id"`
	UserID                   Scalar               `json:"user_id"`
	Title                    string               `json:"title"`
	Filename                 string               `json:"filename"`
	Model                    string               `json:"model"`
	CreatedAt                string               `json:"created_at"`
	TotalQuestions           Number               `json:"total_questions"`
	ConfidenceStats          ConfidenceStats      `json:"confidenceStats"`
	EfficiencyStats          EfficiencyStats      `json:"efficiencyStats"`
	QuestionTypeDistribution map[QuestionType]int `json:"questionTypeDistribution"`
}

// SessionDocument is a single session together with the logs chosen for export.
type SessionDocument struct {
	Session *Session `json:"session"`
	Logs    []Log    `json:"logs"`
}

// HistoryEntry is a session as listed on the history page: flat aggregate
// columns plus its logs.
type HistoryEntry struct {
	ID                  Scalar `json:"id"`
	UserID              Scalar `json:"user_id"`
	Title               string `json:"title"`
	Filename            string `json:"filename"`
	Model               string `json:"model"`
	CreatedAt           string `json:"created_at"`
	Logs                []Log  `json:"logs"`
	TotalQuestions      Number `json:"totalQuestions"`
	MaxConfidence       Number `json:"maxConfidence"`
	MinConfidence       Number `json:"minConfidence"`
	AvgConfidence       Number `json:"avgConfidence"`
	MinDuration         Number `json:"minDuration"`
	MaxDuration         Number `json:"maxDuration"`
	AvgDuration         Number `json:"avgDuration"`
	EssayCount          int    `json:"essayCount"`
	FillInTheBlankCount int    `json:"fillInTheBlankCount"`
	TrueFalseCount      int    `json:"trueFalseCount"`
	MultipleChoiceCount int    `json:"multipleChoiceCount"`
}

// QuestionTotal counts questions across all logs of the entry.
func (h HistoryEntry) QuestionTotal() int {
	n := 0
	for _, l := range h.Logs {
		n += len(l.Questions)
	}
	return n
}

// SessionListing is the summary row of a stored session.
type SessionListing struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Logs      int    `json:"logs"`
	Questions int    `json:"questions"`
}

// ImportInfo describes the most recent snapshot import.
type ImportInfo struct {
	ID       string `json:"id"`
	At       string `json:"at"`
	Sessions int    `json:"sessions"`
}
