package model

// SessionExport is the top-level JSON structure of a single-session export.
type SessionExport struct {
	SessionDetails SessionDetails `json:"session_details"`
}

// SessionDetails holds session metadata and the exported logs.
type SessionDetails struct {
	ID                       Scalar               `json:"id"`
	UserID                   Scalar               `json:"user_id"`
	Title                    string               `json:"title"`
	Filename                 string               `json:"filename"`
	Model                    string               `json:"model"`
	CreatedAt                string               `json:"created_at"`
	TotalQuestions           Number               `json:"total_questions"`
	ConfidenceStats          ConfidenceStats      `json:"confidence_stats"`
	QuestionTypeDistribution map[QuestionType]int `json:"question_type_distribution"`
	EfficiencyStats          EfficiencyStats      `json:"efficiency_stats"`
	Logs                     []LogExport          `json:"logs"`
}

// LogExport holds one generation batch with its normalized questions.
type LogExport struct {
	ID            Scalar     `json:"id"`
	Duration      Number     `json:"duration"`
	Pages         string     `json:"pages"`
	InputTokens   Number     `json:"input_tokens"`
	OutputTokens  Number     `json:"output_tokens"`
	TotalTokens   Number     `json:"total_tokens"`
	QuestionCount Number     `json:"question_count"`
	CreatedAt     string     `json:"created_at"`
	TemplateID    Scalar     `json:"template_id"`
	TemplateText  string     `json:"template_text"`
	Questions     []Question `json:"questions"`
}
