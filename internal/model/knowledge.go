package model

// KnowledgeSource tells where a knowledge match came from.
type KnowledgeSource string

const (
	KnowledgeQAPair      KnowledgeSource = "qaPair"
	KnowledgeFileExcerpt KnowledgeSource = "fileExcerpt"
)

// KnowledgeMatch is one piece of tenant training data relevant to a message.
type KnowledgeMatch struct {
	Source  KnowledgeSource `json:"source"`
	Score   float64         `json:"score"`
	Content string          `json:"content"`

	// Question and Answer are set for QA pairs, FileName for excerpts.
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// KnowledgeResult groups retrieval matches by source.
type KnowledgeResult struct {
	QAMatches   []KnowledgeMatch `json:"qa_matches"`
	FileMatches []KnowledgeMatch `json:"file_content"`
}

// Empty reports whether retrieval found nothing at all.
func (r KnowledgeResult) Empty() bool {
	return len(r.QAMatches) == 0 && len(r.FileMatches) == 0
}

// All returns QA matches followed by file matches.
func (r KnowledgeResult) All() []KnowledgeMatch {
	all := make([]KnowledgeMatch, 0, len(r.QAMatches)+len(r.FileMatches))
	all = append(all, r.QAMatches...)
	return append(all, r.FileMatches...)
}

// DecisionMode is the branch the orchestrator took.
type DecisionMode string

const (
	DecisionFallback DecisionMode = "fallback"
	DecisionGenerate DecisionMode = "generate"
)

// Decision records the orchestrator branch and why it was taken.
type Decision struct {
	Mode      DecisionMode `json:"mode"`
	Reasoning string       `json:"reasoning"`
}
