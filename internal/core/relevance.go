package core

import "strings"

// RelevancePolicy decides whether a follow-up question is in-domain before it
// is sent to the model. It is a standalone policy object so the keyword
// heuristic can later be swapped for a semantic classifier without touching
// CarePlanService.
type RelevancePolicy interface {
	IsRelevant(question string) bool
}

// relevantKeywords is the allow-list of domain terms a follow-up must touch.
// Substring matching is a deliberate heuristic: questions phrased without
// these tokens are rejected even when relevant, and off-topic questions that
// happen to contain one slip through. Both are accepted tradeoffs, known
// limitations rather than bugs.
var relevantKeywords = []string{
	"看護", "患者", "診断", "目標", "介入", "評価", "アセスメント", "soap", "計画", "根拠", "要点",
	"nanda", "nanda-i", "nic", "noc",
}

// KeywordGate implements RelevancePolicy by case-insensitive substring match
// against a fixed keyword set.
type KeywordGate struct {
	keywords []string
}

// NewKeywordGate constructs a gate over the default nursing-domain keywords.
func NewKeywordGate() *KeywordGate {
	return &KeywordGate{keywords: relevantKeywords}
}

// IsRelevant reports whether the question contains any configured keyword.
// Empty or whitespace-only questions are always rejected.
func (g *KeywordGate) IsRelevant(question string) bool {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return false
	}
	for _, k := range g.keywords {
		if strings.Contains(q, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
