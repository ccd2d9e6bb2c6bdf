package core

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"careplan-assistant/internal/llm"
	"careplan-assistant/pkg"
)

// CarePlanService orchestrates one session's interaction with the model:
// building prompts, calling the provider, parsing the reply and updating the
// session store. It holds no per-session state itself; the store is passed in
// per call so one service instance can serve every session.
type CarePlanService struct {
	LLM  llm.Client
	Gate RelevancePolicy
	Log  *logrus.Logger
}

// NewCarePlanService constructs a service over the given model client and
// relevance policy.
func NewCarePlanService(client llm.Client, gate RelevancePolicy, log *logrus.Logger) *CarePlanService {
	if log == nil {
		log = logrus.New()
	}
	return &CarePlanService{LLM: client, Gate: gate, Log: log}
}

// Generate produces a structured care plan for the given patient text.
// Failures are returned as one of the typed kinds in errors.go and leave the
// store untouched; only a fully parsed result is recorded.
func (s *CarePlanService) Generate(ctx context.Context, store *SessionStore, patientText string, format pkg.OutputFormat) (*pkg.GenerationResult, error) {
	if strings.TrimSpace(patientText) == "" {
		return nil, &ValidationError{Msg: "看護情報を入力してください。"}
	}
	if !format.Valid() {
		return nil, &ValidationError{Msg: "出力形式を選択してください。"}
	}

	messages := BuildGenerationPrompt(patientText, format)
	raw, err := s.LLM.CompleteJSON(ctx, messages)
	if err != nil {
		s.Log.WithError(err).Error("generation call failed")
		return nil, &ProviderError{Cause: err}
	}

	result, err := ParseGenerationResult(raw)
	if err != nil {
		s.Log.WithField("raw_len", len(raw)).Warn("generation output unparseable after repair")
		return nil, err
	}

	store.RecordGeneration(patientText, format, result)
	return result, nil
}

// FollowUp answers a bounded question about the session's last generation
// result. The relevance gate runs before any model call; a rejected question
// is a routing signal (ErrNotRelevant), not a failure, and appends nothing to
// history.
func (s *CarePlanService) FollowUp(ctx context.Context, store *SessionStore, question string) (string, error) {
	if !store.HasLastOutputs() {
		return "", ErrNoContext
	}
	if strings.TrimSpace(question) == "" {
		return "", &ValidationError{Msg: "質問内容を入力してください。"}
	}
	if !s.Gate.IsRelevant(question) {
		return "", ErrNotRelevant
	}

	messages := BuildFollowUpPrompt(store.CurrentContext(), question)
	answer, err := s.LLM.Complete(ctx, messages)
	if err != nil {
		s.Log.WithError(err).Error("follow-up call failed")
		return "", &ProviderError{Cause: err}
	}

	store.RecordFollowUp(question, answer)
	return answer, nil
}
