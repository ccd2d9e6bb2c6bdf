package core

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careplan-assistant/internal/llm"
	"careplan-assistant/pkg"
)

// fakeClient records calls and replays canned replies.
type fakeClient struct {
	jsonReply string
	jsonErr   error
	textReply string
	textErr   error

	jsonCalls int
	textCalls int
	lastMsgs  []llm.Message
}

func (f *fakeClient) Complete(_ context.Context, msgs []llm.Message) (string, error) {
	f.textCalls++
	f.lastMsgs = msgs
	return f.textReply, f.textErr
}

func (f *fakeClient) CompleteJSON(_ context.Context, msgs []llm.Message) (string, error) {
	f.jsonCalls++
	f.lastMsgs = msgs
	return f.jsonReply, f.jsonErr
}

func newTestService(client llm.Client) *CarePlanService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewCarePlanService(client, NewKeywordGate(), log)
}

func TestGenerate_Success(t *testing.T) {
	client := &fakeClient{jsonReply: wellFormed}
	svc := newTestService(client)
	store := NewSessionStore()

	res, err := svc.Generate(context.Background(), store, "68歳男性、術後1日目、離床困難、疼痛NRS6", pkg.FormatBoth)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.NotEmpty(t, res.Soap.Assessment)
	assert.NotEmpty(t, res.PlanTable.Problems)
	assert.True(t, store.HasLastOutputs())
	require.Len(t, store.History(), 1)
	assert.Equal(t, pkg.HistoryGeneration, store.History()[0].Kind)
}

func TestGenerate_NormalizesPartialModelOutput(t *testing.T) {
	client := &fakeClient{jsonReply: `{"soap": {"assessment": ["A1"], "plan": ["P1"]}}`}
	svc := newTestService(client)
	store := NewSessionStore()

	res, err := svc.Generate(context.Background(), store, "患者テキスト", pkg.FormatSOAP)
	require.NoError(t, err)

	// All three top-level fields are present even though the model omitted two.
	assert.NotNil(t, res.PlanTable.Problems)
	assert.NotNil(t, res.ReasoningSummary.KeyFindings)
}

func TestGenerate_ValidationErrors(t *testing.T) {
	client := &fakeClient{jsonReply: wellFormed}
	svc := newTestService(client)
	store := NewSessionStore()

	tests := []struct {
		name   string
		text   string
		format pkg.OutputFormat
	}{
		{name: "empty text", text: "", format: pkg.FormatBoth},
		{name: "whitespace text", text: "  \n ", format: pkg.FormatBoth},
		{name: "unknown format", text: "患者テキスト", format: pkg.OutputFormat("csv")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), store, tt.text, tt.format)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}

	// Validation failures never reach the model or the store.
	assert.Zero(t, client.jsonCalls)
	assert.False(t, store.HasLastOutputs())
	assert.Empty(t, store.History())
}

func TestGenerate_ProviderFailureLeavesStoreUntouched(t *testing.T) {
	client := &fakeClient{jsonErr: errors.New("rate limited")}
	svc := newTestService(client)
	store := NewSessionStore()

	_, err := svc.Generate(context.Background(), store, "患者テキスト", pkg.FormatBoth)
	var pErr *ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.False(t, store.HasLastOutputs())
	assert.Empty(t, store.History())
}

func TestGenerate_ParseFailureLeavesStoreUntouched(t *testing.T) {
	client := &fakeClient{jsonReply: "これはJSONではありません"}
	svc := newTestService(client)
	store := NewSessionStore()

	_, err := svc.Generate(context.Background(), store, "患者テキスト", pkg.FormatBoth)
	assert.ErrorIs(t, err, ErrParseFailure)
	assert.False(t, store.HasLastOutputs())
	assert.Empty(t, store.History())
}

func TestFollowUp_RequiresContext(t *testing.T) {
	client := &fakeClient{textReply: "回答"}
	svc := newTestService(client)
	store := NewSessionStore()

	_, err := svc.FollowUp(context.Background(), store, "目標の根拠は？")
	assert.ErrorIs(t, err, ErrNoContext)
	assert.Zero(t, client.textCalls)
}

func TestFollowUp_EmptyQuestion(t *testing.T) {
	client := &fakeClient{jsonReply: wellFormed, textReply: "回答"}
	svc := newTestService(client)
	store := NewSessionStore()
	_, err := svc.Generate(context.Background(), store, "患者テキスト", pkg.FormatBoth)
	require.NoError(t, err)

	_, err = svc.FollowUp(context.Background(), store, "   ")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Zero(t, client.textCalls)
}

func TestFollowUp_GateRejectsWithoutModelCall(t *testing.T) {
	client := &fakeClient{jsonReply: wellFormed, textReply: "回答"}
	svc := newTestService(client)
	store := NewSessionStore()
	_, err := svc.Generate(context.Background(), store, "患者テキスト", pkg.FormatBoth)
	require.NoError(t, err)

	_, err = svc.FollowUp(context.Background(), store, "今日の天気は？")
	assert.ErrorIs(t, err, ErrNotRelevant)

	// Rejection is a routing decision: no model call, no history append.
	assert.Zero(t, client.textCalls)
	assert.Len(t, store.History(), 1)
}

func TestFollowUp_Success(t *testing.T) {
	client := &fakeClient{jsonReply: wellFormed, textReply: "短期目標はNRS低下を指標とします。"}
	svc := newTestService(client)
	store := NewSessionStore()
	_, err := svc.Generate(context.Background(), store, "68歳男性、術後1日目、離床困難、疼痛NRS6", pkg.FormatBoth)
	require.NoError(t, err)

	answer, err := svc.FollowUp(context.Background(), store, "目標設定の根拠は？")
	require.NoError(t, err)
	assert.Equal(t, "短期目標はNRS低下を指標とします。", answer)

	history := store.History()
	require.Len(t, history, 2)
	assert.Equal(t, pkg.HistoryFollowUp, history[1].Kind)
	assert.Equal(t, "目標設定の根拠は？", history[1].Question)

	// The follow-up prompt carries the stored context and the question.
	require.Len(t, client.lastMsgs, 2)
	assert.Equal(t, "system", client.lastMsgs[0].Role)
	assert.Contains(t, client.lastMsgs[1].Content, "68歳男性")
	assert.Contains(t, client.lastMsgs[1].Content, "目標設定の根拠は？")
}

func TestServiceFlow_GenerateFollowUpGenerate(t *testing.T) {
	client := &fakeClient{jsonReply: wellFormed, textReply: "回答"}
	svc := newTestService(client)
	store := NewSessionStore()
	ctx := context.Background()

	_, err := svc.Generate(ctx, store, "一人目の患者", pkg.FormatBoth)
	require.NoError(t, err)
	_, err = svc.FollowUp(ctx, store, "評価の基準は？")
	require.NoError(t, err)
	_, err = svc.Generate(ctx, store, "二人目の患者", pkg.FormatTable)
	require.NoError(t, err)

	history := store.History()
	require.Len(t, history, 3)
	kinds := []pkg.HistoryKind{history[0].Kind, history[1].Kind, history[2].Kind}
	assert.Equal(t, []pkg.HistoryKind{pkg.HistoryGeneration, pkg.HistoryFollowUp, pkg.HistoryGeneration}, kinds)

	// Follow-up context now reflects only the second generation.
	ctxOut := store.CurrentContext()
	require.NotNil(t, ctxOut)
	assert.Equal(t, "二人目の患者", ctxOut.PatientText)

	msgs := BuildFollowUpPrompt(ctxOut, "計画の要点は？")
	assert.Contains(t, msgs[1].Content, "二人目の患者")
	assert.False(t, strings.Contains(msgs[1].Content, "一人目の患者"))
}
