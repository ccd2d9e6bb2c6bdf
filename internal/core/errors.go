package core

import (
	"errors"
	"fmt"
)

// The service boundary converts every failure into one of the kinds below
// before returning; callers route on them and never see raw provider errors.

var (
	// ErrParseFailure reports model output that stayed unparseable or
	// schema-incomplete after the repair attempt. Empty and malformed
	// responses are deliberately not distinguished.
	ErrParseFailure = errors.New("出力の解析に失敗しました。入力内容を見直すか、再度実行してください。")

	// ErrNotRelevant is a routing decision, not a failure: the relevance
	// gate rejected a follow-up question before any model call.
	ErrNotRelevant = errors.New("本件とは関係がない質問です。対象：『看護情報 → 看護診断 / 看護計画（SOAP / 計画表）』に関するご質問を受け付けます。")

	// ErrNoContext reports a follow-up attempted before any successful
	// generation. The UI hides the follow-up box until context exists, so
	// reaching this indicates a caller bug or a stale page.
	ErrNoContext = errors.New("先に看護情報を送信して結果を生成してください。")
)

// ValidationError reports empty required input. It is recovered locally by
// re-prompting the user and never reaches the model.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ProviderError wraps a model or transport failure. The short message is what
// users see; the cause is kept for logging only.
type ProviderError struct {
	Cause error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("生成に失敗しました: %v", e.Cause)
}

func (e *ProviderError) Unwrap() error { return e.Cause }
