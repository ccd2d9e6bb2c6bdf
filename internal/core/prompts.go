package core

// prompts.go defines the Japanese prompts used for care-plan generation and
// follow-up answering. Keeping these in one file makes them easy to tweak
// without touching the rest of the code.

import (
	"encoding/json"
	"fmt"

	"careplan-assistant/internal/llm"
	"careplan-assistant/pkg"
)

const (
	// SystemRole is the fixed clinical persona shared by generation and
	// follow-up calls: a veteran nurse writing in Japanese for the adult
	// general population, using NANDA-I/NIC/NOC terminology, with the
	// educational-use disclaimer.
	SystemRole = "あなたは臨床現場での豊富な経験を持つベテランの看護師です。\n" +
		"出力は日本語。対象は成人一般。NANDA-I/NIC/NOCに準拠した用語を用います。\n" +
		"安全・再現性を重視し、臨床で実行可能な粒度で簡潔明瞭に記述します。\n" +
		"本アプリは教育・支援目的であり、最終判断は医療従事者に委ねられます。"

	// planJSONSpec is the strict output contract appended to every generation
	// request. The item-count guidance is a soft instruction to the model,
	// not an enforced invariant.
	planJSONSpec = `必ず以下のJSONで返してください（余計なテキストは一切禁止）:
{
  "soap": {
    "assessment": [ "A1", "A2", "A3" ],
    "plan": [ "P1", "P2", "P3" ]
  },
  "plan_table": {
    "problems": [ "NANDA-Iラベル + 定義/関連因子（必要に応じて）" ],
    "assessments": [ "問題に関連する観察/測定・根拠" ],
    "goals": [ "NOC: 目標（短期/長期）＋評価指標（尺度があれば併記）" ],
    "interventions": [ "NIC: 具体的介入（頻度・タイミング・留意点）" ],
    "evaluation": [ "再評価方法・判定基準・次の一手" ]
  },
  "reasoning_summary": {
    "key_findings": [ "重要所見1", "重要所見2" ],
    "rationales": [ "根拠/臨床推論の要点" ],
    "differentials": [ "鑑別的観点（該当すれば）" ]
  }
}
リストは臨床的に妥当な件数（概ね3〜5）に調整してください。`
)

// BuildGenerationPrompt constructs the message sequence for a generation
// call: the fixed system persona followed by one user message carrying the
// verbatim patient text, the requested output format and the JSON contract.
func BuildGenerationPrompt(patientText string, format pkg.OutputFormat) []llm.Message {
	user := fmt.Sprintf(`看護情報:
"""%s"""

要求:
- 出力形式の希望: %s
- SOAP形式では A（Assessment）と P（Plan）を列挙
- 看護計画表形式では 問題/アセスメント/目標(NOC)/介入(NIC)/評価 を列挙
- NANDA-I/NIC/NOC に準拠（用語/視点）
- 重複や冗長表現を避ける
- 実行可能性・安全性を明示（頻度、条件、観察ポイントなど）

%s
`, patientText, format, planJSONSpec)
	return []llm.Message{
		{Role: "system", Content: SystemRole},
		{Role: "user", Content: user},
	}
}

// BuildFollowUpPrompt constructs the message sequence for a follow-up call.
// The full last-generation context is embedded as JSON so the model can only
// answer from it; the trailing constraints are defense in depth on top of the
// relevance gate, not a substitute for it. A nil or partially populated
// context degrades to empty placeholders rather than failing, keeping the
// follow-up path usable against partially populated state.
func BuildFollowUpPrompt(context *pkg.LastOutputs, question string) []llm.Message {
	if context == nil {
		context = &pkg.LastOutputs{}
	}
	ctxJSON, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		ctxJSON = []byte("{}")
	}
	user := fmt.Sprintf(`コンテキスト（生成済み出力）:
%s

質問: %s

制約:
- 回答は上記コンテキストに基づく説明・要約・意図の明確化に限定。
- 生の思考連鎖の開示は禁止。代わりに reasoning_summary を根拠として説明。
- 看護情報や出力と無関係な質問には答えない。
- 箇条書きや短い段落で、臨床で使える形に簡潔化。
`, ctxJSON, question)
	return []llm.Message{
		{Role: "system", Content: SystemRole},
		{Role: "user", Content: user},
	}
}
