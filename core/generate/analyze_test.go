package generate

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAnalyzeCode(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  *Analysis
	}{
		{
			name:  "clean json",
			reply: validAnalysis,
			want: &Analysis{
				QualityScore:         7.5,
				Strengths:            []string{"small"},
				Weaknesses:           []string{"no tests"},
				Recommendations:      []string{"add tests"},
				MaintainabilityIndex: 72,
			},
		},
		{
			name: "fenced with prose and trailing comma",
			reply: "Sure! Here is the analysis:\n```json\n{\n  \"qualityScore\": 6,\n" +
				"  \"strengths\": [\"readable\",],\n  \"maintainabilityIndex\": 55,\n}\n```\nLet me know!",
			want: &Analysis{
				QualityScore:         6,
				Strengths:            []string{"readable"},
				Weaknesses:           []string{},
				Recommendations:      []string{},
				MaintainabilityIndex: 55,
			},
		},
		{
			name:  "truncated reply",
			reply: `{"qualityScore": 4, "strengths": ["short"], "weaknesses": ["globals"`,
			want: &Analysis{
				QualityScore:    4,
				Strengths:       []string{"short"},
				Weaknesses:      []string{"globals"},
				Recommendations: []string{},
			},
		},
		{
			name:  "out of range scores are clamped",
			reply: `{"qualityScore": 42, "maintainabilityIndex": -5}`,
			want: &Analysis{
				QualityScore:    10,
				Strengths:       []string{},
				Weaknesses:      []string{},
				Recommendations: []string{},
			},
		},
		{
			name:  "smart quotes",
			reply: "{\u201cqualityScore\u201d: 8, \u201cstrengths\u201d: [\u201cfast\u201d]}",
			want: &Analysis{
				QualityScore:    8,
				Strengths:       []string{"fast"},
				Weaknesses:      []string{},
				Recommendations: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, _ := New(newScriptedProvider(tt.reply))

			got, err := gen.AnalyzeCode(context.Background(), "func add(a, b int) int { return a + b }")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("AnalyzeCode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeCode_Prompt(t *testing.T) {
	provider := newScriptedProvider(validAnalysis)
	gen, _ := New(provider)
	source := "func add(a, b int) int { return a + b }"

	if _, err := gen.AnalyzeCode(context.Background(), source); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := provider.requests[0].Messages[0].Content
	for _, want := range []string{source, `"qualityScore"`, `"maintainabilityIndex"`, "Maintainability index from 0 to 100"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt does not contain %q:\n%s", want, prompt)
		}
	}
}
