package generate

import (
	"fmt"
	"strings"

	"github.com/leofalp/airecover/internal/jsonschema"
)

const defaultSystemPrompt = "You are a senior software engineer reviewing code. " +
	"Answer with a single JSON object and nothing else: no prose, no markdown fences."

const repromptText = "Your previous answer could not be parsed. " +
	"Reply again with only the JSON object, complete and valid, matching the schema."

const (
	kindAnalysis      = "analysis"
	kindTestCases     = "test_cases"
	kindDocumentation = "documentation"
)

// schemaText renders the JSON schema of T for inclusion in a prompt.
func schemaText[T any]() (string, error) {
	schema, err := jsonschema.GenerateJSONSchema[T]()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}
	return schema.JsonString(true)
}

func buildPrompt(task, schema, source string) string {
	var b strings.Builder
	b.WriteString(task)
	b.WriteString("\n\nRespond with JSON matching this schema:\n")
	b.WriteString(schema)
	b.WriteString("\n\nCode:\n```\n")
	b.WriteString(strings.TrimSpace(source))
	b.WriteString("\n```\n")
	return b.String()
}

func analysisTask() string {
	return "Analyze the quality of the following code. List its strengths, weaknesses and " +
		"concrete recommendations, and score its quality and maintainability."
}

func testCasesTask(framework string) string {
	return fmt.Sprintf("Write test cases for the following code using %s. "+
		"Cover normal behaviour, integration points and edge cases, "+
		"and estimate the coverage they reach.", framework)
}

func documentationTask() string {
	return "Write reference documentation for the following code: an overview, usage notes, " +
		"one entry per exported symbol, and a mermaid diagram of its main components. " +
		"Put the complete document, diagram included, in the markdown field."
}
