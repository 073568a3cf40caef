package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

// maxPromptChars bounds how much contract text goes into the model prompt,
// respecting the model's input-size limits. Truncation is silent: the tail
// of a very large contract is simply not seen by the model path.
const maxPromptChars = 30000

// jsonObjectPattern matches the first JSON-object-shaped substring of a
// model response, tolerating prose around it.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ClauseModel is the single-call language model operation the AI extractor
// consumes. The response is free text believed to contain JSON; there is no
// structured-output guarantee from the provider.
type ClauseModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AIExtractor drives the language model to pull both clauses out of the
// assembled contract text in one call. A failed call or an unparseable
// response is returned as an error so the chain can fall back wholesale;
// no partial merge ever happens.
type AIExtractor struct {
	Model ClauseModel
}

func (e *AIExtractor) Extract(ctx context.Context, text string) (Result, error) {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	response, err := e.Model.Complete(ctx, buildClausePrompt(text))
	if err != nil {
		return Result{}, fmt.Errorf("model call failed: %w", err)
	}

	// First try the JSON-object-shaped substring, then the whole response.
	raw := jsonObjectPattern.FindString(response)
	if raw == "" {
		raw = response
	}

	var parsed struct {
		IndemnificationClause string `json:"indemnification_clause"`
		TerminationClause     string `json:"termination_clause"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Result{}, fmt.Errorf("model response is not valid JSON: %w", err)
	}

	// Missing fields fall back to their stand-ins independently.
	result := Result{
		IndemnificationText: orNotFound(parsed.IndemnificationClause, IndemnificationNotFound),
		TerminationText:     orNotFound(parsed.TerminationClause, TerminationNotFound),
	}
	return result, nil
}

func buildClausePrompt(text string) string {
	return fmt.Sprintf(`Analyze the following contract text and extract two clauses:

1. The indemnification clause covering data breaches or security incidents.
2. The termination for convenience clause.

Return ONLY a JSON object with exactly these two keys:

{
  "indemnification_clause": "<the full clause text, or %q if the contract has none>",
  "termination_clause": "<the full clause text, or %q if the contract has none>"
}

Do not include any text before or after the JSON object.

Contract text:

%s`, IndemnificationNotFound, TerminationNotFound, text)
}
