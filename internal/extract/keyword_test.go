package extract

import (
	"context"
	"strings"
	"testing"
)

func TestKeywordExtractor_BothClausesFound(t *testing.T) {
	text := "This Agreement may be terminated for convenience by either party.\n\n" +
		"The vendor shall indemnify the client for any data breach."

	result, err := KeywordExtractor{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.IndemnificationText, "indemnify") ||
		!strings.Contains(result.IndemnificationText, "data breach") {
		t.Errorf("indemnification text missing expected terms: %q", result.IndemnificationText)
	}
	if !strings.Contains(result.TerminationText, "terminated for convenience") {
		t.Errorf("termination text missing expected phrase: %q", result.TerminationText)
	}
}

func TestKeywordExtractor_NoMatchesYieldSentinels(t *testing.T) {
	result, err := KeywordExtractor{}.Extract(context.Background(), "Nothing relevant here.\n\nStill nothing.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IndemnificationText != IndemnificationNotFound {
		t.Errorf("expected indemnification stand-in, got %q", result.IndemnificationText)
	}
	if result.TerminationText != TerminationNotFound {
		t.Errorf("expected termination stand-in, got %q", result.TerminationText)
	}
}

func TestKeywordExtractor_EmptyInput(t *testing.T) {
	result, err := KeywordExtractor{}.Extract(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IndemnificationText == "" || result.TerminationText == "" {
		t.Error("extractor must never return empty strings")
	}
}

func TestKeywordExtractor_ParagraphInBothBuffers(t *testing.T) {
	text := "Either party may terminate this agreement at will, and the vendor shall indemnify the client."

	result, err := KeywordExtractor{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.IndemnificationText, "indemnify") {
		t.Errorf("paragraph should appear in indemnification buffer: %q", result.IndemnificationText)
	}
	if !strings.Contains(result.TerminationText, "terminate this agreement at will") {
		t.Errorf("paragraph should appear in termination buffer: %q", result.TerminationText)
	}
}

func TestKeywordExtractor_TerminationNeedsQualifier(t *testing.T) {
	// A termination-for-cause clause must not match.
	text := "This agreement terminates upon material breach by either party."

	result, err := KeywordExtractor{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TerminationText != TerminationNotFound {
		t.Errorf("expected termination stand-in for unqualified clause, got %q", result.TerminationText)
	}
	// "breach" alone is not an indemnification term either.
	if result.IndemnificationText != IndemnificationNotFound {
		t.Errorf("expected indemnification stand-in, got %q", result.IndemnificationText)
	}
}

func TestKeywordExtractor_MultipleMatchingParagraphs(t *testing.T) {
	text := "The supplier's liability is capped at fees paid.\n\n" +
		"Irrelevant boilerplate.\n\n" +
		"Supplier shall indemnify customer against security breach claims."

	result, err := KeywordExtractor{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.IndemnificationText, "liability is capped") ||
		!strings.Contains(result.IndemnificationText, "security breach") {
		t.Errorf("expected both paragraphs in the buffer, got %q", result.IndemnificationText)
	}
	if strings.Contains(result.IndemnificationText, "boilerplate") {
		t.Errorf("non-matching paragraph leaked into buffer: %q", result.IndemnificationText)
	}
}

func TestKeywordExtractor_Deterministic(t *testing.T) {
	text := "Vendor shall indemnify client for data breach losses.\n\n" +
		"Client may terminate for convenience on 30 days notice."

	first, _ := KeywordExtractor{}.Extract(context.Background(), text)
	for range 5 {
		again, _ := KeywordExtractor{}.Extract(context.Background(), text)
		if again != first {
			t.Fatalf("extractor is not deterministic: %+v vs %+v", again, first)
		}
	}
}
