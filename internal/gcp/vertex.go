package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

// --- Clause Extractor Model Prompt ---
const ClauseExtractorSystemPrompt = "You are a legal document analysis tool. Your task is to locate specific clauses in contract text and return them exactly as they appear, formatted as a valid JSON object. Accuracy and completeness of the extracted clause text are of utmost importance."

// VertexClient holds the pre-configured generative model for clause extraction.
type VertexClient struct {
	ClauseModel *genai.GenerativeModel
	baseClient  *genai.Client
}

// NewVertexClient creates a new client holding the clause extraction model.
func NewVertexClient(ctx context.Context, projectID, region string) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	clauseModel := baseClient.GenerativeModel("gemini-1.5-pro")
	clauseModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ClauseExtractorSystemPrompt)},
	}
	clauseModel.GenerationConfig = genai.GenerationConfig{
		// Low temp for deterministic clause extraction. The response MIME
		// type is deliberately left unset: the provider gives no structured
		// output guarantee, and the extractor parses the text defensively.
		Temperature: genai.Ptr[float32](0.0),
	}
	clauseModel.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	return &VertexClient{
		ClauseModel: clauseModel,
		baseClient:  baseClient,
	}, nil
}

// Complete sends a single prompt to the clause model and returns the
// concatenated text parts of the first candidate. No retry, no streaming.
func (c *VertexClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.ClauseModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content from gemini: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var contentBuilder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			contentBuilder.WriteString(string(txt))
		}
	}
	return contentBuilder.String(), nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}
