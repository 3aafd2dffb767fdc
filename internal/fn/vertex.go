package fn

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
)

const extractSystemPrompt = "You are an invoice parser. You read an invoice document and return ONLY a JSON object with the fields invoiceNumber, vendorName, customerName, invoiceDate (YYYY-MM-DD), totalAmount, and items (array of objects with description, quantity, unitPrice, total). Omit a field entirely when it is not present in the document. Never output null, never invent values, never wrap the JSON in markdown fences."

const answerSystemPrompt = "You are a concise assistant for a small-business invoice collection. Answer the user's question using only the invoice records provided in the prompt. When a question calls for arithmetic, compute it from the records. If the records cannot answer the question, say so."

// VertexGenerator implements Generator on Vertex AI.
type VertexGenerator struct {
	extractModel *genai.GenerativeModel
	answerModel  *genai.GenerativeModel
	client       *genai.Client
}

func NewVertexGenerator(ctx context.Context, projectID, region, model string) (*VertexGenerator, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexGenerator: projectID and region cannot be empty")
	}
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	extractModel := client.GenerativeModel(model)
	extractModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(extractSystemPrompt)},
	}
	extractModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	answerModel := client.GenerativeModel(model)
	answerModel.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(answerSystemPrompt)},
	}

	return &VertexGenerator{
		extractModel: extractModel,
		answerModel:  answerModel,
		client:       client,
	}, nil
}

func (g *VertexGenerator) Close() error {
	return g.client.Close()
}

func (g *VertexGenerator) ExtractFromFile(ctx context.Context, data []byte, mimeType string) ([]byte, *Usage, error) {
	return g.generateJSON(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text("Extract the invoice data from this document."),
	)
}

func (g *VertexGenerator) ExtractFromText(ctx context.Context, text string) ([]byte, *Usage, error) {
	return g.generateJSON(ctx,
		genai.Text("Extract the invoice data from the following document text:\n\n"+text),
	)
}

func (g *VertexGenerator) generateJSON(ctx context.Context, parts ...genai.Part) ([]byte, *Usage, error) {
	schema, _ := json.MarshalIndent(BuildInvoiceJSONSchema(), "", "  ")
	parts = append(parts, genai.Text("Return ONLY JSON matching this schema:\n"+string(schema)))

	resp, err := g.extractModel.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, nil, fmt.Errorf("generate content: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return nil, nil, err
	}
	return []byte(text), usageOf(resp), nil
}

func (g *VertexGenerator) Answer(ctx context.Context, prompt string) (string, error) {
	resp, err := g.answerModel.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("model returned no text parts")
	}
	return strings.TrimSpace(b.String()), nil
}

func usageOf(resp *genai.GenerateContentResponse) *Usage {
	if resp.UsageMetadata == nil {
		return nil
	}
	return &Usage{
		PromptTokens: resp.UsageMetadata.PromptTokenCount,
		OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
	}
}
