package chat

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const careSystemPrompt = `You are a caregiver assistant built into an infant cry classification tool.
The tool has just predicted the reason behind a baby's cry. You suggest one or
two practical soothing steps a parent can try right away for that reason.

Keep the tone calm and reassuring. Never give a medical diagnosis; if anything
sounds serious or the crying persists, advise contacting a pediatrician.
Keep responses under 80 words and in plain sentences.`

type GeminiClient struct {
	client *genai.Client
	ctx    context.Context
}

// NewGeminiClient requires GEMINI_API_KEY in the environment. Callers load
// any .env file before constructing the client.
func NewGeminiClient() (*GeminiClient, error) {
	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &GeminiClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// GenerateCareNote asks the model for a short soothing tip for the
// predicted cry reason. Category names use corpus folder spelling
// ("belly_pain"), which is humanized before prompting.
func (g *GeminiClient) GenerateCareNote(category string) (string, error) {
	reason := strings.ReplaceAll(category, "_", " ")
	message := fmt.Sprintf("The classifier decided the baby is crying because it is dealing with: %s. Give the caregiver one short practical tip.", reason)
	return g.generate(message)
}

func (g *GeminiClient) generate(message string) (string, error) {
	// Create content with system instruction and user message
	systemInstruction := genai.NewContentFromText(careSystemPrompt, genai.RoleModel)
	userContent := genai.NewContentFromText(message, genai.RoleUser)

	// Configure generation parameters
	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       genai.Ptr(float32(0.7)),
		TopP:              genai.Ptr(float32(0.8)),
		TopK:              genai.Ptr(float32(40)),
		MaxOutputTokens:   int32(200),
	}

	resp, err := g.client.Models.GenerateContent(
		g.ctx,
		"gemini-2.5-flash",
		[]*genai.Content{userContent},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %v", err)
	}

	text := resp.Text()
	if text == "" {
		return "I couldn't come up with a specific tip right now. Comfort your baby and trust your instincts.", nil
	}

	cleanText := strings.ReplaceAll(text, "*", "")

	return cleanText, nil
}

func (g *GeminiClient) Close() error {
	// The client doesn't have an explicit Close method
	// Resources are managed automatically
	return nil
}
