package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"
)

type IVision interface {
	AnalyzeImage(ctx context.Context, imgData []byte, mimeType string, prompt string) (string, error)
}

type visionService struct {
	client *openai.Client
	model  string
}

func NewVision() (IVision, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}

	model := os.Getenv("OPENAI_VISION_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}

	return &visionService{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (v *visionService) AnalyzeImage(ctx context.Context, imgData []byte, mimeType string, prompt string) (string, error) {
	if len(imgData) == 0 {
		return "", errors.New("empty image data")
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imgData))

	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       v.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURI,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI API")
	}

	return resp.Choices[0].Message.Content, nil
}
