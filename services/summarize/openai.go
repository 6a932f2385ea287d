package summarize

import (
	"context"
	stderrors "errors"
	"fmt"

	apperrors "ytbrief/errors"
	"ytbrief/models"

	openai "github.com/sashabaranov/go-openai"
)

const newsPrompt = `You are an expert video summarizer. Provide a clear, concise, well-structured summary of a video based on its transcript.

Start with a brief one-paragraph overview of the main topic and purpose. Then create distinct sections using these markdown headings, omitting any that do not apply:
**WHAT**: The main subject or event discussed.
**WHY**: Why the topic matters and the motivation behind the content.
**WHO**: The key people, speakers, or groups involved.
**WHEN**: When the events took place or when the information is relevant.
**WHERE**: The geographical or contextual setting.
**HOW**: How the main points are demonstrated or achieved.

Use clear language and focus on the most important information.`

const tutorialPrompt = `You are an expert video summarizer. Provide a clear, practical summary of an instructional video based on its transcript.

Start with a brief one-paragraph overview of what the video teaches. Then create distinct sections using these markdown headings, omitting any that do not apply:
**GOAL**: What the viewer will be able to do afterwards.
**PREREQUISITES**: Tools, materials, or knowledge needed before starting.
**STEPS**: The key steps in order, each in one or two sentences.
**PITFALLS**: Mistakes or gotchas the video warns about.

Use clear language and keep the steps actionable.`

// OpenAI is the chat-completion summary engine.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *OpenAI) Summarize(ctx context.Context, transcript string, md models.VideoMetadata, tag models.ContentType) (string, error) {
	const op = "OpenAIEngine.Summarize"

	systemPrompt := newsPrompt
	if tag == models.ContentTypeTutorial {
		systemPrompt = tutorialPrompt
	}

	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role: openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("Video title: %s\nChannel: %s\n\nTranscript:\n%s",
						md.Title, md.Channel, transcript),
				},
			},
		})
	if err != nil {
		return "", classifyEngineError(op, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.UpstreamRejected(op, nil, "Summary engine returned no choices")
	}

	return resp.Choices[len(resp.Choices)-1].Message.Content, nil
}

func classifyEngineError(op string, err error) error {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return apperrors.UpstreamThrottled(op, err)
		case apiErr.HTTPStatusCode >= 500:
			return apperrors.UpstreamUnavailable(op, err)
		case apiErr.HTTPStatusCode == 400 || apiErr.HTTPStatusCode == 403:
			return apperrors.UpstreamRejected(op, err, "Summary engine rejected the request")
		}
	}
	return apperrors.UpstreamUnavailable(op, err)
}
