package client

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"repodocs/internal/models"
)

// GenerateFragment sends one chunk to the model and returns its documentation
// fragment. On a rate-limit rejection it waits baseDelay*2^attempt and tries
// again, up to the attempt budget; any other error propagates immediately.
func (c *LLMClient) GenerateFragment(ctx context.Context, chunk models.Chunk, total int, instructions string) (models.DocFragment, error) {
	messages := c.buildMessages(chunk, total, instructions)

	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		out, err := c.chat.Generate(ctx, messages)
		if err == nil {
			text := strings.TrimSpace(out.Content)
			if text == "" {
				return models.DocFragment{}, fmt.Errorf("llm: empty completion for chunk %d", chunk.Index)
			}
			return models.DocFragment{Index: chunk.Index, Total: total, Text: text}, nil
		}
		if !IsRateLimited(err) {
			return models.DocFragment{}, fmt.Errorf("llm: chunk %d: %w", chunk.Index, err)
		}

		lastErr = err
		if attempt < c.attempts-1 {
			delay := c.baseDelay * time.Duration(1<<attempt)
			log.Printf("llm: rate limited on chunk %d (attempt %d/%d), backing off %s", chunk.Index, attempt+1, c.attempts, delay)
			if werr := c.wait(ctx, delay); werr != nil {
				return models.DocFragment{}, werr
			}
		}
	}
	return models.DocFragment{}, &ExhaustedError{Attempts: c.attempts, Last: lastErr}
}

func (c *LLMClient) buildMessages(chunk models.Chunk, total int, instructions string) []*schema.Message {
	system := systemPrompt()
	if extra := strings.TrimSpace(instructions); extra != "" {
		system += "\n\nAdditional instructions from the requester:\n" + extra
	}

	user := fmt.Sprintf(
		"This is part %d of %d of the repository source.\n\n%s",
		chunk.Index+1, total, chunk.Text,
	)
	return []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}
}

func systemPrompt() string {
	data, err := embeddedPrompts.ReadFile("prompts/fragment_system.txt")
	if err != nil {
		// The embed is part of the build; this is unreachable short of a
		// corrupted binary, but the pipeline should not die over a prompt.
		return "Analyze this code and generate reStructuredText documentation for it."
	}
	return strings.TrimSpace(string(data))
}
