package rag

import (
	"context"
	"strings"

	"ai-tutor-be/internal/constant"
	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/pkg/retriever"
	"ai-tutor-be/pkg/store"
)

// AssembledContext is the grounding block handed to the response model.
// When OK is false the retrieval came back empty and the caller should use
// its default system prompt instead.
type AssembledContext struct {
	SystemPrompt string
	Chunks       []store.Chunk
	OK           bool
}

// Assembler turns a user query into a grounded system prompt: retrieve the
// top-k chunks, join them in score order, prefix the grounding rules.
type Assembler struct {
	retriever retriever.Retriever
	topK      int
	logger    logger.ILogger
}

func NewAssembler(r retriever.Retriever, topK int, log logger.ILogger) *Assembler {
	if topK <= 0 {
		topK = 4
	}
	return &Assembler{
		retriever: r,
		topK:      topK,
		logger:    log,
	}
}

func (a *Assembler) Assemble(ctx context.Context, query string) (*AssembledContext, error) {
	chunks, err := a.retriever.Retrieve(ctx, query, a.topK)
	if err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		a.logger.Debug("rag", "empty retrieval, caller should fall back", map[string]interface{}{
			"query_len": len(query),
		})
		return &AssembledContext{OK: false}, nil
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}

	return &AssembledContext{
		SystemPrompt: constant.RAGSystemPromptPrefix + strings.Join(parts, "\n\n"),
		Chunks:       chunks,
		OK:           true,
	}, nil
}
