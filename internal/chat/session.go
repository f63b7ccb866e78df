package chat

import (
	"context"
	"sync"

	"github.com/fizipop/uni-ai-app/internal/llm"
)

const systemPrompt = `You are a friendly Canadian university advisor cat 🐱.
ONLY answer questions related to Canadian universities, courses, admissions, grades, scholarships, or student life.
Do NOT answer unrelated questions like personal hygiene, cooking, or politics.
Keep answers short, clear, and helpful.`

// DefaultMaxTurns bounds how many non-system messages a transcript
// keeps. Older turns are dropped; the system directive never is.
const DefaultMaxTurns = 20

// Completer is the slice of the LLM client the chat needs.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
}

type transcript struct {
	mu       sync.Mutex
	messages []llm.Message
}

// Service owns one bounded transcript per username. Transcripts for
// different usernames are independent; turns for the same username are
// serialized.
type Service struct {
	llm      Completer
	model    string
	maxTurns int

	mu          sync.Mutex
	transcripts map[string]*transcript
}

func NewService(completer Completer, model string, maxTurns int) *Service {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Service{
		llm:         completer,
		model:       model,
		maxTurns:    maxTurns,
		transcripts: make(map[string]*transcript),
	}
}

func (s *Service) transcriptFor(username string) *transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transcripts[username]
	if !ok {
		t = &transcript{messages: []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}}}
		s.transcripts[username] = t
	}
	return t
}

// Ask appends the question to the user's transcript, completes against
// the full transcript, and appends the answer. On a provider failure the
// question stays in the transcript, so a retried Ask does not duplicate
// it; the dedup covers the whole trailing run of unanswered questions.
func (s *Service) Ask(ctx context.Context, username, question string) (string, error) {
	t := s.transcriptFor(username)
	t.mu.Lock()
	defer t.mu.Unlock()

	pending := false
	for i := len(t.messages) - 1; i >= 0 && t.messages[i].Role == llm.RoleUser; i-- {
		if t.messages[i].Content == question {
			pending = true
			break
		}
	}
	if !pending {
		t.messages = append(t.messages, llm.Message{Role: llm.RoleUser, Content: question})
	}

	// Trim before calling out so failed turns cannot grow the context
	// sent to the provider.
	t.trim(s.maxTurns)

	answer, err := s.llm.Complete(ctx, t.messages, llm.Options{Model: s.model, Temperature: 0.7})
	if err != nil {
		return "", err
	}

	t.messages = append(t.messages, llm.Message{Role: llm.RoleAssistant, Content: answer})
	t.trim(s.maxTurns)
	return answer, nil
}

// trim keeps the system entry plus the most recent maxTurns messages.
// Callers must hold t.mu.
func (t *transcript) trim(maxTurns int) {
	if len(t.messages)-1 <= maxTurns {
		return
	}
	keep := t.messages[len(t.messages)-maxTurns:]
	trimmed := make([]llm.Message, 0, len(keep)+1)
	trimmed = append(trimmed, t.messages[0])
	trimmed = append(trimmed, keep...)
	t.messages = trimmed
}

// History returns a copy of the user's transcript, oldest first. A user
// who has never asked anything has an empty history.
func (s *Service) History(username string) []llm.Message {
	s.mu.Lock()
	t, ok := s.transcripts[username]
	s.mu.Unlock()
	if !ok {
		return []llm.Message{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]llm.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len reports the current transcript length including the system entry.
func (s *Service) Len(username string) int {
	return len(s.History(username))
}
