package advisor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fizipop/uni-ai-app/internal/llm"
	"github.com/fizipop/uni-ai-app/internal/models"
	"github.com/fizipop/uni-ai-app/internal/storage"
)

var (
	ErrMissingPercentage = errors.New("percentage is required")
	ErrMalformedResponse = errors.New("model returned malformed JSON")
	ErrInvalidStructure  = errors.New("model returned invalid structure")
)

// Mode selects the output contract for recommendations. It is fixed at
// construction, not chosen per request.
type Mode string

const (
	ModeStructured Mode = "structured"
	ModeNarrative  Mode = "narrative"
)

// Completer is the slice of the LLM client the advisor needs.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error)
}

// Request is a recommendation query. Absent fields fall back to the
// stored profile.
type Request struct {
	Percentage       *float64                 `json:"percentage"`
	Interest         string                   `json:"interest"`
	Extracurriculars []models.Extracurricular `json:"ecs"`
}

type University struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Recommendation holds either exactly 4 universities (structured mode)
// or a free-text reply (narrative mode).
type Recommendation struct {
	Universities []University `json:"universities,omitempty"`
	Reply        string       `json:"reply,omitempty"`
}

type Service struct {
	store *storage.Store
	llm   Completer
	mode  Mode
	model string
}

func NewService(store *storage.Store, completer Completer, mode Mode, model string) *Service {
	return &Service{store: store, llm: completer, mode: mode, model: model}
}

// Recommend merges the request with the stored profile, asks the model
// for best-fit Canadian universities, and in structured mode validates
// the reply against the fixed schema. Nothing is retried or cached;
// identical queries issue independent calls.
func (s *Service) Recommend(ctx context.Context, username string, req Request) (*Recommendation, error) {
	user, err := s.store.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}

	percentage := req.Percentage
	if percentage == nil {
		percentage = user.Profile.Percentage
	}
	if percentage == nil {
		return nil, ErrMissingPercentage
	}

	interest := req.Interest
	if interest == "" {
		interest = user.Profile.Interest
	}

	ecs := req.Extracurriculars
	if ecs == nil {
		ecs = user.Profile.Extracurriculars
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: buildPrompt(s.mode, *percentage, interest, ecs)},
	}

	if s.mode == ModeNarrative {
		reply, err := s.llm.Complete(ctx, messages, llm.Options{Model: s.model, Temperature: 0.7})
		if err != nil {
			return nil, err
		}
		return &Recommendation{Reply: reply}, nil
	}

	raw, err := s.llm.Complete(ctx, messages, llm.Options{Model: s.model, Temperature: 0.4, JSONResponse: true})
	if err != nil {
		return nil, err
	}

	var parsed Recommendation
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, ErrMalformedResponse
	}
	if len(parsed.Universities) != 4 {
		return nil, ErrInvalidStructure
	}
	for _, u := range parsed.Universities {
		if u.Name == "" || u.Reason == "" {
			return nil, ErrInvalidStructure
		}
	}
	return &Recommendation{Universities: parsed.Universities}, nil
}
