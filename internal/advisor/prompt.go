package advisor

import (
	"fmt"
	"strings"

	"github.com/fizipop/uni-ai-app/internal/models"
)

const systemPrompt = "You are a Canadian university admissions expert."

const structuredPromptFormat = `
Return ONLY valid JSON.
Choose exactly 4 BEST-FIT Canadian universities.

Student profile:
- Percentage: %.5g%%
- Interest: %s
- Extracurriculars: %s

Respond in this exact format:

{
  "universities": [
    {
      "name": "University Name",
      "reason": "Short explanation (1-2 sentences)"
    }
  ]
}

No extra text.
`

const narrativePromptFormat = `
Recommend the 4 BEST-FIT Canadian universities for this student and
explain your picks in a short, friendly paragraph.

Student profile:
- Percentage: %.5g%%
- Interest: %s
- Extracurriculars: %s
`

// buildPrompt renders the user prompt for a merged query. The output is
// deterministic for a given query.
func buildPrompt(mode Mode, percentage float64, interest string, ecs []models.Extracurricular) string {
	if interest == "" {
		interest = "Not specified"
	}

	ecsString := "none"
	if len(ecs) > 0 {
		parts := make([]string, len(ecs))
		for i, ec := range ecs {
			parts[i] = fmt.Sprintf("%s (%d hrs)", ec.Name, ec.Hours)
		}
		ecsString = strings.Join(parts, ", ")
	}

	format := structuredPromptFormat
	if mode == ModeNarrative {
		format = narrativePromptFormat
	}
	return fmt.Sprintf(format, percentage, interest, ecsString)
}
