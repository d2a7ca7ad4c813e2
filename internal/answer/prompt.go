package answer

import (
	"fmt"
	"strings"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/title"
)

// Context bounds: at most this many prior turns, each answer truncated.
const (
	maxPriorTurns    = 3
	maxRecapAnswer   = 400
	answerGuidelines = "Write roughly 2-4 paragraphs."
)

const systemSingleShot = "You are a web search assistant. Answer the user's question using only " +
	"the numbered sources provided. Cite sources inline with bracketed numbers " +
	"matching the source list, like [1] or [2]. Synthesize across sources rather " +
	"than summarizing one; if sources contradict each other, say so explicitly. " +
	answerGuidelines

const systemConversational = "You are a web search assistant in an ongoing conversation. Answer the " +
	"user's new question using only the numbered sources provided, maintaining " +
	"continuity with the earlier exchanges when relevant; you may reference them " +
	"directly. Prioritize the new question. Cite sources inline with bracketed " +
	"numbers matching the source list, like [1] or [2]. Synthesize across sources; " +
	"if sources contradict each other, say so explicitly. " + answerGuidelines

// systemInstruction picks the single-shot or conversational variant.
func systemInstruction(priorTurns []models.Turn) string {
	if len(priorTurns) > 0 {
		return systemConversational
	}
	return systemSingleShot
}

// buildPrompt assembles the grounded generation prompt: an optional numbered
// recap of prior turns, the numbered source list, and the new question.
func buildPrompt(query string, priorTurns []models.Turn, sources []models.Source) string {
	var b strings.Builder

	if len(priorTurns) > maxPriorTurns {
		priorTurns = priorTurns[len(priorTurns)-maxPriorTurns:]
	}
	if len(priorTurns) > 0 {
		b.WriteString("Earlier conversation:\n")
		for i, t := range priorTurns {
			fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, t.Query, title.Truncate(t.Answer, maxRecapAnswer))
		}
		b.WriteString("Maintain continuity with the exchanges above, but prioritize the new question.\n\n")
	}

	b.WriteString("Sources:\n")
	for i, s := range sources {
		fmt.Fprintf(&b, "[%d] %s\n%s\n\n", i+1, s.Title, s.Content)
	}

	b.WriteString("Question: ")
	b.WriteString(query)
	return b.String()
}
