// Package title derives short human-readable chat labels from the first
// query/answer pair of a conversation.
//
// Two strategies are available: a local heuristic that is always available
// and never fails, and a delegated strategy that asks the language model for
// a higher-quality title and falls back to the truncated query.
package title

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// maxLen is the display budget for a chat title.
const maxLen = 50

type intentRule struct {
	substr   string
	template string
}

// Ordered: first matching substring of the lowercased query wins.
var intentRules = []intentRule{
	{"what is", "What is %s?"},
	{"what are", "What is %s?"},
	{"how to", "How to %s"},
	{"how do", "How to %s"},
	{"why", "Why %s?"},
	{"compare", "%s comparison"},
	{" vs ", "%s comparison"},
	{"best", "Best %s options"},
	{"top", "Best %s options"},
}

var (
	properNounRe = regexp.MustCompile(`[A-Z][a-zA-Z]+(?: [A-Z][a-zA-Z]+)+`)
	quotedRe     = regexp.MustCompile(`"([^"]{2,})"`)
)

var stopWords = map[string]struct{}{
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "why": {},
	"how": {}, "the": {}, "and": {}, "but": {}, "for": {}, "with": {},
	"about": {}, "are": {}, "was": {}, "were": {}, "does": {}, "did": {},
	"can": {}, "could": {}, "should": {}, "would": {}, "you": {}, "your": {},
	"tell": {}, "please": {},
	// Template words: keeping them in the topic would duplicate the intent
	// wrapper ("Best best ... options").
	"best": {}, "top": {}, "compare": {}, "compared": {}, "versus": {},
}

// Heuristic derives a title from a query and its answer. It never fails: any
// empty or degenerate intermediate result falls back to the truncated query.
func Heuristic(query, answer string) string {
	topic := firstNonEmpty(
		properNoun(answer),
		queryKeywords(query),
		quotedSpan(answer),
		cleanedQuery(query),
	)
	if topic == "" {
		return Fallback(query)
	}

	out := applyIntent(query, capitalize(topic))
	out = Truncate(out, maxLen)
	if len(out) < 3 {
		return Fallback(query)
	}
	return out
}

// applyIntent wraps topic in the template matching the query's intent.
func applyIntent(query, topic string) string {
	lq := strings.ToLower(query)
	for _, rule := range intentRules {
		if strings.Contains(lq, rule.substr) {
			return fmt.Sprintf(rule.template, topic)
		}
	}
	return topic
}

// properNoun returns the first capitalized multi-word span in the answer.
func properNoun(answer string) string {
	return properNounRe.FindString(answer)
}

// queryKeywords keeps significant query words: stop words and words of two
// characters or fewer are removed, the first four survivors are joined.
func queryKeywords(query string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, query)

	var kept []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopWords[strings.ToLower(w)]; stop {
			continue
		}
		kept = append(kept, w)
		if len(kept) == 4 {
			break
		}
	}
	return strings.Join(kept, " ")
}

// quotedSpan returns the first double-quoted span in the answer.
func quotedSpan(answer string) string {
	m := quotedRe.FindStringSubmatch(answer)
	if m == nil {
		return ""
	}
	return m[1]
}

var leadingInterrogatives = []string{
	"what is the", "what are the", "what is", "what are",
	"how do i", "how do you", "how to", "how does",
	"why is", "why do", "why does", "why are",
	"who is", "where is", "when did",
	"tell me about", "can you",
}

// cleanedQuery strips leading interrogative phrases and trailing punctuation.
func cleanedQuery(query string) string {
	q := strings.TrimSpace(query)
	lq := strings.ToLower(q)
	for _, prefix := range leadingInterrogatives {
		if strings.HasPrefix(lq, prefix+" ") {
			q = strings.TrimSpace(q[len(prefix):])
			break
		}
	}
	return strings.TrimRight(q, "?!. ")
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Truncate shortens s to at most n characters, replacing the tail with an
// ellipsis when it does not fit.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
