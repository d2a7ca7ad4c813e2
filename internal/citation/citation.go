// Package citation resolves inline numeric markers in generated answers
// against the retrieved source list.
package citation

import (
	"regexp"
	"strconv"

	"github.com/starford/ansuz/internal/models"
)

var markerRe = regexp.MustCompile(`\[(\d+)\]`)

// Extract scans answer for [n] markers and resolves each distinct n, in order
// of first appearance, against sources. Markers outside 1..len(sources) are
// dropped silently; the model hallucinating a reference is not an error.
func Extract(answer string, sources []models.Source) []models.Citation {
	matches := markerRe.FindAllStringSubmatch(answer, -1)

	seen := make(map[int]struct{})
	citations := []models.Citation{}
	for _, m := range matches {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Digits only by construction, but a huge marker can overflow.
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		if n < 1 || n > len(sources) {
			continue
		}
		src := sources[n-1]
		citations = append(citations, models.Citation{
			Index: n,
			URL:   src.URL,
			Title: src.Title,
		})
	}
	return citations
}
