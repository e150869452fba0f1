// Package qa answers questions about a project from already-computed
// artifacts. Classification and artifact selection are fully deterministic;
// only the final phrasing goes through the language-model layer, and the
// model never sees source code, only the selected artifacts.
package qa

import (
	"regexp"
	"strings"
)

// QuestionType is the closed set of question categories the pipeline can
// route. Anything that matches no pattern is QuestionUnsupported.
type QuestionType string

const (
	QuestionWhyRequired QuestionType = "why_required"
	QuestionWhatRuns    QuestionType = "what_runs"
	QuestionWhatBreaks  QuestionType = "what_breaks"
	QuestionWhereUsed   QuestionType = "where_used"
	QuestionUnsupported QuestionType = "unsupported"
)

// patternGroup ties one question type to the expressions that recognize
// it. Group order is the match order: the first matching pattern wins, so
// "what uses X" routes to what_breaks, never where_used.
type patternGroup struct {
	qt       QuestionType
	patterns []*regexp.Regexp
}

var patternGroups = []patternGroup{
	{QuestionWhyRequired, compileAll(
		`why\s+is\s+(\w+)\s+required`,
		`why\s+do\s+(?:i|we)\s+need\s+(\w+)`,
		`what\s+is\s+(\w+)\s+used\s+for`,
		`what\s+does\s+(\w+)\s+do`,
		`why\s+(\w+)`,
	)},
	{QuestionWhatRuns, compileAll(
		`what\s+runs\s+when\s+(?:i|we)\s+start`,
		`what\s+happens\s+when\s+(?:i|we)\s+(?:run|start)`,
		`what\s+is\s+the\s+entry\s+point`,
		`how\s+do\s+(?:i|we)\s+(?:run|start)\s+(?:the|this)\s+project`,
		`what\s+command\s+(?:do|should)\s+(?:i|we)\s+run`,
	)},
	{QuestionWhatBreaks, compileAll(
		`what\s+breaks\s+if\s+(?:i|we)\s+remove\s+(\w+)`,
		`what\s+depends\s+on\s+(\w+)`,
		`what\s+uses\s+(\w+)`,
		`can\s+(?:i|we)\s+remove\s+(\w+)`,
		`is\s+(\w+)\s+(?:safe|okay)\s+to\s+remove`,
	)},
	{QuestionWhereUsed, compileAll(
		`where\s+is\s+(\w+)\s+used`,
		`where\s+(?:do|does)\s+(?:we|i)\s+use\s+(\w+)`,
		`which\s+files\s+use\s+(\w+)`,
		`which\s+modules\s+import\s+(\w+)`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Classify maps a free-text question to its type and, where the pattern
// captures one, the package or module the question is about. Matching is
// case-insensitive and ignores trailing question marks.
func Classify(question string) (QuestionType, string) {
	q := strings.ToLower(strings.TrimSpace(question))
	q = strings.TrimRight(q, "?")

	for _, group := range patternGroups {
		for _, pattern := range group.patterns {
			m := pattern.FindStringSubmatch(q)
			if m == nil {
				continue
			}
			entity := ""
			if len(m) > 1 {
				entity = m[1]
			}
			return group.qt, entity
		}
	}
	return QuestionUnsupported, ""
}
