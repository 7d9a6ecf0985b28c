package picker

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
)

// Option groups assigned by Prioritize
const (
	GroupPopular = "popular"
	GroupOther   = "other"
)

// Option is one selectable entry of a picker
type Option struct {
	Key   string // Value written into the form (e.g., "FR")
	Label string // Display label, may start with an emoji flag
	Icon  string // Optional icon composed in front of the label on the trigger
	Group string // Optional group heading ("popular", "other")
}

// Display returns the icon and label joined for trigger display
func (o Option) Display() string {
	if o.Icon == "" {
		return o.Label
	}
	return o.Icon + " " + o.Label
}

// StripEmojiPrefix removes any leading flags, emoji, punctuation and spaces from a label
// so that "🇫🇷 France" matches a search for "fra".
func StripEmojiPrefix(label string) string {
	return strings.TrimLeftFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// fold case-folds s for case-insensitive comparison
func fold(s string) string {
	// Casers keep state and must not be shared
	return cases.Fold().String(s)
}

// Filter returns the options whose emoji-stripped label contains query,
// ignoring case. An empty query returns every option, priority keys first.
// The input slice is never modified.
func Filter(options []Option, query string, priority []string) []Option {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return Prioritize(options, priority)
	}
	return lo.Filter(options, func(o Option, _ int) bool {
		return strings.Contains(fold(StripEmojiPrefix(o.Label)), q)
	})
}

// Prioritize returns a copy of options with the priority keys first, in
// priority order, followed by all remaining options in source order.
// Priority keys missing from options are skipped.
func Prioritize(options []Option, priority []string) []Option {
	if len(priority) == 0 {
		return append([]Option(nil), options...)
	}

	byKey := lo.KeyBy(options, func(o Option) string { return o.Key })
	inPriority := make(map[string]bool, len(priority))

	result := make([]Option, 0, len(options))
	for _, key := range priority {
		opt, ok := byKey[key]
		if !ok || inPriority[key] {
			continue
		}
		inPriority[key] = true
		if opt.Group == "" {
			opt.Group = GroupPopular
		}
		result = append(result, opt)
	}

	rest := lo.Filter(options, func(o Option, _ int) bool { return !inPriority[o.Key] })
	for _, opt := range rest {
		if opt.Group == "" {
			opt.Group = GroupOther
		}
		result = append(result, opt)
	}
	return result
}

// labelSource adapts options to fuzzy.Source
type labelSource []Option

func (s labelSource) String(i int) string { return StripEmojiPrefix(s[i].Label) }
func (s labelSource) Len() int            { return len(s) }

// Suggest returns up to n options that fuzzily match query, best first.
// It is used to offer "did you mean" entries when the substring filter finds nothing.
func Suggest(options []Option, query string, n int) []Option {
	query = strings.TrimSpace(query)
	if query == "" || n <= 0 {
		return nil
	}
	matches := fuzzy.FindFrom(query, labelSource(options))
	if len(matches) > n {
		matches = matches[:n]
	}
	return lo.Map(matches, func(m fuzzy.Match, _ int) Option { return options[m.Index] })
}
