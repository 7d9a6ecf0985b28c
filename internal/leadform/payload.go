package leadform

import (
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"
)

// Payload is the flat key/value form of a lead sent to the webhook
type Payload map[string]string

// Payload meta keys
const (
	KeySubmissionID = "submissionId"
	KeyLanguage     = "language"
	KeySubmittedAt  = "submittedAt"
	KeySource       = "source"
	KeyLoadCount    = "loadCount"
)

// Meta is the session information added to a payload
type Meta struct {
	SubmissionID string
	Language     string
	SubmittedAt  time.Time
	Source       string
}

// BuildPayload flattens d. Only relevant, non-empty fields are included, so
// the branch a cargo line did not choose is never sent. Amounts are
// normalised to dot-decimal form.
func BuildPayload(d FormData, meta Meta) Payload {
	p := Payload{}

	for _, field := range d.AllFields() {
		if !Relevant(field, &d) {
			continue
		}
		value := d.Value(field)
		if value == "" {
			continue
		}
		base := field
		if _, name, ok := ParseLoadField(field); ok {
			base = name
		}
		switch base {
		case FieldGoodsValue, FieldLength, FieldWidth, FieldHeight,
			FieldWeightPerUnit, FieldTotalVolume, FieldTotalWeight:
			if amount, ok := ParseAmount(value); ok {
				value = amount.String()
			}
		}
		p[string(field)] = value
	}

	p[KeyLoadCount] = strconv.Itoa(len(d.Loads))

	metaFields := lo.OmitByValues(map[string]string{
		KeySubmissionID: meta.SubmissionID,
		KeyLanguage:     meta.Language,
		KeySubmittedAt:  formatTime(meta.SubmittedAt),
		KeySource:       meta.Source,
	}, []string{""})

	return Payload(lo.Assign(map[string]string(p), metaFields))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Keys returns the payload keys sorted
func (p Payload) Keys() []string {
	keys := lo.Keys(map[string]string(p))
	sort.Strings(keys)
	return keys
}
