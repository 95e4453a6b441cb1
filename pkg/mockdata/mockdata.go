// Package mockdata synthesises placeholder records for scaffolded
// components. Records are shaped after a property list and feed the list
// views, stories and select options the templates render.
package mockdata

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-typescaf/pkg/schema"
)

// Record is one synthetic row. Value maps property names to generated
// values; Label is the display text and Key a batch-unique identifier.
type Record struct {
	Value map[string]any `json:"value"`
	Label any            `json:"label"`
	Key   string         `json:"key"`
}

// Synthesizer generates records. The zero value is not usable; call New.
type Synthesizer struct {
	rand  *rand.Rand
	now   func() time.Time
	token func() string
}

// Option customises a Synthesizer.
type Option func(*Synthesizer)

// WithRand sets the random source used for numbers and option picks.
func WithRand(r *rand.Rand) Option {
	return func(s *Synthesizer) {
		if r != nil {
			s.rand = r
		}
	}
}

// WithSeed seeds a deterministic random source.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithClock sets the clock used for date values.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTokenFunc sets the generator for the short key suffix.
func WithTokenFunc(token func() string) Option {
	return func(s *Synthesizer) {
		if token != nil {
			s.token = token
		}
	}
}

// New returns a Synthesizer.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		rand:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:   time.Now,
		token: shortToken,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Now returns the synthesizer's clock reading.
func (s *Synthesizer) Now() time.Time {
	return s.now()
}

// Pick returns a random element of records, or false when empty.
func (s *Synthesizer) Pick(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	return records[s.rand.IntN(len(records))], true
}

// Records generates count records for props. labelContext prefixes string
// values; options supplies already generated records for select properties.
func (s *Synthesizer) Records(count int, props []schema.Property, labelContext string, options map[string][]Record) []Record {
	if count <= 0 {
		return []Record{}
	}
	labelProp, hasLabel := schema.OptionsLabelProperty(props)

	out := make([]Record, 0, count)
	for i := range count {
		value := s.values(i, props, labelContext, options)

		rec := Record{Value: value}
		keyBase := fmt.Sprintf("Unknown-%d", i)
		if hasLabel {
			rec.Label = value[labelProp.Name]
			keyBase = fmt.Sprint(rec.Label)
		} else {
			rec.Label = fmt.Sprintf("Unknown Label %d", i)
		}
		rec.Key = fmt.Sprintf("%s-%d-%s", keyBase, i, s.token())
		out = append(out, rec)
	}
	return out
}

func (s *Synthesizer) values(i int, props []schema.Property, labelContext string, options map[string][]Record) map[string]any {
	value := make(map[string]any, len(props))
	for _, prop := range props {
		if prop.Control.IsChoice() {
			if picked, ok := s.Pick(options[prop.Name]); ok {
				if prop.Control == schema.ControlMultiSelect {
					value[prop.Name] = []any{picked.Value}
				} else {
					value[prop.Name] = picked.Value
				}
				continue
			}
		}
		value[prop.Name] = s.scalar(i, prop, labelContext)
	}
	return value
}

func (s *Synthesizer) scalar(i int, prop schema.Property, labelContext string) any {
	switch prop.Validation {
	case schema.ValidationString, schema.ValidationMixed:
		return fmt.Sprintf("%s %d", textPrefix(prop, labelContext), i)
	case schema.ValidationNumber:
		if prop.PrimaryKey {
			return i + 1
		}
		return s.rand.IntN(100) + i
	case schema.ValidationDate:
		return s.now()
	case schema.ValidationArray:
		return []any{}
	case schema.ValidationBoolean:
		return i%2 == 0
	default:
		return nil
	}
}

func textPrefix(prop schema.Property, labelContext string) string {
	name := prop.Label
	if name == "" {
		name = prop.Name
	}
	if labelContext == "" {
		return name
	}
	return labelContext + " " + name
}

func shortToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
}
