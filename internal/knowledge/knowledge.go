package knowledge

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/alexanderramin/arecabot/internal/extract"
	"gopkg.in/yaml.v3"
)

// Intent names. The order of Base.Intents follows the knowledge file, which
// lists them in this order as well.
const (
	IntentGreeting          = "greeting"
	IntentThanks            = "thanks"
	IntentDisease           = "disease"
	IntentPesticide         = "pesticide"
	IntentFertilizer        = "fertilizer"
	IntentHarvest           = "harvest"
	IntentWeather           = "weather"
	IntentGeneral           = "general"
	IntentArecanutInfo      = "arecanut_info"
	IntentClimateSoil       = "climate_soil"
	IntentPropagation       = "propagation"
	IntentPlanting          = "planting"
	IntentIrrigation        = "irrigation"
	IntentManuring          = "manuring"
	IntentIntercropping     = "intercropping"
	IntentGovernmentSchemes = "government_schemes"
)

// ErrInvalidKnowledge is returned when a knowledge file fails validation.
var ErrInvalidKnowledge = errors.New("invalid knowledge base")

//go:embed knowledge.yaml
var embedded []byte

// Intent is a recognised topic with its trigger keywords and canned replies.
type Intent struct {
	Name           string         `yaml:"name"`
	Keywords       []string       `yaml:"keywords"`
	Responses      []string       `yaml:"responses"`
	RequiredParams []extract.Name `yaml:"required_params"`
}

// SlotFilling reports whether the intent collects parameters before answering.
func (i Intent) SlotFilling() bool {
	return len(i.RequiredParams) > 0
}

// Protocol is the treatment protocol attached to a disease.
type Protocol struct {
	Urgency           string   `yaml:"urgency"`
	Fungicides        []string `yaml:"fungicides"`
	CulturalPractices []string `yaml:"cultural_practices"`
	Preventive        []string `yaml:"preventive"`
	Dosage            string   `yaml:"dosage"`
	Timing            string   `yaml:"timing"`
	Nutrition         string   `yaml:"nutrition"`
	PostHarvest       string   `yaml:"post_harvest"`
}

// Disease is a named disease record.
type Disease struct {
	Key         string   `yaml:"key"`
	Description string   `yaml:"description"`
	Protocol    Protocol `yaml:"protocol"`
}

// DisplayName returns the key with underscores replaced by spaces.
func (d Disease) DisplayName() string {
	return strings.ReplaceAll(d.Key, "_", " ")
}

// Scheme is a government support scheme. Every field except Key and Name is
// optional; an empty string means the field is absent.
type Scheme struct {
	Key           string `yaml:"key"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	ImplementedBy string `yaml:"implemented_by"`
	Objective     string `yaml:"objective"`
	Coverage      string `yaml:"coverage"`
	Support       string `yaml:"support"`
	Focus         string `yaml:"focus"`
	Region        string `yaml:"region"`
	Benefit       string `yaml:"benefit"`
	Kannada       string `yaml:"kannada"`
}

// SchemeField is one present optional field of a scheme, in display order.
type SchemeField struct {
	Label string
	Value string
}

// Fields returns the scheme's present optional fields in their fixed display
// order. The Kannada text is not included.
func (s Scheme) Fields() []SchemeField {
	all := []SchemeField{
		{"Type", s.Type},
		{"Implemented by", s.ImplementedBy},
		{"Objective", s.Objective},
		{"Coverage", s.Coverage},
		{"Support/Benefit", s.Support},
		{"Focus", s.Focus},
		{"Region", s.Region},
		{"Benefit", s.Benefit},
	}
	present := make([]SchemeField, 0, len(all))
	for _, f := range all {
		if f.Value != "" {
			present = append(present, f)
		}
	}
	return present
}

type document struct {
	Intents          []Intent  `yaml:"intents"`
	Diseases         []Disease `yaml:"diseases"`
	FallbackProtocol Protocol  `yaml:"fallback_protocol"`
	Schemes          []Scheme  `yaml:"schemes"`
	SchemeAliases    []string  `yaml:"scheme_aliases"`
	ListPhrases      []string  `yaml:"list_phrases"`
}

// Base is the immutable, read-only knowledge base.
type Base struct {
	doc       document
	intentIdx map[string]int
	diseaseIx map[string]int
	schemeIdx map[string]int
}

var (
	defaultOnce sync.Once
	defaultBase *Base
	defaultErr  error
)

// Default returns the knowledge base compiled into the binary. It is decoded
// once and shared; callers must not mutate the returned slices.
func Default() (*Base, error) {
	defaultOnce.Do(func() {
		defaultBase, defaultErr = Load(bytes.NewReader(embedded))
	})
	return defaultBase, defaultErr
}

// MustDefault is Default for program initialisation and tests.
func MustDefault() *Base {
	kb, err := Default()
	if err != nil {
		panic(err)
	}
	return kb
}

// Load decodes and validates a knowledge file.
func Load(r io.Reader) (*Base, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding knowledge file: %w", err)
	}

	kb := &Base{
		doc:       doc,
		intentIdx: make(map[string]int, len(doc.Intents)),
		diseaseIx: make(map[string]int, len(doc.Diseases)),
		schemeIdx: make(map[string]int, len(doc.Schemes)),
	}
	if err := kb.index(); err != nil {
		return nil, err
	}
	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return kb, nil
}

func (kb *Base) index() error {
	for i, in := range kb.doc.Intents {
		if _, dup := kb.intentIdx[in.Name]; dup {
			return fmt.Errorf("%w: duplicate intent %q", ErrInvalidKnowledge, in.Name)
		}
		kb.intentIdx[in.Name] = i
	}
	for i, d := range kb.doc.Diseases {
		if _, dup := kb.diseaseIx[d.Key]; dup {
			return fmt.Errorf("%w: duplicate disease %q", ErrInvalidKnowledge, d.Key)
		}
		kb.diseaseIx[d.Key] = i
	}
	for i, s := range kb.doc.Schemes {
		if _, dup := kb.schemeIdx[s.Key]; dup {
			return fmt.Errorf("%w: duplicate scheme %q", ErrInvalidKnowledge, s.Key)
		}
		kb.schemeIdx[s.Key] = i
	}
	return nil
}

// Validate checks structural rules the dialogue engine relies on.
func (kb *Base) Validate() error {
	for _, name := range []string{IntentGreeting, IntentThanks, IntentDisease, IntentGovernmentSchemes} {
		if _, ok := kb.intentIdx[name]; !ok {
			return fmt.Errorf("%w: missing intent %q", ErrInvalidKnowledge, name)
		}
	}
	for _, in := range kb.doc.Intents {
		if in.Name == "" {
			return fmt.Errorf("%w: intent without a name", ErrInvalidKnowledge)
		}
		if len(in.Keywords) == 0 {
			return fmt.Errorf("%w: intent %q has no keywords", ErrInvalidKnowledge, in.Name)
		}
		if len(in.Responses) == 0 {
			return fmt.Errorf("%w: intent %q has no responses", ErrInvalidKnowledge, in.Name)
		}
		for _, p := range in.RequiredParams {
			if !extract.Known(p) {
				return fmt.Errorf("%w: intent %q requires unknown parameter %q", ErrInvalidKnowledge, in.Name, p)
			}
		}
	}
	for _, s := range kb.doc.Schemes {
		if s.Name == "" {
			return fmt.Errorf("%w: scheme %q has no name", ErrInvalidKnowledge, s.Key)
		}
	}
	return nil
}

// Intents returns every intent in knowledge-file order.
func (kb *Base) Intents() []Intent {
	return kb.doc.Intents
}

// Intent looks up an intent by name.
func (kb *Base) Intent(name string) (Intent, bool) {
	i, ok := kb.intentIdx[name]
	if !ok {
		return Intent{}, false
	}
	return kb.doc.Intents[i], true
}

// Diseases returns every disease record in knowledge-file order.
func (kb *Base) Diseases() []Disease {
	return kb.doc.Diseases
}

// Disease looks up a disease by canonical key.
func (kb *Base) Disease(key string) (Disease, bool) {
	i, ok := kb.diseaseIx[key]
	if !ok {
		return Disease{}, false
	}
	return kb.doc.Diseases[i], true
}

// FallbackProtocol is the generic record returned for unknown diseases.
func (kb *Base) FallbackProtocol() Protocol {
	return kb.doc.FallbackProtocol
}

// Schemes returns every scheme in knowledge-file order.
func (kb *Base) Schemes() []Scheme {
	return kb.doc.Schemes
}

// Scheme looks up a scheme by key.
func (kb *Base) Scheme(key string) (Scheme, bool) {
	i, ok := kb.schemeIdx[key]
	if !ok {
		return Scheme{}, false
	}
	return kb.doc.Schemes[i], true
}

// SchemeAliases are abbreviations accepted for a scheme when the scheme key
// contains them.
func (kb *Base) SchemeAliases() []string {
	return kb.doc.SchemeAliases
}

// ListPhrases are the queries that ask for the full scheme listing.
func (kb *Base) ListPhrases() []string {
	return kb.doc.ListPhrases
}
