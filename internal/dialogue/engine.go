// Package dialogue tracks multi-turn conversations: it classifies each
// utterance against the knowledge base, collects required readings across
// turns and hands complete requests to the advisor.
package dialogue

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/extract"
	"github.com/alexanderramin/arecabot/internal/fuzzy"
	"github.com/alexanderramin/arecabot/internal/knowledge"
	"github.com/alexanderramin/arecabot/internal/logger"
	"github.com/alexanderramin/arecabot/internal/render"
)

// Fixed replies.
const (
	MsgEmpty     = "Please type your query. I'm ready to assist you with arecanut farming!"
	MsgUnclear   = "I'm sorry, I couldn't understand that. Could you please type a more complete query?"
	MsgNoMatch   = "I'm sorry, I don't understand your query. Please ask me about arecanut farming, diseases, fertilizers, pesticides, harvest, or government schemes."
	MsgNoResults = "I'm sorry, I have information on that, but no response is available. Please contact support."
)

// Outcome classifies how a turn ended.
type Outcome string

const (
	// OutcomePrompted means the input was empty; state is unchanged.
	OutcomePrompted Outcome = "prompted"
	// OutcomeNoMatch means nothing matched; the session is idle again.
	OutcomeNoMatch Outcome = "no_match"
	// OutcomeIncompleteParameters means a topic is active and still
	// waiting for readings.
	OutcomeIncompleteParameters Outcome = "incomplete_parameters"
	// OutcomeResolved means a full answer was produced; the session is idle.
	OutcomeResolved Outcome = "resolved"
)

// Reply is the result of one turn.
type Reply struct {
	Text    string
	Outcome Outcome
	Intent  string         // intent that produced the reply, if any
	Entity  string         // disease or scheme key for entity answers
	Missing []extract.Name // readings still required
}

// Thresholds are the fuzzy score cut-offs (0-100) used by the classifier.
type Thresholds struct {
	// Generic is the minimum keyword score for any intent.
	Generic int `mapstructure:"generic"`
	// Specific is the minimum score for disease, scheme and list matches.
	Specific int `mapstructure:"specific"`
	// Direct is the whole-utterance score for greetings and thanks.
	Direct int `mapstructure:"direct"`
}

// DefaultThresholds returns 70/85/90.
func DefaultThresholds() Thresholds {
	return Thresholds{Generic: 70, Specific: 85, Direct: 90}
}

// Engine answers turns. It holds no per-conversation state and may be shared
// across sessions.
type Engine struct {
	kb         *knowledge.Base
	thresholds Thresholds
	log        logger.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand

	keywords map[string][]string // intent name -> lower-cased keywords
	diseases []entity
	schemes  []entity
	listing  []string
}

// entity is a disease or scheme with the name variants that select it.
type entity struct {
	key      string
	variants []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the source used to pick reply templates.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithSeed makes template choice deterministic.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.thresholds = t }
}

func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine prepares the match tables for kb.
func NewEngine(kb *knowledge.Base, opts ...Option) *Engine {
	e := &Engine{
		kb:         kb,
		thresholds: DefaultThresholds(),
		log:        logger.NewNop(),
		keywords:   make(map[string][]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for _, in := range kb.Intents() {
		e.keywords[in.Name] = lowerAll(in.Keywords)
	}
	for _, d := range kb.Diseases() {
		e.diseases = append(e.diseases, entity{key: d.Key, variants: []string{
			strings.ReplaceAll(d.Key, "_", " "),
			strings.ReplaceAll(d.Key, "_", ""),
			firstSegment(d.Key),
		}})
	}
	for _, s := range kb.Schemes() {
		variants := []string{
			strings.ToLower(strings.ReplaceAll(s.Key, "_", " ")),
			strings.ToLower(s.Name),
			firstSegment(s.Key),
		}
		for _, alias := range kb.SchemeAliases() {
			if strings.Contains(s.Key, alias) {
				variants = append(variants, alias)
			}
		}
		e.schemes = append(e.schemes, entity{key: s.Key, variants: variants})
	}
	e.listing = lowerAll(kb.ListPhrases())
	return e
}

// Knowledge returns the knowledge base the engine answers from.
func (e *Engine) Knowledge() *knowledge.Base {
	return e.kb
}

// HandleTurn processes one utterance for s and returns the text to show.
func (e *Engine) HandleTurn(s *Session, utterance string) string {
	return e.Respond(s, utterance).Text
}

var letterRun = regexp.MustCompile(`[a-zA-Z]{2,}`)

// Respond processes one utterance for s, mutating s in place.
func (e *Engine) Respond(s *Session, utterance string) Reply {
	u := strings.ToLower(strings.TrimSpace(utterance))

	if u == "" {
		return Reply{Text: MsgEmpty, Outcome: OutcomePrompted, Intent: s.Intent, Missing: s.Missing()}
	}
	if utf8.RuneCountInString(u) < 3 && !letterRun.MatchString(u) {
		s.Reset()
		return Reply{Text: MsgUnclear, Outcome: OutcomeNoMatch}
	}
	if r, ok := e.direct(s, u); ok {
		return r
	}
	if !s.Idle() {
		return e.continueTopic(s, u)
	}
	return e.classify(s, u)
}

// direct answers greetings and thanks regardless of any active topic.
func (e *Engine) direct(s *Session, u string) (Reply, bool) {
	for _, name := range []string{knowledge.IntentGreeting, knowledge.IntentThanks} {
		if fuzzy.BestOf(u, e.keywords[name], fuzzy.Score) >= e.thresholds.Direct {
			s.Reset()
			e.log.Debug("direct match", logger.Fields{"intent": name})
			return Reply{Text: e.template(name), Outcome: OutcomeResolved, Intent: name}, true
		}
	}
	return Reply{}, false
}

func (e *Engine) continueTopic(s *Session, u string) Reply {
	s.Collected.Merge(extract.Extract(u))
	if s.Intent == knowledge.IntentFertilizer {
		s.Collected.Merge(extract.ExtractEnums(u))
	}

	missing := s.Missing()
	e.log.Debug("collected readings", logger.Fields{
		"intent":  s.Intent,
		"params":  s.Collected,
		"missing": missing,
	})
	if len(missing) == 0 {
		return e.resolve(s)
	}
	return Reply{
		Text:    "Okay, I've got that. " + extract.MissingPrompt(missing) + " Can you provide it?",
		Outcome: OutcomeIncompleteParameters,
		Intent:  s.Intent,
		Missing: missing,
	}
}

// classify starts a new topic. Disease names, scheme listings and scheme
// names are resolved when the scan reaches their intent and answer at once;
// otherwise the intent with the strictly highest keyword score wins, with
// ties going to the earlier intent.
func (e *Engine) classify(s *Session, u string) Reply {
	best, bestScore := "", 0

	for _, in := range e.kb.Intents() {
		if in.Name == knowledge.IntentGreeting || in.Name == knowledge.IntentThanks {
			continue
		}

		switch in.Name {
		case knowledge.IntentDisease:
			if key, ok := e.match(u, e.diseases); ok {
				s.Reset()
				d, _ := e.kb.Disease(key)
				e.log.Debug("disease match", logger.Fields{"disease": key})
				return Reply{
					Text:    render.Disease(d, advisor.DiseaseProtocol(e.kb, key)),
					Outcome: OutcomeResolved,
					Intent:  in.Name,
					Entity:  key,
				}
			}
		case knowledge.IntentGovernmentSchemes:
			if fuzzy.BestOf(u, e.listing, fuzzy.PartialScore) >= e.thresholds.Specific {
				s.Reset()
				e.log.Debug("scheme listing", nil)
				return Reply{Text: render.SchemeList(e.kb.Schemes()), Outcome: OutcomeResolved, Intent: in.Name}
			}
			if key, ok := e.match(u, e.schemes); ok {
				s.Reset()
				sc, _ := e.kb.Scheme(key)
				e.log.Debug("scheme match", logger.Fields{"scheme": key})
				return Reply{Text: render.Scheme(sc), Outcome: OutcomeResolved, Intent: in.Name, Entity: key}
			}
		}

		if score := fuzzy.BestOf(u, e.keywords[in.Name], fuzzy.PartialScore); score > bestScore {
			best, bestScore = in.Name, score
		}
	}

	e.log.Debug("classified", logger.Fields{"intent": best, "score": bestScore})
	if bestScore < e.thresholds.Generic {
		s.Reset()
		return Reply{Text: MsgNoMatch, Outcome: OutcomeNoMatch}
	}

	in, _ := e.kb.Intent(best)
	s.Intent = best
	s.Collected = extract.Extract(u)
	s.Required = append([]extract.Name(nil), in.RequiredParams...)

	missing := s.Missing()
	if len(missing) == 0 {
		return e.resolve(s)
	}
	return Reply{
		Text:    e.template(best) + " " + extract.MissingPrompt(missing),
		Outcome: OutcomeIncompleteParameters,
		Intent:  best,
		Missing: missing,
	}
}

// match returns the first entity with a variant scoring at or above the
// specific threshold.
func (e *Engine) match(u string, entities []entity) (string, bool) {
	for _, ent := range entities {
		if fuzzy.BestOf(u, ent.variants, fuzzy.PartialScore) >= e.thresholds.Specific {
			return ent.key, true
		}
	}
	return "", false
}

// resolve answers the active topic from what was collected and goes idle.
func (e *Engine) resolve(s *Session) Reply {
	intent, params := s.Intent, s.Collected
	var text string
	switch intent {
	case knowledge.IntentPesticide:
		text = render.Pesticide(advisor.Pesticide(advisor.PesticideInputFrom(params)))
	case knowledge.IntentFertilizer:
		text = render.Fertilizer(advisor.Fertilizer(advisor.FertilizerInputFrom(params)))
	case knowledge.IntentHarvest:
		text = render.Harvest(advisor.Harvest(advisor.HarvestInputFrom(params)))
	default:
		text = e.template(intent)
	}
	s.Reset()
	return Reply{Text: text, Outcome: OutcomeResolved, Intent: intent}
}

// template picks one of the intent's canned responses.
func (e *Engine) template(name string) string {
	in, ok := e.kb.Intent(name)
	if !ok || len(in.Responses) == 0 {
		e.log.Warn("intent has no responses", logger.Fields{"intent": name})
		return MsgNoResults
	}
	e.mu.Lock()
	i := e.rng.Intn(len(in.Responses))
	e.mu.Unlock()
	return in.Responses[i]
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func firstSegment(key string) string {
	head, _, _ := strings.Cut(key, "_")
	return head
}
