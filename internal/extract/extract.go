// Package extract pulls named numeric and enumerated farm readings out of
// free text using a table of label patterns.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Name identifies an extractable parameter.
type Name string

const (
	Temperature   Name = "temperature"
	Humidity      Name = "humidity"
	Rainfall      Name = "rainfall"
	WindSpeed     Name = "windSpeed"
	PH            Name = "pH"
	OrganicMatter Name = "organicMatter"
	FruitMaturity Name = "fruitMaturity"
	TreeAge       Name = "treeAge"
	GrowthStage   Name = "growthStage"
	Season        Name = "season"
)

// Growth stages and seasons recognised in text.
const (
	StageSeedling  = "seedling"
	StageJuvenile  = "juvenile"
	StageFlowering = "flowering"
	StageFruiting  = "fruiting"
	StageMature    = "mature"

	SeasonPreMonsoon  = "pre_monsoon"
	SeasonPostMonsoon = "post_monsoon"
	SeasonWinter      = "winter"
	SeasonSummer      = "summer"
)

type parseFunc func(string) (Value, bool)

// numericRule finds the first label-prefixed number for one parameter.
type numericRule struct {
	name     Name
	friendly string
	pattern  *regexp.Regexp
	parse    parseFunc
}

type enumOption struct {
	needles []string
	value   string
}

// enumRule picks the first option whose needle occurs literally in the text.
type enumRule struct {
	name     Name
	friendly string
	options  []enumOption
}

var numericRules = []numericRule{
	{Temperature, "temperature", regexp.MustCompile(`(?i)(?:temp|temperature)\D*(\d+)`), parseInt},
	{Humidity, "humidity", regexp.MustCompile(`(?i)(?:humid|humidity)\D*(\d+)`), parseInt},
	{Rainfall, "rainfall", regexp.MustCompile(`(?i)(?:rain|rainfall)\D*(\d+)`), parseInt},
	{WindSpeed, "wind speed", regexp.MustCompile(`(?i)(?:wind|wind\s*speed)\D*(\d+)`), parseInt},
	{PH, "soil pH", regexp.MustCompile(`(?i)(?:ph|p\s*h)\D*(\d+\.?\d*)`), parseReal},
	{OrganicMatter, "organic matter percentage", regexp.MustCompile(`(?i)(?:organic\s*matter|om)\D*(\d+\.?\d*)`), parseReal},
	{FruitMaturity, "fruit maturity percentage", regexp.MustCompile(`(?i)(?:fruit\s*maturity|maturity)\D*(\d+)%?`), parseInt},
	{TreeAge, "tree age in years", regexp.MustCompile(`(?i)(?:tree\s*age|age)\D*(\d+)\s*(?:years?)?`), parseInt},
}

var enumRules = []enumRule{
	{GrowthStage, "growth stage", []enumOption{
		{[]string{"seedling"}, StageSeedling},
		{[]string{"juvenile"}, StageJuvenile},
		{[]string{"flowering"}, StageFlowering},
		{[]string{"fruiting"}, StageFruiting},
		{[]string{"mature"}, StageMature},
	}},
	{Season, "season", []enumOption{
		{[]string{"pre-monsoon", "before rain"}, SeasonPreMonsoon},
		{[]string{"post-monsoon", "after rain"}, SeasonPostMonsoon},
		{[]string{"winter"}, SeasonWinter},
		{[]string{"summer"}, SeasonSummer},
	}},
}

func parseInt(s string) (Value, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return Value{}, false
	}
	return IntValue(n), true
}

func parseReal(s string) (Value, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, false
	}
	return RealValue(f), true
}

// Extract returns every parameter recognised in text. Each parameter takes
// the first match; labels with unparsable values are skipped.
func Extract(text string) Params {
	out := make(Params)
	for _, r := range numericRules {
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := r.parse(m[1]); ok {
			out[r.name] = v
		}
	}
	for k, v := range ExtractEnums(text) {
		out[k] = v
	}
	return out
}

// ExtractEnums returns only the enumerated parameters (growth stage, season)
// found by literal substring containment.
func ExtractEnums(text string) Params {
	lower := strings.ToLower(text)
	out := make(Params)
	for _, r := range enumRules {
		if v, ok := r.match(lower); ok {
			out[r.name] = EnumValue(v)
		}
	}
	return out
}

func (r enumRule) match(lower string) (string, bool) {
	for _, opt := range r.options {
		for _, needle := range opt.needles {
			if strings.Contains(lower, needle) {
				return opt.value, true
			}
		}
	}
	return "", false
}

// Names lists every extractable parameter in table order.
func Names() []Name {
	names := make([]Name, 0, len(numericRules)+len(enumRules))
	for _, r := range numericRules {
		names = append(names, r.name)
	}
	for _, r := range enumRules {
		names = append(names, r.name)
	}
	return names
}

// Known reports whether name is produced by the extractor.
func Known(name Name) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// FriendlyName is the phrase used when asking the farmer for a parameter.
func FriendlyName(name Name) string {
	for _, r := range numericRules {
		if r.name == name {
			return r.friendly
		}
	}
	for _, r := range enumRules {
		if r.name == name {
			return r.friendly
		}
	}
	return string(name)
}

// MissingPrompt asks for the given parameters, e.g. "I need the temperature,
// humidity, and rainfall.". It returns "" when nothing is missing.
func MissingPrompt(missing []Name) string {
	names := make([]string, len(missing))
	for i, m := range missing {
		names[i] = FriendlyName(m)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return "I need the " + names[0] + "."
	case 2:
		return "I need the " + names[0] + " and " + names[1] + "."
	default:
		return "I need the " + strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1] + "."
	}
}

// Stages lists the recognised growth stages in match order.
func Stages() []string { return enumValues(GrowthStage) }

// Seasons lists the recognised seasons in match order.
func Seasons() []string { return enumValues(Season) }

func enumValues(name Name) []string {
	for _, r := range enumRules {
		if r.name != name {
			continue
		}
		out := make([]string, 0, len(r.options))
		for _, o := range r.options {
			out = append(out, o.value)
		}
		return out
	}
	return nil
}
