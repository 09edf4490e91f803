// Package lexicon classifies candidate text against the curated term sets
// for the flow-measurement domain.
//
// Four sets are used:
//   - inclusion: at least one match is required to keep an item
//   - exclusion: a match drops the item regardless of anything else
//   - context:   boosts the score; with the strict policy it is required
//   - derank:    lowers the score without dropping the item
package lexicon

import (
	"regexp"
	"strings"
)

// Set is a named, versioned list of terms. Matching is tiered: phrases
// match as substrings, tokens of up to four characters match on word
// boundaries (so "gas" never matches inside "Madagascar"), and longer
// single words match as substrings.
type Set struct {
	Name    string
	Version string

	terms   []string
	shortRe map[string]*regexp.Regexp
}

const shortTokenLen = 4

func newSet(name, version string, terms ...string) Set {
	s := Set{
		Name:    name,
		Version: version,
		terms:   make([]string, 0, len(terms)),
		shortRe: make(map[string]*regexp.Regexp),
	}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		s.terms = append(s.terms, t)
		if !strings.Contains(t, " ") && len(t) <= shortTokenLen {
			s.shortRe[t] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
		}
	}
	return s
}

// Terms returns a copy of the term list.
func (s Set) Terms() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Matches reports whether any term matches text. text must be lowercased.
func (s Set) Matches(text string) bool {
	return s.Hits(text) > 0
}

// Hits counts how many distinct terms match text. text must be lowercased.
func (s Set) Hits(text string) int {
	hits := 0
	for _, t := range s.terms {
		if re, ok := s.shortRe[t]; ok {
			if re.MatchString(text) {
				hits++
			}
			continue
		}
		if strings.Contains(text, t) {
			hits++
		}
	}
	return hits
}

// Inclusion is the measurement-domain lexicon: instrument and process
// terms, proving and calibration vocabulary, named standards.
var Inclusion = newSet("inclusion", "2026-08",
	"custody transfer",
	"fiscal metering",
	"fiscal measurement",
	"flow meter",
	"flowmeter",
	"flow measurement",
	"flow metering",
	"meter proving",
	"meter prover",
	"prover loop",
	"ball prover",
	"piston prover",
	"master meter",
	"meter calibration",
	"calibration rig",
	"calibration laboratory",
	"ultrasonic meter",
	"ultrasonic flow",
	"coriolis",
	"turbine meter",
	"orifice plate",
	"orifice metering",
	"differential pressure flow",
	"venturi meter",
	"metering skid",
	"metering station",
	"metering system",
	"lact unit",
	"lease automatic custody transfer",
	"flow computer",
	"gas chromatograph",
	"sampling system",
	"wet gas metering",
	"multiphase flow meter",
	"multiphase metering",
	"allocation metering",
	"gas metering",
	"liquid metering",
	"measurement uncertainty",
	"api mpms",
	"aga 3",
	"aga 7",
	"aga 8",
	"aga 9",
	"iso 5167",
	"iso 17025",
	"oiml r117",
	"oiml r137",
	"mid certification",
)

// Exclusion covers the homonym domains that share vocabulary with custody
// transfer: legal custody, financial custody, securities services.
// Exclusion takes precedence over every other set.
var Exclusion = newSet("exclusion", "2026-08",
	"child custody",
	"custody of the child",
	"custody of the children",
	"custody battle",
	"custody dispute",
	"custody hearing",
	"joint custody",
	"sole custody",
	"police custody",
	"taken into custody",
	"remanded in custody",
	"died in custody",
	"crypto custody",
	"bitcoin custody",
	"digital asset custody",
	"custody wallet",
	"custodian bank",
	"custody bank",
	"securities custody",
	"custody account",
	"fund custody",
	"asset custody",
	"custodial services",
	"custody fees",
)

// Context holds explicit domain-context terms. A match boosts the score;
// under the strict policy it becomes a second gate.
var Context = newSet("context", "2026-08",
	"oil",
	"gas",
	"lng",
	"crude",
	"condensate",
	"hydrocarbon",
	"petroleum",
	"pipeline",
	"refinery",
	"terminal",
	"upstream",
	"midstream",
	"offshore",
	"wellhead",
	"natural gas",
	"liquefied natural gas",
	"production platform",
	"tank farm",
	"export terminal",
)

// Derank lists the adjacent-but-undesired metering domain (utility and
// consumer meters). Matches sort lower instead of disappearing.
var Derank = newSet("derank", "2026-08",
	"smart meter",
	"smart metering",
	"electricity meter",
	"power meter",
	"energy meter",
	"water meter",
	"heat meter",
	"utility billing",
	"parking meter",
	"taxi meter",
)

// Policy is the single documented strictness toggle. With StrictContext
// set, an item must match the context lexicon in addition to the
// inclusion lexicon; otherwise context only adds score weight.
type Policy struct {
	StrictContext bool
}

// Result is the classification outcome for one candidate.
type Result struct {
	Keep  bool
	Score int
}

// Scoring weights. Additive integer points, teacher-style: an inclusion
// match sets the base, extra inclusion hits and context raise it, a
// derank match lowers it.
const (
	baseScore        = 50
	perExtraHit      = 10
	maxExtraHits     = 3
	contextBoost     = 15
	derankPenalty    = 20
	minimumKeptScore = 1
)

// Score classifies the title+summary text of one candidate.
func Score(title, summary string, p Policy) Result {
	text := strings.ToLower(title + " " + summary)

	// Exclusion wins over inclusion unconditionally.
	if Exclusion.Matches(text) {
		return Result{}
	}

	hits := Inclusion.Hits(text)
	if hits == 0 {
		return Result{}
	}

	hasContext := Context.Matches(text)
	if p.StrictContext && !hasContext {
		return Result{}
	}

	score := baseScore
	extra := hits - 1
	if extra > maxExtraHits {
		extra = maxExtraHits
	}
	score += extra * perExtraHit

	if hasContext {
		score += contextBoost
	}
	if Derank.Matches(text) {
		score -= derankPenalty
	}
	if score < minimumKeptScore {
		score = minimumKeptScore
	}

	return Result{Keep: true, Score: score}
}
