// internal/advisory/classifier/classifier.go
package classifier

import (
	"regexp"
	"strings"

	"agri-advisory-workers/internal/models"
)

// UnknownState is reported when a bare district is not in the district table.
const UnknownState = "Unknown"

type Rule struct {
	Type     models.QueryType
	Keywords []string
}

// Rules are evaluated in order; the first rule with a keyword contained in the
// lower-cased query wins.
var Rules = []Rule{
	{Type: models.QueryTypeWeather, Keywords: []string{"weather", "rain", "temperature"}},
	{Type: models.QueryTypeMarket, Keywords: []string{"price", "market", "mandi"}},
	{Type: models.QueryTypeSoil, Keywords: []string{"soil", "ph", "fertility"}},
	{Type: models.QueryTypeScheme, Keywords: []string{"scheme", "subsidy", "loan"}},
	{Type: models.QueryTypeCrop, Keywords: []string{"crop", "sow", "plant", "harvest"}},
}

var Crops = []string{
	"rice", "paddy", "wheat", "maize", "cotton",
	"sugarcane", "soybean", "tomato", "potato", "onion",
}

// A crop name must start a word, so "prices" does not yield "rice" while
// "tomatoes" still yields "tomato".
var cropPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(Crops))
	for i, crop := range Crops {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(crop))
	}
	return out
}()

var DistrictStates = map[string]string{
	"allahabad":  "Uttar Pradesh",
	"prayagraj":  "Uttar Pradesh",
	"lucknow":    "Uttar Pradesh",
	"kanpur":     "Uttar Pradesh",
	"mumbai":     "Maharashtra",
	"pune":       "Maharashtra",
	"nagpur":     "Maharashtra",
	"delhi":      "Delhi",
	"bangalore":  "Karnataka",
	"bengaluru":  "Karnataka",
	"chennai":    "Tamil Nadu",
	"hyderabad":  "Telangana",
	"kolkata":    "West Bengal",
	"ahmedabad":  "Gujarat",
	"jaipur":     "Rajasthan",
	"chandigarh": "Punjab",
	"ludhiana":   "Punjab",
}

// A place phrase ends at the first of these words, so "in Delhi based on prices"
// yields "Delhi".
var phraseStopWords = map[string]bool{
	"and": true, "are": true, "based": true, "because": true, "but": true,
	"can": true, "district": true, "during": true, "for": true, "given": true,
	"how": true, "is": true, "next": true, "now": true, "or": true,
	"should": true, "since": true, "that": true, "these": true, "this": true,
	"to": true, "today": true, "tomorrow": true, "what": true, "when": true,
	"where": true, "which": true, "will": true, "with": true,
}

// A nested connective restarts the phrase: "at risk in Pune" yields "Pune".
var connectives = map[string]bool{"in": true, "at": true, "from": true}

var locationPattern = regexp.MustCompile(`(?i)\b(?:in|at|from)\s+([a-z][a-z\s]*(?:,\s*[a-z][a-z\s]*)?)`)

// Classify derives the query context. It never fails: anything it cannot infer
// is left unset.
func Classify(query string) models.QueryContext {
	return models.QueryContext{
		QueryType: QueryTypeOf(query),
		Location:  LocationOf(query),
		Crop:      CropOf(query),
	}
}

func QueryTypeOf(query string) models.QueryType {
	lower := strings.ToLower(query)
	for _, rule := range Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Type
			}
		}
	}
	return models.QueryTypeGeneral
}

// CropOf returns the crop mentioned earliest in the query. Vocabulary order
// only breaks ties at the same position.
func CropOf(query string) string {
	lower := strings.ToLower(query)
	best, bestAt := "", -1
	for i, re := range cropPatterns {
		loc := re.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		if bestAt < 0 || loc[0] < bestAt {
			best, bestAt = Crops[i], loc[0]
		}
	}
	return best
}

func LocationOf(query string) *models.Location {
	for _, m := range locationPattern.FindAllStringSubmatch(query, -1) {
		district, state, twoPart := splitPlace(m[1])
		if district == "" {
			continue
		}
		if twoPart {
			return &models.Location{District: district, State: state}
		}
		return &models.Location{District: district, State: StateFor(district)}
	}
	return nil
}

// StateFor resolves a district through DistrictStates.
func StateFor(district string) string {
	if state, ok := DistrictStates[strings.ToLower(strings.TrimSpace(district))]; ok {
		return state
	}
	return UnknownState
}

func splitPlace(raw string) (district, state string, twoPart bool) {
	parts := strings.SplitN(raw, ",", 2)
	district = trimPhrase(parts[0])
	if len(parts) == 2 && district != "" {
		state = trimPhrase(parts[1])
		if state != "" {
			return district, state, true
		}
	}
	return district, "", false
}

func trimPhrase(s string) string {
	var kept []string
	words := strings.Fields(s)
	for i, word := range words {
		lw := strings.ToLower(word)
		if phraseStopWords[lw] {
			break
		}
		if connectives[lw] {
			if i+1 == len(words) {
				break
			}
			kept = kept[:0]
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
