package hydration

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const MaxRecommendations = 3

var (
	ErrMalformedCandidates = errors.New("malformed recommendation payload")
	ErrGeneratorRefused    = errors.New("recommendation generator returned an error")
)

// RecommendationRequest is what the generator is asked about. It never
// carries more of the profile than these three fields.
type RecommendationRequest struct {
	GoalOz   int           `json:"goal"`
	Activity ActivityLevel `json:"activity"`
	Climate  Climate       `json:"climate"`
}

// NewRecommendationRequest fills missing profile fields with defaults. p may
// be nil.
func NewRecommendationRequest(p *Profile) RecommendationRequest {
	req := RecommendationRequest{GoalOz: DefaultGoalOz, Activity: DefaultActivity, Climate: DefaultClimate}
	if p == nil {
		return req
	}
	if p.DailyGoalOz > 0 {
		req.GoalOz = p.DailyGoalOz
	}
	if p.ActivityLevel != "" {
		req.Activity = p.ActivityLevel
	}
	if p.Climate != "" {
		req.Climate = p.Climate
	}
	return req
}

func (r RecommendationRequest) Prompt() string {
	var b strings.Builder
	b.WriteString("Act as a hydration expert. Recommend 3 specific types of water bottles for a user with these stats:\n")
	fmt.Fprintf(&b, "- Daily Water Goal: %d oz\n", r.GoalOz)
	fmt.Fprintf(&b, "- Activity Level: %s\n", r.Activity)
	fmt.Fprintf(&b, "- Climate: %s\n\n", r.Climate)
	b.WriteString("For each recommendation, provide:\n")
	b.WriteString("1. An informative name for the bottle.\n")
	b.WriteString("2. The ideal capacity (e.g., 32oz).\n")
	b.WriteString("3. A short reason why it fits.\n")
	b.WriteString("4. A precise marketplace search keywords string (e.g., \"Yeti Rambler 26oz insulated\").\n\n")
	b.WriteString("Return the response ONLY as a valid JSON array:\n")
	b.WriteString(`[{"name": "...", "capacity": "...", "reason": "...", "searchTerm": "..."}]`)
	return b.String()
}

// Candidate is one raw suggestion as produced by the generator.
type Candidate struct {
	Name       string `json:"name"`
	Capacity   string `json:"capacity"`
	Reason     string `json:"reason"`
	SearchTerm string `json:"searchTerm"`
}

type Recommendation struct {
	Name           string `json:"name"`
	CapacityLabel  string `json:"capacity_label"`
	Reason         string `json:"reason"`
	SearchTerm     string `json:"search_term"`
	MarketplaceURL string `json:"marketplace_url"`
}

// ParseCandidates extracts suggestions from generator text. Code fences and
// surrounding prose are tolerated. The payload may be a bare array or an
// object with a "recommendations" array; an object with an "error" field
// yields ErrGeneratorRefused.
func ParseCandidates(raw string) ([]Candidate, error) {
	text := stripFences(raw)
	if text == "" {
		return nil, ErrMalformedCandidates
	}

	for _, body := range []string{text, sliceBetween(text, '[', ']'), sliceBetween(text, '{', '}')} {
		if body == "" {
			continue
		}
		if out, err := decodeCandidates(body); err == nil {
			return out, nil
		} else if errors.Is(err, ErrGeneratorRefused) {
			return nil, err
		}
	}
	return nil, ErrMalformedCandidates
}

func decodeCandidates(body string) ([]Candidate, error) {
	switch body[0] {
	case '[':
		var out []Candidate
		if err := json.Unmarshal([]byte(body), &out); err != nil {
			return nil, err
		}
		return out, nil
	case '{':
		var env struct {
			Recommendations *[]Candidate `json:"recommendations"`
			Error           string       `json:"error"`
		}
		if err := json.Unmarshal([]byte(body), &env); err != nil {
			return nil, err
		}
		if env.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrGeneratorRefused, env.Error)
		}
		if env.Recommendations == nil {
			return nil, ErrMalformedCandidates
		}
		return *env.Recommendations, nil
	}
	return nil, ErrMalformedCandidates
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func sliceBetween(s string, open, close byte) string {
	i := strings.IndexByte(s, open)
	j := strings.LastIndexByte(s, close)
	if i < 0 || j <= i {
		return ""
	}
	return s[i : j+1]
}

// MarketplaceURL builds the search link for term on host.
func MarketplaceURL(host, term string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     "/s",
		RawQuery: url.Values{"k": {term}}.Encode(),
	}
	return u.String()
}

// Decorate trims candidates, drops empty ones, attaches marketplace links
// and keeps at most MaxRecommendations.
func Decorate(cands []Candidate, host string) []Recommendation {
	out := make([]Recommendation, 0, MaxRecommendations)
	for _, c := range cands {
		if len(out) == MaxRecommendations {
			break
		}
		name := strings.TrimSpace(c.Name)
		term := strings.TrimSpace(c.SearchTerm)
		if term == "" {
			term = name
		}
		if name == "" && term == "" {
			continue
		}
		if name == "" {
			name = term
		}
		out = append(out, Recommendation{
			Name:           name,
			CapacityLabel:  strings.TrimSpace(c.Capacity),
			Reason:         strings.TrimSpace(c.Reason),
			SearchTerm:     term,
			MarketplaceURL: MarketplaceURL(host, term),
		})
	}
	return out
}
