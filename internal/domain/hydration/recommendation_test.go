package hydration

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestNewRecommendationRequest_Defaults(t *testing.T) {
	got := NewRecommendationRequest(nil)
	want := RecommendationRequest{GoalOz: 100, Activity: ActivityModerate, Climate: ClimateTemperate}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got = NewRecommendationRequest(&Profile{DailyGoalOz: 0, Climate: ClimateHot})
	if got.GoalOz != 100 || got.Activity != ActivityModerate || got.Climate != ClimateHot {
		t.Fatalf("unexpected partial defaults: %+v", got)
	}
}

func TestRecommendationRequest_Prompt(t *testing.T) {
	p := RecommendationRequest{GoalOz: 107, Activity: ActivityHigh, Climate: ClimateHot}.Prompt()
	for _, want := range []string{"107 oz", "Activity Level: high", "Climate: hot", "searchTerm"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestParseCandidates(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr error
	}{
		{name: "bare array", raw: `[{"name":"A","searchTerm":"a"}]`, want: 1},
		{name: "fenced", raw: "```json\n[{\"name\":\"A\"},{\"name\":\"B\"}]\n```", want: 2},
		{name: "prose around array", raw: "Here you go:\n[{\"name\":\"A\"}]\nEnjoy!", want: 1},
		{name: "wrapped object", raw: `{"recommendations":[{"name":"A"},{"name":"B"},{"name":"C"},{"name":"D"}]}`, want: 4},
		{name: "empty array", raw: `[]`, want: 0},
		{name: "error object", raw: `{"error":"quota exceeded"}`, wantErr: ErrGeneratorRefused},
		{name: "garbage", raw: "I cannot help with that.", wantErr: ErrMalformedCandidates},
		{name: "blank", raw: "  ", wantErr: ErrMalformedCandidates},
		{name: "object without list", raw: `{"foo":1}`, wantErr: ErrMalformedCandidates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCandidates(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d candidates, got %d", tt.want, len(got))
			}
		})
	}
}

func TestDecorate_TruncatesAndLinks(t *testing.T) {
	cands := []Candidate{
		{Name: "Yeti Rambler", Capacity: "26oz", Reason: "insulated", SearchTerm: "Yeti Rambler 26oz insulated"},
		{Name: "  ", SearchTerm: ""},
		{Name: "Hydro Flask", Capacity: "32oz"},
		{Name: "Nalgene", SearchTerm: "nalgene 32 oz"},
		{Name: "Extra", SearchTerm: "extra"},
	}

	got := Decorate(cands, "www.amazon.com")
	if len(got) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(got))
	}
	if got[0].MarketplaceURL != "https://www.amazon.com/s?k="+url.QueryEscape("Yeti Rambler 26oz insulated") {
		t.Fatalf("unexpected url %q", got[0].MarketplaceURL)
	}
	if got[1].SearchTerm != "Hydro Flask" {
		t.Fatalf("expected name fallback for search term, got %q", got[1].SearchTerm)
	}
	if got[2].Name != "Nalgene" {
		t.Fatalf("expected Nalgene third, got %q", got[2].Name)
	}
}

func TestMarketplaceURL_EscapesQuery(t *testing.T) {
	got := MarketplaceURL("www.amazon.com", "24oz & lid?")
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("unparsable url %q: %v", got, err)
	}
	if u.Query().Get("k") != "24oz & lid?" {
		t.Fatalf("query did not round-trip: %q", got)
	}
}
