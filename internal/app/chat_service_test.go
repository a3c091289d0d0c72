package app_test

import (
	"context"
	"strings"
	"testing"

	"cultural-quiz-service/internal/app"
	"cultural-quiz-service/internal/domain"
	"cultural-quiz-service/internal/infra/memory"
	"cultural-quiz-service/internal/infra/seed"
)

func chatEntries() []seed.Entry {
	return []seed.Entry{
		{
			Country: domain.Country{ID: 1, Name: "Japan"},
			Details: []domain.CulturalDetail{
				{Category: "DINING", Topic: "Chopsticks", Description: "Never stand them in rice."},
				{Category: "GREETING", Topic: "Bowing", Description: "Bow to greet."},
				{Category: "ETIQUETTE", Topic: "Shoes", Description: "Remove shoes indoors."},
				{Category: "DOs & DONTs", Topic: "Do", Description: "Use both hands."},
				{Category: "DOs & DONTs", Topic: "Don't", Description: "Don't tip."},
			},
		},
		{
			Country: domain.Country{ID: 2, Name: "France"},
			Details: []domain.CulturalDetail{
				{Category: "ETIQUETTE", Topic: "Bonjour", Description: "Greet shopkeepers."},
			},
		},
		{
			Country: domain.Country{ID: 3, Name: "United States"},
		},
	}
}

func TestChatReplies(t *testing.T) {
	chat := app.NewChatService(memory.NewStaticCatalog(chatEntries()))

	cases := map[string]struct {
		message    string
		context    string
		wantActive string
		want       []string
	}{
		"greeting": {
			message: "Hello there", context: "Japan", wantActive: "Japan",
			want: []string{"Ready to explore Japan?"},
		},
		"do rules": {
			message: "Can I wear shoes inside?", context: "Japan", wantActive: "Japan",
			want: []string{"**Japan (Do's)**", "- Use both hands."},
		},
		"dont rules": {
			message: "Anything rude or taboo?", context: "Japan", wantActive: "Japan",
			want: []string{"**Japan (Don'ts)**", "- Don't tip."},
		},
		"dont is not read as do": {
			message: "Things I don’t want to get wrong", context: "Japan", wantActive: "Japan",
			want: []string{"(Don'ts)"},
		},
		"top tips in category order": {
			message: "Tell me the basics", context: "Japan", wantActive: "Japan",
			want: []string{"**Japan Cultural Snapshot**", "**Bowing**: Bow to greet.\n\n**Shoes**: Remove shoes indoors.\n\n**Chopsticks**: Never stand them in rice."},
		},
		"no keyword defaults to tips": {
			message: "This is nice", context: "Japan", wantActive: "Japan",
			want: []string{"Cultural Snapshot"},
		},
		"off topic": {
			message: "What's the weather like", context: "Japan", wantActive: "Japan",
			want: []string{"I can only help with cultural etiquette questions"},
		},
		"message overrides context": {
			message: "Tell me about France", context: "Japan", wantActive: "France",
			want: []string{"**France Cultural Snapshot**", "**Bonjour**: Greet shopkeepers."},
		},
		"country from message without context": {
			message: "Trains in japan", wantActive: "Japan",
			want: []string{"Japan Cultural Snapshot"},
		},
		"do without rules": {
			message: "Can I haggle in France?", wantActive: "France",
			want: []string{"I don't have specific 'Do' rules for France"},
		},
		"dont without rules": {
			message: "What should never happen?", context: "France", wantActive: "France",
			want: []string{"I don't have specific taboos recorded for France"},
		},
		"tips without details": {
			message: "advice please", context: "usa", wantActive: "United States",
			want: []string{"Be observant and respectful."},
		},
		"no country greeting": {
			message: "hi", want: []string{"Mention a country"},
		},
		"general context": {
			message: "tell me something", context: "general",
			want: []string{"Which country are you curious about?"},
		},
		"unknown context": {
			message: "tips please", context: "Atlantis",
			want: []string{"Which country are you curious about?"},
		},
	}

	for name, tc := range cases {
		reply, err := chat.Reply(context.Background(), tc.message, tc.context)
		if err != nil {
			t.Fatalf("%s: reply: %v", name, err)
		}
		if reply.ActiveCountry != tc.wantActive {
			t.Fatalf("%s: active country %q, want %q", name, reply.ActiveCountry, tc.wantActive)
		}
		for _, want := range tc.want {
			if !strings.Contains(reply.Response, want) {
				t.Fatalf("%s: response %q missing %q", name, reply.Response, want)
			}
		}
	}
}

func TestChatPropagatesCatalogErrors(t *testing.T) {
	chat := app.NewChatService(failingCatalog{})
	if _, err := chat.Reply(context.Background(), "hello", "Japan"); err == nil {
		t.Fatalf("expected catalog failure to surface")
	}
}
