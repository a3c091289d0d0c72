package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"cultural-quiz-service/internal/domain"
)

// chatIntent is what a chat message asks for.
type chatIntent string

const (
	intentGreeting chatIntent = "GREETING"
	intentDo       chatIntent = "DO"
	intentDont     chatIntent = "DONT"
	intentTopTips  chatIntent = "TOP_TIPS"
	intentOffTopic chatIntent = "OFF_TOPIC"
)

const (
	doDontCategory = "DOs & DONTs"
	doTopic        = "Do"
	dontTopic      = "Don't"
)

// Keyword lists are checked in order; the first list with a hit wins.
var intentKeywords = []struct {
	intent   chatIntent
	keywords []string
}{
	{intentGreeting, []string{"hello", "hi", "hey", "start", "begin", "good morning"}},
	{intentDo, []string{"do", "allowed", "okay", "can i", "should i"}},
	{intentDont, []string{"don't", "dont", "avoid", "illegal", "rude", "forbidden", "never", "taboo", "bad"}},
	{intentTopTips, []string{"tip", "tips", "guide", "advice", "help", "summary", "best practice", "tell me", "know about", "what is"}},
	{intentOffTopic, []string{"math", "calculation", "weather", "physics", "code"}},
}

// Top tips take at most one detail from each of these categories, in order.
var topTipCategories = []string{"GREETING", "ETIQUETTE", "DINING"}

// ChatReply is the assistant's answer. ActiveCountry is the country the answer
// is about, empty when none could be determined.
type ChatReply struct {
	Response      string `json:"response"`
	ActiveCountry string `json:"active_country,omitempty"`
}

// ChatService answers etiquette questions from the guide data with keyword
// rules; there is no model behind it.
type ChatService struct {
	catalog CatalogRepository
}

// NewChatService builds a chat service over the catalog.
func NewChatService(catalog CatalogRepository) *ChatService {
	return &ChatService{catalog: catalog}
}

// Reply answers message. A country named in the message wins over the
// country the client passes as its current context.
func (s *ChatService) Reply(ctx context.Context, message, contextCountry string) (ChatReply, error) {
	text := normalizeChatText(message)

	country, found, err := s.detectCountry(ctx, text, contextCountry)
	if err != nil {
		return ChatReply{}, err
	}
	if !found {
		if containsKeyword(text, "hi") || containsKeyword(text, "hello") || containsKeyword(text, "hey") {
			return ChatReply{Response: "Hi! Mention a country (like 'Japan' or 'Brazil') and I'll share local customs!"}, nil
		}
		return ChatReply{Response: "I can help with cultural guides. Which country are you curious about?"}, nil
	}

	intent := classify(text)
	reply := ChatReply{ActiveCountry: country.Name}
	if intent == intentOffTopic {
		reply.Response = "I can only help with cultural etiquette questions. Ask me about greetings or dining!"
		return reply, nil
	}

	details, err := s.catalog.GuideDetails(ctx, country.ID)
	if err != nil {
		return ChatReply{}, fmt.Errorf("load guide for %s: %w", country.Name, err)
	}

	switch intent {
	case intentGreeting:
		reply.Response = fmt.Sprintf("Hello! Ready to explore %s? You can ask me 'Do I tip?', 'How to greet?', or just 'Tell me about %s'.", country.Name, country.Name)
	case intentDo:
		if rules := topicDescriptions(details, doTopic); len(rules) > 0 {
			reply.Response = fmt.Sprintf("**%s (Do's)**:\n%s", country.Name, bulletList(rules))
		} else {
			reply.Response = fmt.Sprintf("I don't have specific 'Do' rules for %s, but generally be respectful!", country.Name)
		}
	case intentDont:
		if rules := topicDescriptions(details, dontTopic); len(rules) > 0 {
			reply.Response = fmt.Sprintf("**%s (Don'ts)**:\n%s", country.Name, bulletList(rules))
		} else {
			reply.Response = fmt.Sprintf("Just be polite! I don't have specific taboos recorded for %s.", country.Name)
		}
	default:
		reply.Response = fmt.Sprintf("**%s Cultural Snapshot**:\n\n%s\n\n*Try asking: 'Can I tip here?'*", country.Name, topTips(details))
	}
	return reply, nil
}

func classify(text string) chatIntent {
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if containsKeyword(text, kw) {
				return group.intent
			}
		}
	}
	return intentTopTips
}

func (s *ChatService) detectCountry(ctx context.Context, text, contextCountry string) (domain.Country, bool, error) {
	countries, err := s.catalog.ListCountries(ctx)
	if err != nil {
		return domain.Country{}, false, fmt.Errorf("list countries: %w", err)
	}
	for _, c := range countries {
		if containsKeyword(text, strings.TrimSpace(normalizeChatText(c.Name))) {
			return c, true, nil
		}
	}

	name := strings.TrimSpace(contextCountry)
	if name == "" || strings.EqualFold(name, "general") {
		return domain.Country{}, false, nil
	}
	country, err := s.catalog.FindCountry(ctx, NormalizeCountryName(name))
	if errors.Is(err, domain.ErrCountryNotFound) {
		return domain.Country{}, false, nil
	}
	if err != nil {
		return domain.Country{}, false, err
	}
	return country, true, nil
}

// normalizeChatText lowercases text and reduces it to space-separated words,
// padded with a space on both ends so whole-word lookups are plain substring checks.
func normalizeChatText(text string) string {
	text = strings.ReplaceAll(strings.ToLower(text), "’", "'")
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	return " " + strings.Join(words, " ") + " "
}

func containsKeyword(text, keyword string) bool {
	return keyword != "" && strings.Contains(text, " "+keyword+" ")
}

func topicDescriptions(details []domain.CulturalDetail, topic string) []string {
	var out []string
	for _, d := range details {
		if d.Category == doDontCategory && d.Topic == topic {
			out = append(out, d.Description)
		}
	}
	return out
}

func bulletList(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(line)
	}
	return b.String()
}

func topTips(details []domain.CulturalDetail) string {
	var tips []string
	for _, category := range topTipCategories {
		for _, d := range details {
			if d.Category == category {
				tips = append(tips, fmt.Sprintf("**%s**: %s", d.Topic, d.Description))
				break
			}
		}
	}
	if len(tips) == 0 {
		return "Be observant and respectful."
	}
	return strings.Join(tips, "\n\n")
}
