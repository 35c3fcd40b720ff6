package chatbot

import "strings"

// Responder answers visitor messages by scanning an ordered rule list.
// The first rule with any keyword present in the lowercased message wins;
// when nothing matches, the fallback reply is returned.
type Responder struct {
	rules    []Rule
	fallback string
}

// NewResponder creates a responder. Panics if fallback is empty, since a
// responder that can fail to answer is useless.
func NewResponder(rules []Rule, fallback string) *Responder {
	if fallback == "" {
		panic("chatbot: fallback reply must not be empty")
	}
	return &Responder{rules: rules, fallback: fallback}
}

// Reply returns the reply for message plus the name of the rule that
// produced it. The rule name is empty for the fallback.
func (r *Responder) Reply(message string) (string, string) {
	lowered := strings.ToLower(message)
	for _, rule := range r.rules {
		for _, kw := range rule.Match {
			if strings.Contains(lowered, kw) {
				return rule.Reply, rule.Name
			}
		}
	}
	return r.fallback, ""
}

// Rules returns the loaded rule names in match order.
func (r *Responder) Rules() []string {
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		names = append(names, rule.Name)
	}
	return names
}
