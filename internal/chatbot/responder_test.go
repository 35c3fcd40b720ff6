package chatbot

import "testing"

func testRules() []Rule {
	return []Rule{
		{Name: "shipping", Match: []string{"shipping", "delivery"}, Reply: "Ships in 3-5 days."},
		{Name: "returns", Match: []string{"return", "refund"}, Reply: "30-day returns."},
	}
}

func TestResponderFirstMatchWins(t *testing.T) {
	r := NewResponder(testRules(), "fallback")

	// Mentions both topics; the earlier rule answers.
	reply, rule := r.Reply("Can I get a refund on shipping costs?")
	if rule != "shipping" {
		t.Errorf("rule = %q, want %q", rule, "shipping")
	}
	if reply != "Ships in 3-5 days." {
		t.Errorf("reply = %q", reply)
	}
}

func TestResponderMatchesCaseInsensitively(t *testing.T) {
	r := NewResponder(testRules(), "fallback")

	reply, rule := r.Reply("HOW DO I RETURN THIS?")
	if rule != "returns" {
		t.Errorf("rule = %q, want %q", rule, "returns")
	}
	if reply != "30-day returns." {
		t.Errorf("reply = %q", reply)
	}
}

func TestResponderFallsBack(t *testing.T) {
	r := NewResponder(testRules(), "Sorry, no idea.")

	reply, rule := r.Reply("tell me about quantum chromodynamics")
	if rule != "" {
		t.Errorf("rule = %q, want empty", rule)
	}
	if reply != "Sorry, no idea." {
		t.Errorf("reply = %q", reply)
	}
}

func TestResponderEmptyRulesAlwaysFallsBack(t *testing.T) {
	r := NewResponder(nil, "Sorry, no idea.")

	reply, rule := r.Reply("shipping?")
	if rule != "" || reply != "Sorry, no idea." {
		t.Errorf("got (%q, %q), want fallback", reply, rule)
	}
}

func TestNewResponderRejectsEmptyFallback(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for empty fallback")
		}
	}()
	NewResponder(testRules(), "")
}

func TestResponderRuleNames(t *testing.T) {
	r := NewResponder(testRules(), "fallback")
	names := r.Rules()
	if len(names) != 2 || names[0] != "shipping" || names[1] != "returns" {
		t.Errorf("Rules() = %v", names)
	}
}
