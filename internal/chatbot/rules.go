package chatbot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps a set of keywords to a canned reply. Keywords are matched as
// lowercase substrings of the visitor's message.
type Rule struct {
	Name  string
	Match []string
	Reply string
}

// rawRule is the on-disk YAML shape. Each file contains exactly one rule
// at the top level.
type rawRule struct {
	Name  string   `yaml:"name"`
	Match []string `yaml:"match"`
	Reply string   `yaml:"reply"`
}

// LoadRules loads chatbot rules from *.yaml files in dir, in file name
// order. A missing directory is valid and yields the built-in rules.
// Returns an error if any rule file is malformed or invalid.
func LoadRules(dir string) ([]Rule, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return DefaultRules(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("chatbot rule dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("chatbot rule path %q is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading chatbot rule dir: %w", err)
	}

	var rules []Rule
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading rule file %s: %w", path, err)
		}

		var raw rawRule
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
		}
		if raw.Name == "" {
			continue // skip empty / comment-only files
		}

		rule, err := normalizeRule(Rule{Name: raw.Name, Match: raw.Match, Reply: raw.Reply})
		if err != nil {
			return nil, err
		}
		if seen[rule.Name] {
			return nil, fmt.Errorf("rule %q: duplicate rule name (check multiple YAML files)", rule.Name)
		}
		seen[rule.Name] = true
		rules = append(rules, rule)
	}
	return rules, nil
}

// normalizeRule lowercases keywords and rejects rules that can never fire.
func normalizeRule(r Rule) (Rule, error) {
	if r.Reply == "" {
		return Rule{}, fmt.Errorf("rule %q: reply must not be empty", r.Name)
	}

	keywords := make([]string, 0, len(r.Match))
	for _, kw := range r.Match {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return Rule{}, fmt.Errorf("rule %q: match keywords must not be blank", r.Name)
		}
		keywords = append(keywords, kw)
	}
	if len(keywords) == 0 {
		return Rule{}, fmt.Errorf("rule %q: match list must not be empty", r.Name)
	}

	r.Match = keywords
	return r, nil
}

// DefaultRules returns the built-in rule set used when no rules directory
// is configured. Order matters: the first matching rule wins, so specific
// topics come before the greeting.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "shipping",
			Match: []string{"shipping", "ship", "delivery", "deliver"},
			Reply: "Standard shipping takes 3-5 business days. Orders over $50 ship free.",
		},
		{
			Name:  "returns",
			Match: []string{"return", "refund", "exchange"},
			Reply: "You can return any item within 30 days of delivery for a full refund.",
		},
		{
			Name:  "orders",
			Match: []string{"order", "track", "tracking"},
			Reply: "You can track your order with the link in your confirmation email.",
		},
		{
			Name:  "products",
			Match: []string{"product", "catalog", "stock", "available"},
			Reply: "Browse the full catalog at /api/products. Every listing shows live stock.",
		},
		{
			Name:  "hours",
			Match: []string{"hours", "open", "support"},
			Reply: "Our support team is available Monday through Friday, 9am to 5pm.",
		},
		{
			Name:  "greeting",
			Match: []string{"hello", "hey", "good morning", "good afternoon"},
			Reply: "Hi there! Ask me about shipping, returns, or our products.",
		},
	}
}
