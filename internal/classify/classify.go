// Package classify assigns categories to finisher and statement-entry names
// with ordered, first-match-wins rule tables.
package classify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/conciliador-dev/conciliador/internal/model"
)

// Rule maps a name (and optionally the signed value) to a category.
// Name and Except are RE2 expressions matched against the folded name: upper
// case, without diacritics. An empty Name matches any name. Value is matched
// against the signed amount in minor units with no separators, so R$ -1.234,56
// is "-123456".
type Rule struct {
	Name           string         `yaml:"name,omitempty"`
	Except         string         `yaml:"except,omitempty"`
	Value          string         `yaml:"value,omitempty"`
	Category       model.Category `yaml:"category"`
	SettlementDays *int           `yaml:"settlement_days,omitempty"`
}

// Result is the outcome of a classification.
type Result struct {
	Category model.Category
	// SettlementDays overrides the category's default settlement offset.
	SettlementDays *int
	// Rule is the index of the matching rule, -1 when uncategorized.
	Rule int
}

type compiledRule struct {
	rule   Rule
	name   *regexp.Regexp
	except *regexp.Regexp
	value  *regexp.Regexp
}

// Classifier evaluates rules in slice order and returns the first match.
type Classifier struct {
	rules []compiledRule
}

// New compiles rules. Every rule needs a category and at least one of Name or Value.
func New(rules []Rule) (*Classifier, error) {
	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		if r.Category == "" || r.Category == model.CategoryUncategorized {
			return nil, fmt.Errorf("rule %d: missing category", i)
		}
		if !r.Category.Known() {
			return nil, fmt.Errorf("rule %d: unknown category %q", i, r.Category)
		}
		if r.Name == "" && r.Value == "" {
			return nil, fmt.Errorf("rule %d (%s): needs a name or value pattern", i, r.Category)
		}
		if r.SettlementDays != nil && *r.SettlementDays < 0 {
			return nil, fmt.Errorf("rule %d (%s): negative settlement_days", i, r.Category)
		}

		cr := compiledRule{rule: r}
		var err error
		if cr.name, err = compile(r.Name); err != nil {
			return nil, fmt.Errorf("rule %d name: %w", i, err)
		}
		if cr.except, err = compile(r.Except); err != nil {
			return nil, fmt.Errorf("rule %d except: %w", i, err)
		}
		if cr.value, err = compile(r.Value); err != nil {
			return nil, fmt.Errorf("rule %d value: %w", i, err)
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// MustNew is New for static tables. Panics on an invalid rule.
func MustNew(rules []Rule) *Classifier {
	c, err := New(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the category of the first matching rule, or uncategorized.
func (c *Classifier) Classify(name string, value int64) model.Category {
	return c.Match(name, value).Category
}

// Match returns the full result of the first matching rule.
func (c *Classifier) Match(name string, value int64) Result {
	folded := Fold(name)
	valueStr := strconv.FormatInt(value, 10)

	for i, cr := range c.rules {
		if cr.name != nil && !cr.name.MatchString(folded) {
			continue
		}
		if cr.except != nil && cr.except.MatchString(folded) {
			continue
		}
		if cr.value != nil && !cr.value.MatchString(valueStr) {
			continue
		}
		return Result{Category: cr.rule.Category, SettlementDays: cr.rule.SettlementDays, Rule: i}
	}
	return Result{Category: model.CategoryUncategorized, Rule: -1}
}

// Rules returns a copy of the rule table in evaluation order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, cr := range c.rules {
		out[i] = cr.rule
	}
	return out
}

// Categories returns the distinct categories of the table in rule order.
func (c *Classifier) Categories() []model.Category {
	seen := make(map[model.Category]bool)
	var cats []model.Category
	for _, cr := range c.rules {
		if seen[cr.rule.Category] {
			continue
		}
		seen[cr.rule.Category] = true
		cats = append(cats, cr.rule.Category)
	}
	return cats
}

// Fold upper-cases s, strips diacritics and collapses surrounding whitespace,
// so "Pré-Pago Visa Crédito " folds to "PRE-PAGO VISA CREDITO".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

func compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", pattern, err)
	}
	return re, nil
}
