package rewrite

import (
	"fmt"
	"slices"
	"strings"
)

// Rule moves every import of Module (and of its submodules) under Namespace.
type Rule struct {
	Module    string
	Namespace string
}

type ruleNode struct {
	children map[string]*ruleNode
	rule     *Rule
}

// RuleSet indexes rules by dotted module components so lookups return the
// longest matching module.
type RuleSet struct {
	root       *ruleNode
	rules      []Rule
	namespaces []string
}

// NewRuleSet validates rules and builds the lookup trie. Listing the same
// module twice with the same namespace is allowed; with different namespaces
// it is an AmbiguousRuleError.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{root: &ruleNode{}}

	for _, rule := range rules {
		if !isDottedName(rule.Module) {
			return nil, fmt.Errorf("invalid module name %q", rule.Module)
		}

		if !isDottedName(rule.Namespace) {
			return nil, fmt.Errorf("invalid namespace %q for module %q", rule.Namespace, rule.Module)
		}

		node := rs.root
		for _, part := range strings.Split(rule.Module, ".") {
			if node.children == nil {
				node.children = make(map[string]*ruleNode)
			}

			child, ok := node.children[part]
			if !ok {
				child = &ruleNode{}
				node.children[part] = child
			}

			node = child
		}

		if node.rule != nil {
			if node.rule.Namespace == rule.Namespace {
				continue
			}

			return nil, &AmbiguousRuleError{
				Reference:  rule.Module,
				Namespaces: []string{node.rule.Namespace, rule.Namespace},
			}
		}

		r := rule
		node.rule = &r

		rs.rules = append(rs.rules, rule)
		if !slices.Contains(rs.namespaces, rule.Namespace) {
			rs.namespaces = append(rs.namespaces, rule.Namespace)
		}
	}

	return rs, nil
}

// Len reports the number of distinct rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}

	return len(rs.rules)
}

// Rules returns the rules in insertion order.
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}

	return slices.Clone(rs.rules)
}

// Match returns the rule whose module is the longest dotted prefix of path.
func (rs *RuleSet) Match(path string) (Rule, bool) {
	if rs == nil {
		return Rule{}, false
	}

	var found *Rule

	node := rs.root
	for _, part := range strings.Split(path, ".") {
		child, ok := node.children[part]
		if !ok {
			break
		}

		if child.rule != nil {
			found = child.rule
		}

		node = child
	}

	if found == nil {
		return Rule{}, false
	}

	return *found, true
}

// resolve decides how a module reference is rewritten. References already
// inside the matched rule's namespace are left alone; references matching one
// rule while sitting inside another rule's namespace cannot be decided.
func (rs *RuleSet) resolve(path string) (Rule, bool, error) {
	rule, ok := rs.Match(path)
	if !ok {
		return Rule{}, false, nil
	}

	var inside []string

	for _, ns := range rs.namespaces {
		if hasDottedPrefix(path, ns) {
			inside = append(inside, ns)
		}
	}

	if len(inside) == 0 {
		return rule, true, nil
	}

	if slices.Contains(inside, rule.Namespace) {
		return Rule{}, false, nil
	}

	return Rule{}, false, &AmbiguousRuleError{
		Reference:  path,
		Namespaces: append([]string{rule.Namespace}, inside...),
	}
}

func hasDottedPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}

	return len(path) == len(prefix) || path[len(prefix)] == '.'
}

// IsModuleName reports whether s is a dotted Python module name such as
// `pip._vendor`.
func IsModuleName(s string) bool {
	return isDottedName(s)
}

func isDottedName(s string) bool {
	if s == "" {
		return false
	}

	for _, part := range strings.Split(s, ".") {
		if !isIdentifierText(part) {
			return false
		}
	}

	return true
}
