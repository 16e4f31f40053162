package cleanse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leadops/leadwash/internal/lead"
)

// EmailRules is the word/domain rule set driving fake-email detection.
// The lists are injectable so jurisdictions can tune them without code
// changes; DefaultEmailRules returns the production set. Detection is
// a best-effort heuristic: some false positives and negatives are
// accepted.
type EmailRules struct {
	// LocalTokens are placeholder local parts matched exactly after
	// stripping non-letters ("none", "test123" -> "test", ...).
	LocalTokens []string

	// LocalPrefixes flag any local part starting with one of them.
	LocalPrefixes []string

	// Domains are known fake or disposable domains, matched exactly.
	Domains []string

	// RefusalLocalPatterns are regexes applied to the whole lowercased
	// address, catching refusal spellings like not.ready@ or test123@.
	RefusalLocalPatterns []string

	// RefusalDomains flag a domain whose first label is one of them.
	RefusalDomains []string
}

// DefaultEmailRules returns the built-in rule set.
func DefaultEmailRules() EmailRules {
	return EmailRules{
		LocalTokens: []string{
			"none", "noemail", "no", "nope", "nothanks", "nothing", "noway", "nowmail",
			"test", "testing", "asdf", "asdfa", "asdfasdf", "qwerty", "abc", "xyz",
			"fake", "fakeemail", "nomail", "notgiving", "notgonna",
			"johndoe", "janedoe", "john", "jane", "example", "sample", "demo",
			"null", "void", "blank", "empty", "unknown", "anonymous", "anon",
			"temp", "temporary", "disposable", "throwaway", "trash",
			"notapplicable", "na", "nada", "nil", "noone", "nobody",
			"nomorehackingallowed", "notgoingtotellyou", "notsay", "notready",
		},
		LocalPrefixes: []string{
			"none", "noemail", "nope", "not.", "nothanks", "nothing",
			"noway", "test", "asdf", "qwer", "fake", "johndoe", "janedoe",
			"nomail", "notgiving", "notgonna", "utest", "testtest",
		},
		Domains: []string{
			"noemail.com", "nomail.com", "none.com", "nope.com", "fake.com",
			"fakeemail.com", "nothanks.com", "thanks.com", "noway.com",
			"nonya.com", "nospampls.com", "nospam.com", "comfortable.com",
			"happening.com", "ing.com", "example.com", "test.com", "testing.com",
			"mailinator.com", "guerrillamail.com", "tempmail.com", "throwaway.com",
			"trashmail.com", "sharklasers.com", "spam4.me", "grr.la",
			"dispostable.com", "maildrop.cc", "getairmail.com", "yopmail.com",
		},
		RefusalLocalPatterns: []string{
			`^not[._]?[a-z]*@`,
			`^no[._]?[a-z]*@`,
			`^nope`,
			`^noway`,
			`^nothanks`,
			`^nothing`,
			`^fake`,
			`^test[0-9]*@`,
			`^utest`,
		},
		RefusalDomains: []string{"happening", "comfortable", "nonya", "nospam", "thanks"},
	}
}

// EmailHeuristic is a compiled EmailRules ready for matching.
type EmailHeuristic struct {
	localTokens map[string]struct{}
	prefixes    []string
	domains     map[string]struct{}
	refusals    []*regexp.Regexp
	refusalDoms map[string]struct{}
}

// NewEmailHeuristic compiles a rule set. Returns an error if any
// refusal pattern is not a valid regex.
func NewEmailHeuristic(rules EmailRules) (*EmailHeuristic, error) {
	h := &EmailHeuristic{
		localTokens: make(map[string]struct{}, len(rules.LocalTokens)),
		prefixes:    rules.LocalPrefixes,
		domains:     make(map[string]struct{}, len(rules.Domains)),
		refusalDoms: make(map[string]struct{}, len(rules.RefusalDomains)),
	}
	for _, t := range rules.LocalTokens {
		h.localTokens[t] = struct{}{}
	}
	for _, d := range rules.Domains {
		h.domains[d] = struct{}{}
	}
	for _, d := range rules.RefusalDomains {
		h.refusalDoms[d] = struct{}{}
	}
	for _, p := range rules.RefusalLocalPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile refusal pattern %q: %w", p, err)
		}
		h.refusals = append(h.refusals, re)
	}
	return h, nil
}

// MustEmailHeuristic compiles a rule set and panics on bad patterns.
// Intended for the built-in rules, which are known valid.
func MustEmailHeuristic(rules EmailRules) *EmailHeuristic {
	h, err := NewEmailHeuristic(rules)
	if err != nil {
		panic(err)
	}
	return h
}

const specialLeaders = `?!.@#$%^&*()_+-=[]{}|;:'",<>/\`

// IsFake reports whether an email value looks fake, placeholder, or
// otherwise not worth contacting.
func (h *EmailHeuristic) IsFake(v any) bool {
	if lead.IsMissing(v) {
		return true
	}

	s := strings.ToLower(strings.TrimSpace(lead.ValueString(v)))
	if s == "" || !strings.Contains(s, "@") {
		return true
	}
	if strings.ContainsRune(specialLeaders, rune(s[0])) {
		return true
	}

	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return true
	}
	local, domain := parts[0], parts[1]
	if local == "" || domain == "" {
		return true
	}

	if _, ok := h.localTokens[stripNonLetters(local)]; ok {
		return true
	}
	for _, prefix := range h.prefixes {
		if strings.HasPrefix(local, prefix) {
			return true
		}
	}

	if _, ok := h.domains[domain]; ok {
		return true
	}
	if strings.HasSuffix(domain, ".con") {
		return true
	}

	// Keyboard mashing: very short all-letter local parts.
	if len(local) <= 4 && isLowerAlpha(local) {
		return true
	}

	for _, re := range h.refusals {
		if re.MatchString(s) {
			return true
		}
	}

	if strings.Contains(local, "johndoe") || strings.Contains(local, "janedoe") {
		return true
	}

	firstLabel := domain
	if i := strings.Index(domain, "."); i >= 0 {
		firstLabel = domain[:i]
	}
	if _, ok := h.refusalDoms[firstLabel]; ok {
		return true
	}

	return false
}

// FilterFakeEmails removes rows whose email the heuristic flags.
func FilterFakeEmails(set lead.RecordSet, emailCol string, h *EmailHeuristic) lead.Outcome {
	return Partition(set, lead.ReasonFakeEmail, func(r lead.Record) bool {
		return h.IsFake(r.Field(emailCol))
	})
}

func stripNonLetters(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isLowerAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
