package scanner

import (
	"classscan/pkg/serrors"

	"github.com/dlclark/regexp2"
)

// DefaultIncludeFilter accepts any name.
const DefaultIncludeFilter = ".*"

// rule is a compiled filter pattern anchored to the whole name.
type rule struct {
	expr string
	re   *regexp2.Regexp
}

func compileRule(expr string) (rule, error) {
	// validate the bare pattern first: anchoring could turn an unbalanced
	// group such as "a)(b" into a valid expression
	if _, err := regexp2.Compile(expr, regexp2.None); err != nil {
		return rule{}, serrors.Wrap(serrors.ErrInvalidPattern, err, "invalid filter pattern %q", expr)
	}

	re, err := regexp2.Compile(`\A(?:`+expr+`)\z`, regexp2.None)
	if err != nil {
		return rule{}, serrors.Wrap(serrors.ErrInvalidPattern, err, "invalid filter pattern %q", expr)
	}

	return rule{expr: expr, re: re}, nil
}

func (r rule) matches(name string) bool {
	ok, err := r.re.MatchString(name)

	return err == nil && ok
}

// FilterChain decides whether a qualified name is accepted. Exclude rules are
// evaluated before include rules; each rule must match the whole name.
//
// A FilterChain is not safe for concurrent use.
type FilterChain struct {
	exclude []rule
	include []rule
}

// NewFilterChain returns a chain holding only the default include rule.
func NewFilterChain() *FilterChain {
	c := &FilterChain{}
	c.Reset(true)

	return c
}

// AddInclude appends an include rule. An invalid pattern fails with
// serrors.ErrInvalidPattern and leaves the chain unchanged.
func (c *FilterChain) AddInclude(expr string) error {
	r, err := compileRule(expr)
	if err != nil {
		return err
	}
	c.include = append(c.include, r)

	return nil
}

// AddExclude appends an exclude rule. An invalid pattern fails with
// serrors.ErrInvalidPattern and leaves the chain unchanged.
func (c *FilterChain) AddExclude(expr string) error {
	r, err := compileRule(expr)
	if err != nil {
		return err
	}
	c.exclude = append(c.exclude, r)

	return nil
}

// Reset drops every rule. With useDefault the default include rule is
// registered again.
func (c *FilterChain) Reset(useDefault bool) {
	c.include = nil
	c.exclude = nil
	if useDefault {
		// the default pattern is a constant and always compiles
		r, _ := compileRule(DefaultIncludeFilter)
		c.include = append(c.include, r)
	}
}

// Match reports whether name is accepted: rejected by the first matching
// exclude rule, accepted by the first matching include rule, and otherwise
// accepted only when there are no include rules.
func (c *FilterChain) Match(name string) bool {
	for _, r := range c.exclude {
		if r.matches(name) {
			return false
		}
	}
	for _, r := range c.include {
		if r.matches(name) {
			return true
		}
	}

	return len(c.include) == 0
}

// Includes returns the include patterns in the order they were added.
func (c *FilterChain) Includes() []string { return exprs(c.include) }

// Excludes returns the exclude patterns in the order they were added.
func (c *FilterChain) Excludes() []string { return exprs(c.exclude) }

func exprs(rules []rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.expr)
	}

	return out
}
