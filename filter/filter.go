// Package filter narrows sc2ranks search results with expr-lang expressions.
//
// An expression sees the fields of one search hit and must yield a bool:
//
//	Name startsWith "Bacon" and hasBnetID()
//	containsFold(Name, "embargo") || Code == "456"
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog"

	"github.com/s0up4200/sc2ranks/sc2ranks"
)

// Filter is a compiled expression
type Filter struct {
	expression string
	program    *vm.Program
}

// Compiler compiles expressions, optionally caching the results
type Compiler struct {
	cache *programCache
}

// CompilerOption configures a Compiler
type CompilerOption func(*Compiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) CompilerOption {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newProgramCache(size)
		}
	}
}

// NewCompiler creates a new expression compiler
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile parses and type-checks an expression
func (c *Compiler) Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnv("", sc2ranks.CharacterSummary{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	f := &Filter{expression: expression, program: program}
	if c.cache != nil {
		c.cache.put(expression, f)
	}
	return f, nil
}

// CacheSize returns the number of cached filters
func (c *Compiler) CacheSize() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.len()
}

// Compile compiles an expression without caching
func Compile(expression string) (*Filter, error) {
	return NewCompiler().Compile(expression)
}

// String returns the original expression
func (f *Filter) String() string {
	return f.expression
}

// Match evaluates the filter against one search hit
func (f *Filter) Match(region sc2ranks.Region, character sc2ranks.CharacterSummary) (bool, error) {
	out, err := expr.Run(f.program, newEnv(region, character))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, Character: character.Name, Err: err}
	}

	matched, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			Character:  character.Name,
			Err:        fmt.Errorf("expression returned %T, not bool", out),
		}
	}
	return matched, nil
}

// Apply returns the characters the filter matches. Characters that fail to
// evaluate are skipped and logged.
func (f *Filter) Apply(region sc2ranks.Region, characters []sc2ranks.CharacterSummary, logger zerolog.Logger) []sc2ranks.CharacterSummary {
	var matches []sc2ranks.CharacterSummary
	for _, c := range characters {
		ok, err := f.Match(region, c)
		if err != nil {
			logger.Warn().Err(err).Str("character", c.Name).Msg("Skipping character")
			continue
		}
		if ok {
			matches = append(matches, c)
		}
	}

	logger.Debug().
		Str("filter", f.expression).
		Int("total", len(characters)).
		Int("matched", len(matches)).
		Msg("Applied filter to search results")

	return matches
}

// newEnv builds the evaluation environment for a single character. Compile
// uses it with zero values so field types are known up front.
func newEnv(region sc2ranks.Region, c sc2ranks.CharacterSummary) map[string]any {
	return map[string]any{
		"Name":   c.Name,
		"BnetID": int64(c.BnetID),
		"Code":   c.Code,
		"Region": string(region),

		"hasBnetID": func() bool {
			return c.BnetID != 0
		},
		"hasCode": func() bool {
			return c.Code != ""
		},
		"containsFold": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"prefixFold": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"suffixFold": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
	}
}
