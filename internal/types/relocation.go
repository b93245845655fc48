package types

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Relocation is a namespace rewrite rule: classes and resources under the
// search pattern are moved under the relocated pattern. Include and exclude
// filters narrow which names a rule applies to; both empty means unfiltered.
type Relocation struct {
	pattern          string
	relocatedPattern string
	includes         []string
	excludes         []string
}

// NewRelocation builds a rule. Patterns accept "{}" in place of "." the same
// way coordinate group ids do.
func NewRelocation(pattern string, relocatedPattern string, includes []string, excludes []string) (Relocation, error) {
	search := strings.ReplaceAll(strings.TrimSpace(pattern), separatorPlaceholder, ".")
	replacement := strings.ReplaceAll(strings.TrimSpace(relocatedPattern), separatorPlaceholder, ".")
	if search == "" {
		return Relocation{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("relocation pattern is required")
	}
	if replacement == "" {
		return Relocation{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("relocated pattern is required")
	}
	return Relocation{
		pattern:          search,
		relocatedPattern: replacement,
		includes:         normalizeFilters(includes),
		excludes:         normalizeFilters(excludes),
	}, nil
}

func (r Relocation) Pattern() string          { return r.pattern }
func (r Relocation) RelocatedPattern() string { return r.relocatedPattern }

func (r Relocation) Includes() []string { return append([]string(nil), r.includes...) }
func (r Relocation) Excludes() []string { return append([]string(nil), r.excludes...) }

func normalizeFilters(filters []string) []string {
	var out []string
	for _, filter := range filters {
		normalized := strings.ReplaceAll(strings.TrimSpace(filter), separatorPlaceholder, ".")
		if normalized == "" {
			continue
		}
		out = append(out, normalized)
	}
	return out
}

// RelocationBuilder mirrors CoordinateBuilder for staged rule construction.
type RelocationBuilder struct {
	pattern          string
	relocatedPattern string
	includes         []string
	excludes         []string
}

func NewRelocationBuilder() *RelocationBuilder {
	return &RelocationBuilder{}
}

func (b *RelocationBuilder) Pattern(pattern string) *RelocationBuilder {
	b.pattern = pattern
	return b
}

func (b *RelocationBuilder) RelocatedPattern(relocatedPattern string) *RelocationBuilder {
	b.relocatedPattern = relocatedPattern
	return b
}

func (b *RelocationBuilder) Include(include string) *RelocationBuilder {
	b.includes = append(b.includes, include)
	return b
}

func (b *RelocationBuilder) Exclude(exclude string) *RelocationBuilder {
	b.excludes = append(b.excludes, exclude)
	return b
}

func (b *RelocationBuilder) Build() (Relocation, error) {
	return NewRelocation(b.pattern, b.relocatedPattern, b.includes, b.excludes)
}
