package adapters

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/klauspost/compress/flate"

	"libfetch/internal/ports"
	"libfetch/internal/types"
)

// JarRelocatorAdapter is the directly-linked relocation engine. It performs
// a structural rewrite of a jar in a single pass: entry paths under a rule's
// search pattern move under its replacement, class files get their constant
// pool strings rewritten, and the jar manifest gets a textual rewrite. For
// each matched region the first matching rule wins; rules are expected not
// to overlap.
type JarRelocatorAdapter struct{}

func NewJarRelocatorAdapter() JarRelocatorAdapter {
	return JarRelocatorAdapter{}
}

func (JarRelocatorAdapter) Relocate(ctx context.Context, inPath string, outPath string, rules []types.Relocation) error {
	compiled := compileRules(rules)

	reader, err := zip.OpenReader(inPath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to open jar %s", inPath)).
			WithCause(err)
	}
	defer reader.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to create relocated jar %s", outPath)).
			WithCause(err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	writer.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})

	for _, entry := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := relocateEntry(writer, entry, compiled); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to relocate jar entry %s", entry.Name)).
				WithCause(err)
		}
	}

	if err := writer.Close(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to finalize relocated jar %s", outPath)).
			WithCause(err)
	}
	return out.Close()
}

func relocateEntry(writer *zip.Writer, entry *zip.File, rules []compiledRule) error {
	if strings.HasSuffix(entry.Name, "/") {
		name, _ := rewriteEntryPath(strings.TrimSuffix(entry.Name, "/"), rules)
		_, err := writer.CreateHeader(&zip.FileHeader{
			Name:     name + "/",
			Method:   entry.Method,
			Modified: entry.Modified,
		})
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return err
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return err
	}

	name := entry.Name
	switch {
	case strings.HasSuffix(name, ".class"):
		className := strings.TrimSuffix(name, ".class")
		renamed, _ := rewriteEntryPath(className, rules)
		name = renamed + ".class"
		if data, err = rewriteClassFile(data, rules); err != nil {
			return err
		}
	case name == "META-INF/MANIFEST.MF":
		data = []byte(rewriteOccurrences(rewriteOccurrences(string(data), rules, '.'), rules, '/'))
	default:
		name, _ = rewriteEntryPath(name, rules)
	}

	dst, err := writer.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   entry.Method,
		Modified: entry.Modified,
	})
	if err != nil {
		return err
	}
	_, err = dst.Write(data)
	return err
}

// compiledRule is a relocation rule precomputed in both slash (internal
// path) and dot (source name) form.
type compiledRule struct {
	pathPattern   string
	dotPattern    string
	pathRelocated string
	dotRelocated  string
	includes      []string
	excludes      []string
}

func compileRules(rules []types.Relocation) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		compiled = append(compiled, compiledRule{
			pathPattern:   strings.ReplaceAll(rule.Pattern(), ".", "/"),
			dotPattern:    rule.Pattern(),
			pathRelocated: strings.ReplaceAll(rule.RelocatedPattern(), ".", "/"),
			dotRelocated:  rule.RelocatedPattern(),
			includes:      rule.Includes(),
			excludes:      rule.Excludes(),
		})
	}
	return compiled
}

func (r compiledRule) pattern(sep byte) string {
	if sep == '/' {
		return r.pathPattern
	}
	return r.dotPattern
}

func (r compiledRule) replacement(sep byte) string {
	if sep == '/' {
		return r.pathRelocated
	}
	return r.dotRelocated
}

// applies checks a dotted name against the rule's include/exclude filters.
// Excludes always win; empty includes mean unfiltered.
func (r compiledRule) applies(dottedName string) bool {
	for _, exclude := range r.excludes {
		if matchesFilter(dottedName, exclude) {
			return false
		}
	}
	if len(r.includes) == 0 {
		return true
	}
	for _, include := range r.includes {
		if matchesFilter(dottedName, include) {
			return true
		}
	}
	return false
}

// matchesFilter supports exact names, dotted-prefix matching and trailing
// "*" wildcards, the filter dialect relocation tooling conventionally uses.
func matchesFilter(name string, filter string) bool {
	if trimmed, ok := strings.CutSuffix(filter, ".*"); ok {
		return name == trimmed || strings.HasPrefix(name, trimmed+".")
	}
	if trimmed, ok := strings.CutSuffix(filter, "*"); ok {
		return strings.HasPrefix(name, trimmed)
	}
	return name == filter || strings.HasPrefix(name, filter+".")
}

// rewriteEntryPath moves a slash-separated entry path under the replacement
// of the first rule whose pattern prefixes it and whose filters accept it.
func rewriteEntryPath(path string, rules []compiledRule) (string, bool) {
	for _, rule := range rules {
		if path != rule.pathPattern && !strings.HasPrefix(path, rule.pathPattern+"/") {
			continue
		}
		if !rule.applies(strings.ReplaceAll(path, "/", ".")) {
			continue
		}
		return rule.pathRelocated + path[len(rule.pathPattern):], true
	}
	return path, false
}

// rewriteOccurrences replaces pattern occurrences inside free-form text such
// as constant pool strings and manifest values. A match must end at a name
// boundary so longer sibling packages are left alone, and the full matched
// name must pass the rule's filters.
func rewriteOccurrences(s string, rules []compiledRule, sep byte) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		rule, ok := matchRuleAt(s, i, rules, sep)
		if !ok {
			b.WriteByte(s[i])
			i++
			continue
		}
		b.WriteString(rule.replacement(sep))
		i += len(rule.pattern(sep))
	}
	return b.String()
}

func matchRuleAt(s string, i int, rules []compiledRule, sep byte) (compiledRule, bool) {
	for _, rule := range rules {
		pattern := rule.pattern(sep)
		if !strings.HasPrefix(s[i:], pattern) {
			continue
		}
		end := i + len(pattern)
		if end < len(s) && s[end] != sep && isNameChar(s[end]) {
			continue
		}
		if !rule.applies(fullNameAt(s, i, sep)) {
			continue
		}
		return rule, true
	}
	return compiledRule{}, false
}

// fullNameAt extends the matched region through the rest of the qualified
// name and returns it in dotted form for filter evaluation.
func fullNameAt(s string, i int, sep byte) string {
	end := i
	for end < len(s) && (isNameChar(s[end]) || s[end] == sep) {
		end++
	}
	name := s[i:end]
	if sep == '/' {
		name = strings.ReplaceAll(name, "/", ".")
	}
	return name
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '$'
}

var _ ports.RelocatorPort = JarRelocatorAdapter{}
