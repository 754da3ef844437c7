// Package rules parses layer-map rule files: a small DSL that routes DXF
// layer names to board roles, replacing the keyword heuristics with explicit
// assignments.
//
// A rule file is a sequence of statements:
//
//	# board fab export, rev C
//	layer "BoardOutline" -> outline;
//	layer "Route_Int"    -> cutout;
//	layer "NPTH"         -> hole;
//
// Layer names match exactly. Roles are outline, cutout, hole, keepout,
// soldermask, or annotation.
package rules

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/board"
)

var ruleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},
	{Name: "KwLayer", Pattern: `\blayer\b`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Semicolon", Pattern: `;`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})

// RuleFile is the parsed form of a layer-map rule file.
type RuleFile struct {
	Rules []*Rule `parser:"@@*"`
}

// Rule maps one layer name to a role.
type Rule struct {
	Layer string `parser:"KwLayer @String Arrow"`
	Role  string `parser:"@Ident Semicolon"`
}

// Parser parses layer-map rule files.
type Parser struct {
	parser *participle.Parser[RuleFile]
}

// NewParser builds a rule-file parser.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[RuleFile](
		participle.Lexer(ruleLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse reads a rule file from a reader.
func (p *Parser) Parse(r io.Reader) (*RuleFile, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return file, nil
}

// ParseString parses a rule file from a string.
func (p *Parser) ParseString(input string) (*RuleFile, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return file, nil
}

// ParseFile parses the rule file at path.
func (p *Parser) ParseFile(path string) (*RuleFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	file, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

// LayerMap validates the parsed rules and builds the layer name to role
// mapping. Duplicate layer names and unknown roles are errors.
func (f *RuleFile) LayerMap() (map[string]board.Role, error) {
	layerMap := make(map[string]board.Role, len(f.Rules))
	for _, rule := range f.Rules {
		if !board.ValidRole(rule.Role) {
			return nil, fmt.Errorf("unknown role %q for layer %q", rule.Role, rule.Layer)
		}
		if _, dup := layerMap[rule.Layer]; dup {
			return nil, fmt.Errorf("duplicate rule for layer %q", rule.Layer)
		}
		layerMap[rule.Layer] = board.Role(rule.Role)
	}
	return layerMap, nil
}

// LoadFile parses the rule file at path and returns its layer map.
func LoadFile(path string) (map[string]board.Role, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return file.LayerMap()
}

// ParsePairs builds a layer map from inline LAYER=ROLE pairs, the
// command-line alternative to a rule file.
func ParsePairs(pairs []string) (map[string]board.Role, error) {
	layerMap := make(map[string]board.Role, len(pairs))
	for _, pair := range pairs {
		name, role, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid layer map entry (expected LAYER=ROLE): %q", pair)
		}
		if !board.ValidRole(role) {
			return nil, fmt.Errorf("unknown role %q for layer %q", role, name)
		}
		if _, dup := layerMap[name]; dup {
			return nil, fmt.Errorf("duplicate rule for layer %q", name)
		}
		layerMap[name] = board.Role(role)
	}
	return layerMap, nil
}
