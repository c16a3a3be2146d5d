package classfile

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// methodSig represents the grammar root for a JVM method descriptor
// such as "(ILjava/lang/String;)V"
type methodSig struct {
	Params []typeSig `parser:"LParen @@* RParen"`
	Return typeSig   `parser:"@@"`
}

// typeSig represents one type inside a descriptor
type typeSig struct {
	Dims   []string `parser:"@Array*"`
	Object string   `parser:"( @Object"`
	Prim   string   `parser:"| @Prim"`
	Void   string   `parser:"| @Void )"`
}

var descriptorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Array", Pattern: `\[`},
	{Name: "Object", Pattern: `L[^;]+;`},
	{Name: "Void", Pattern: `V`},
	{Name: "Prim", Pattern: `[BCDFIJSZ]`},
})

var (
	methodParser = participle.MustBuild[methodSig](participle.Lexer(descriptorLexer))
	typeParser   = participle.MustBuild[typeSig](participle.Lexer(descriptorLexer))
)

// primitiveByTag maps JVM base type characters to Java source names
var primitiveByTag = map[string]string{
	"B": "byte", "C": "char", "D": "double", "F": "float",
	"I": "int", "J": "long", "S": "short", "Z": "boolean",
}

// canonical renders the parsed type as a Java source level name
func (t typeSig) canonical() (string, error) {
	var base string
	switch {
	case t.Object != "":
		base = dotted(strings.TrimSuffix(strings.TrimPrefix(t.Object, "L"), ";"))
	case t.Prim != "":
		base = primitiveByTag[t.Prim]
	case t.Void != "":
		if len(t.Dims) > 0 {
			return "", fmt.Errorf("array of void")
		}
		base = "void"
	default:
		return "", fmt.Errorf("empty type")
	}
	return base + strings.Repeat("[]", len(t.Dims)), nil
}

// ParseMethodDescriptor translates a JVM method descriptor into canonical
// parameter and return type names
func ParseMethodDescriptor(desc string) (params []string, ret string, err error) {
	sig, err := methodParser.ParseString("", desc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse method descriptor %q: %w", desc, err)
	}

	for _, p := range sig.Params {
		if p.Void != "" {
			return nil, "", fmt.Errorf("void parameter in method descriptor %q", desc)
		}
		name, err := p.canonical()
		if err != nil {
			return nil, "", fmt.Errorf("method descriptor %q: %w", desc, err)
		}
		params = append(params, name)
	}

	ret, err = sig.Return.canonical()
	if err != nil {
		return nil, "", fmt.Errorf("method descriptor %q: %w", desc, err)
	}
	return params, ret, nil
}

// ParseTypeDescriptor translates a single JVM type descriptor such as
// "[Ljava/lang/String;" into its canonical name
func ParseTypeDescriptor(desc string) (string, error) {
	sig, err := typeParser.ParseString("", desc)
	if err != nil {
		return "", fmt.Errorf("failed to parse type descriptor %q: %w", desc, err)
	}
	return sig.canonical()
}

// CanonicalName converts a JVM internal name such as "java/util/Map$Entry"
// into the dotted source form. Array classes arrive in descriptor form and
// go through the descriptor grammar instead.
func CanonicalName(internal string) string {
	if strings.HasPrefix(internal, "[") {
		if name, err := ParseTypeDescriptor(internal); err == nil {
			return name
		}
	}
	return dotted(internal)
}

// dotted rewrites package and nesting separators to source-level dots
func dotted(internal string) string {
	s := strings.ReplaceAll(internal, "/", ".")
	return strings.ReplaceAll(s, "$", ".")
}
