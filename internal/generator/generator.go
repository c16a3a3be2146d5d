package generator

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"implgen/internal/models"
	"implgen/internal/resolver"
)

// member templates fix the exact stub layout: one blank line before each
// member, tab indentation, no trailing whitespace
const (
	constructorTemplate = "\n\n\t{{.Modifiers}}{{.Name}}({{.Params}}){{.Throws}} {\n\t\tsuper({{.Args}});\n\t}"
	methodTemplate      = "\n\n\t{{.Modifiers}}{{.Return}} {{.Name}}({{.Params}}){{.Throws}} {\n{{.Body}}\t}"
)

var (
	constructorTmpl = template.Must(template.New("constructor").Parse(constructorTemplate))
	methodTmpl      = template.Must(template.New("method").Parse(methodTemplate))
)

// memberData feeds one constructor or method into its template
type memberData struct {
	Modifiers string // modifier keywords including a trailing space, or empty
	Return    string // canonical return type, methods only
	Name      string // member name, the stub class name for constructors
	Params    string // rendered parameter list
	Throws    string // rendered throws clause, or empty
	Args      string // argument names for the super call, constructors only
	Body      string // rendered return statement, or empty
}

// Generate renders the stub source for a resolution. Constructors come first
// in declaration order, then methods in key order. Final and private
// survivors are never written.
func Generate(res *resolver.Resolution) (*models.GeneratedSource, error) {
	target := res.Target
	implName := target.SimpleName + "Impl"

	var b strings.Builder
	if target.Package != "" {
		b.WriteString("package " + target.Package + ";\n\n")
	}
	b.WriteString("public class " + implName)
	if target.Kind == models.KindInterface {
		b.WriteString(" implements ")
	} else {
		b.WriteString(" extends ")
	}
	b.WriteString(target.Name + " {")

	for _, ctor := range res.Constructors {
		data := memberData{
			Modifiers: modifierString(ctor.Visibility, false),
			Name:      implName,
			Params:    parameterList(ctor.Params),
			Throws:    throwsClause(ctor.Exceptions),
			Args:      argumentList(len(ctor.Params)),
		}
		if err := constructorTmpl.Execute(&b, data); err != nil {
			return nil, fmt.Errorf("failed to render constructor of %s: %w", implName, err)
		}
	}

	for _, m := range res.Methods {
		if m.Final || m.Visibility == models.VisibilityPrivate {
			continue
		}
		data := memberData{
			Modifiers: modifierString(m.Visibility, m.Static),
			Return:    m.Return,
			Name:      m.Name,
			Params:    parameterList(m.Params),
			Throws:    throwsClause(m.Exceptions),
			Body:      defaultReturn(m.Return),
		}
		if err := methodTmpl.Execute(&b, data); err != nil {
			return nil, fmt.Errorf("failed to render method %s: %w", m.Name, err)
		}
	}

	b.WriteString("\n}")

	typeName := implName
	if target.Package != "" {
		typeName = target.Package + "." + implName
	}

	return &models.GeneratedSource{
		TypeName:    typeName,
		PackageName: target.Package,
		FilePath:    sourcePath(target),
		Content:     b.String(),
	}, nil
}

// sourcePath computes the source file location relative to the output root
func sourcePath(target *models.TypeDescriptor) string {
	var parts []string
	if target.Package != "" {
		parts = strings.Split(target.Package, ".")
	}
	parts = append(parts, target.SimpleName+"Impl.java")
	return filepath.Join(parts...)
}

// modifierString renders the emitted modifier keywords. Only public and
// protected carry a keyword, package-private members rely on the stub living
// in the same package.
func modifierString(v models.Visibility, static bool) string {
	var b strings.Builder
	if kw := v.Keyword(); kw != "" {
		b.WriteString(kw)
		b.WriteString(" ")
	}
	if static {
		b.WriteString("static ")
	}
	return b.String()
}

// parameterList renders fresh positional parameter names for the given types
func parameterList(params []string) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s arg%d", p, i+1)
	}
	return strings.Join(parts, ", ")
}

// argumentList renders the names parameterList introduced, for the super call
func argumentList(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("arg%d", i+1)
	}
	return strings.Join(parts, ", ")
}

// throwsClause renders the declared exceptions, or nothing
func throwsClause(exceptions []string) string {
	if len(exceptions) == 0 {
		return ""
	}
	return " throws " + strings.Join(exceptions, ", ")
}

// defaultReturn renders the body statement for a method: false for boolean,
// zero for the remaining primitives, null for references, nothing for void
func defaultReturn(ret string) string {
	switch {
	case ret == "void":
		return ""
	case ret == "boolean":
		return "\t\treturn false;\n"
	case models.IsPrimitiveName(ret):
		return "\t\treturn 0;\n"
	default:
		return "\t\treturn null;\n"
	}
}
