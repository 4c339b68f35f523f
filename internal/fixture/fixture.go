// Package fixture writes generated samples out as Go source, so tests can
// depend on a fixed corpus of strings known to match a pattern.
package fixture

import (
	"fmt"
	"go/format"
	"os"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/KromDaniel/unmatcher/internal/ast"
	"github.com/KromDaniel/unmatcher/internal/codegen"
)

// Config holds everything needed to emit one fixture file.
type Config struct {
	Pattern    string
	Flags      ast.Flags
	Name       string
	Package    string
	OutputFile string

	// Expr is the pattern rendered for regexp2.
	Expr    string
	Samples []string
	Seed    int64

	GenerateTestFile bool
}

// TestFilePath returns the path of the test file written next to output.
func TestFilePath(output string) string {
	return strings.TrimSuffix(output, ".go") + "_test.go"
}

// Write emits the fixture file and, when requested, its test file.
func Write(cfg Config) error {
	f := jen.NewFile(cfg.Package)
	f.HeaderComment(fmt.Sprintf("Code generated by unmatcher for pattern: %s", oneLine(cfg.Pattern)))
	f.HeaderComment("DO NOT EDIT.")

	pattern := codegen.DeclName(cfg.Name, codegen.PatternSuffix)
	matcher := codegen.DeclName(cfg.Name, codegen.MatcherSuffix)
	options := codegen.DeclName(cfg.Name, codegen.OptionsSuffix)
	samples := codegen.DeclName(cfg.Name, codegen.SamplesSuffix)

	f.Commentf("%s is the pattern the samples were generated from.", pattern)
	f.Const().Id(pattern).Op("=").Lit(cfg.Pattern)
	f.Line()

	f.Commentf("%s is %s rendered for regexp2.", matcher, pattern)
	f.Const().Id(matcher).Op("=").Lit(cfg.Expr)
	f.Line()

	f.Commentf("%s are the regexp2 options equivalent to the pattern flags.", options)
	f.Const().Id(options).Op("=").Add(optionsCode(cfg.Flags))
	f.Line()

	f.Commentf("%s holds %d strings matching %s (seed %d).", samples, len(cfg.Samples), pattern, cfg.Seed)
	f.Var().Id(samples).Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, s := range cfg.Samples {
			g.Line().Lit(s)
		}
		g.Line()
	})

	if err := f.Save(cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	if err := formatFile(cfg.OutputFile); err != nil {
		return fmt.Errorf("failed to format file: %w", err)
	}

	if cfg.GenerateTestFile {
		if err := writeTestFile(cfg, pattern, matcher, options, samples); err != nil {
			return fmt.Errorf("failed to generate test file: %w", err)
		}
	}
	return nil
}

func writeTestFile(cfg Config, pattern, matcher, options, samples string) error {
	f := jen.NewFile(cfg.Package)
	f.HeaderComment("Code generated by unmatcher. DO NOT EDIT.")

	f.Func().Id(codegen.TestName(cfg.Name, "Samples")).
		Params(jen.Id("t").Op("*").Qual("testing", "T")).
		Block(
			jen.Id("re").Op(":=").Qual(codegen.Regexp2Path, "MustCompile").Call(jen.Id(matcher), jen.Id(options)),
			jen.For(jen.List(jen.Id("_"), jen.Id("s")).Op(":=").Range().Id(samples)).Block(
				jen.List(jen.Id("ok"), jen.Err()).Op(":=").Id("re").Dot("MatchString").Call(jen.Id("s")),
				jen.If(jen.Err().Op("!=").Nil()).Block(
					jen.Id("t").Dot("Fatalf").Call(jen.Lit("match %q: %v"), jen.Id("s"), jen.Err()),
				),
				jen.If(jen.Op("!").Id("ok")).Block(
					jen.Id("t").Dot("Errorf").Call(jen.Lit("%q does not match %s"), jen.Id("s"), jen.Id(pattern)),
				),
			),
		)

	path := TestFilePath(cfg.OutputFile)
	if err := f.Save(path); err != nil {
		return err
	}
	return formatFile(path)
}

// optionsCode builds a regexp2.RegexOptions expression for flags. Case
// folding is already scoped inside the matcher expression.
func optionsCode(flags ast.Flags) *jen.Statement {
	var names []string
	if flags.Has(ast.Multiline) {
		names = append(names, "Multiline")
	}
	if flags.Has(ast.DotAll) {
		names = append(names, "Singleline")
	}
	if len(names) == 0 {
		return jen.Qual(codegen.Regexp2Path, "None")
	}

	stmt := jen.Qual(codegen.Regexp2Path, names[0])
	for _, name := range names[1:] {
		stmt = stmt.Op("|").Qual(codegen.Regexp2Path, name)
	}
	return stmt
}

func oneLine(s string) string {
	return strings.NewReplacer("\n", `\n`, "\r", `\r`).Replace(s)
}

// formatFile reads a file, formats it with go/format, and writes it back.
func formatFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	formatted, err := format.Source(src)
	if err != nil {
		return err
	}

	return os.WriteFile(path, formatted, 0644)
}
