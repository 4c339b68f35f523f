package unmatcher

import (
	"fmt"
	"math/rand"

	"github.com/KromDaniel/unmatcher/internal/codegen"
	"github.com/KromDaniel/unmatcher/internal/fixture"
	"github.com/KromDaniel/unmatcher/internal/verify"
)

// DefaultFixtureCount is the number of samples a fixture holds when
// FixtureOptions.Count is zero.
const DefaultFixtureCount = 10

// FixtureOptions configures GenerateFixture.
type FixtureOptions struct {
	// Pattern is the pattern to generate samples for
	Pattern string

	// Flags are applied when compiling Pattern
	Flags Flags

	// Name is the prefix of the generated declarations (e.g., "Email" generates "EmailSamples").
	// It is turned into an exported identifier, so "iso-date" becomes "IsoDate".
	Name string

	// Package is the Go package name for the generated code
	Package string

	// OutputFile is the path where generated code will be written
	OutputFile string

	// Count is the number of samples to generate (default: DefaultFixtureCount)
	Count int

	// Seed makes the samples reproducible
	Seed int64

	// GenerateTestFile also writes a test asserting every sample matches the pattern under regexp2
	GenerateTestFile bool
}

// Validate checks if the options are valid.
func (o FixtureOptions) Validate() error {
	if o.Pattern == "" {
		return fmt.Errorf("pattern cannot be empty")
	}
	if o.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if codegen.Identifier(o.Name) == "" {
		return fmt.Errorf("name %q has no letters or digits", o.Name)
	}
	if o.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if o.Package == "" {
		return fmt.Errorf("package cannot be empty")
	}
	if !codegen.IsIdentifier(o.Package) {
		return fmt.Errorf("package %q is not a valid Go identifier", o.Package)
	}
	if o.Count < 0 {
		return fmt.Errorf("count cannot be negative")
	}
	return nil
}

// GenerateFixture writes a Go file holding samples generated for a pattern.
// Every sample is checked against regexp2 before anything is written.
func GenerateFixture(opts FixtureOptions) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	p, err := CompileFlags(opts.Pattern, opts.Flags)
	if err != nil {
		return err
	}
	m, err := verify.New(p.ast)
	if err != nil {
		return fmt.Errorf("failed to compile matcher: %w", err)
	}

	count := opts.Count
	if count == 0 {
		count = DefaultFixtureCount
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	samples := make([]string, 0, count)
	for len(samples) < count {
		match, err := p.ReverseWith(Options{Rand: rng})
		if err != nil {
			return err
		}
		s := match.String()
		ok, err := m.Match(s)
		if err != nil {
			return fmt.Errorf("failed to verify sample %q: %w", s, err)
		}
		if !ok {
			return fmt.Errorf("sample %q does not match %s", s, m.Expr())
		}
		samples = append(samples, s)
	}

	cfg := fixture.Config{
		Pattern:          opts.Pattern,
		Flags:            p.Flags(),
		Name:             codegen.Identifier(opts.Name),
		Package:          opts.Package,
		OutputFile:       opts.OutputFile,
		Expr:             m.Expr(),
		Samples:          samples,
		Seed:             opts.Seed,
		GenerateTestFile: opts.GenerateTestFile,
	}
	if err := fixture.Write(cfg); err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	return nil
}
