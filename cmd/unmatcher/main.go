// Command unmatcher prints strings that match a regular expression, or
// writes them to a Go fixture file.
//
// Usage:
//
//	unmatcher [flags] PATTERN
//	unmatcher -n 5 -format '$user at $host' '(?P<user>\w+)@(?P<host>\w+)\.com'
//	unmatcher -output email_fixture.go -name Email -package fixtures -test '\w+@\w+\.com'
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/KromDaniel/unmatcher/format"
	"github.com/KromDaniel/unmatcher/pkg/unmatcher"
	"github.com/KromDaniel/unmatcher/stream"
)

// arrayFlags collects every occurrence of a repeatable flag.
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

type config struct {
	pattern   string
	count     int
	seed      int64
	seedSet   bool
	flags     unmatcher.Flags
	groups    arrayFlags
	named     map[string]string
	format    string
	separator string
	verify    bool
	verbose   bool

	output   string
	pkg      string
	name     string
	testFile bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "unmatcher: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("unmatcher", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := &config{}
	var (
		named              arrayFlags
		ignoreCase, dotAll bool
	)
	fs.StringVar(&cfg.pattern, "pattern", "", "pattern to generate strings for (or pass it as the first argument)")
	fs.IntVar(&cfg.count, "n", 1, "number of strings to generate; negative for an endless stream")
	fs.Int64Var(&cfg.seed, "seed", 0, "random seed (default: current time)")
	fs.BoolVar(&ignoreCase, "i", false, "case-insensitive matching")
	fs.BoolVar(&dotAll, "s", false, "dot matches newline")
	fs.Var(&cfg.groups, "group", "value for the next capture group (repeatable)")
	fs.Var(&named, "named", "name=value for a capture group by name or index (repeatable)")
	fs.StringVar(&cfg.format, "format", "", "output template, e.g. '$1:${name}' ($0 is the whole string)")
	fs.StringVar(&cfg.separator, "sep", "\n", "separator written after every string")
	fs.BoolVar(&cfg.verify, "verify", false, "check every string against regexp2 before printing it")
	fs.BoolVar(&cfg.verbose, "verbose", false, "log every random decision to stderr")
	fs.StringVar(&cfg.output, "output", "", "write a Go fixture file instead of printing")
	fs.StringVar(&cfg.pkg, "package", "main", "package name for the fixture file")
	fs.StringVar(&cfg.name, "name", "Fixture", "declaration prefix for the fixture file")
	fs.BoolVar(&cfg.testFile, "test", false, "also write a test file checking the fixture")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.seedSet = true
		}
	})

	if cfg.pattern == "" {
		if fs.NArg() != 1 {
			fs.Usage()
			return nil, fmt.Errorf("expected exactly one pattern")
		}
		cfg.pattern = fs.Arg(0)
	} else if fs.NArg() != 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if ignoreCase {
		cfg.flags |= unmatcher.IgnoreCase
	}
	if dotAll {
		cfg.flags |= unmatcher.DotAll
	}

	cfg.named = make(map[string]string, len(named))
	for _, kv := range named {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("-named %q: want name=value", kv)
		}
		cfg.named[k] = v
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if !cfg.seedSet {
		cfg.seed = time.Now().UnixNano()
	}

	if cfg.output != "" {
		return writeFixture(cfg)
	}

	p, err := unmatcher.CompileFlags(cfg.pattern, cfg.flags)
	if err != nil {
		return err
	}

	var tmpl *format.Template
	if cfg.format != "" {
		tmpl, err = format.Parse(cfg.format)
		if err != nil {
			return fmt.Errorf("invalid -format: %w", err)
		}
		if err := tmpl.Validate(p.NumGroups(), groupIndex(p)); err != nil {
			return fmt.Errorf("invalid -format: %w", err)
		}
	}

	opts := unmatcher.Options{
		Groups:      cfg.groups,
		NamedGroups: cfg.named,
		Rand:        rand.New(rand.NewSource(cfg.seed)),
		Verbose:     cfg.verbose,
		Logger:      stderr,
	}
	next := func() (string, error) {
		m, err := p.ReverseWith(opts)
		if err != nil {
			return "", err
		}
		if cfg.verify {
			ok, err := p.Matches(m.String())
			if err != nil {
				return "", err
			}
			if !ok {
				return "", fmt.Errorf("generated %q does not match", m.String())
			}
		}
		if tmpl != nil {
			return tmpl.Expand(m.Groups()), nil
		}
		return m.String(), nil
	}

	count := cfg.count
	if count == 0 {
		return nil
	}
	r := stream.NewReader(next, stream.Config{Count: count, Separator: cfg.separator})
	_, err = io.Copy(stdout, r)
	return err
}

func writeFixture(cfg *config) error {
	count := cfg.count
	if count < 1 {
		return fmt.Errorf("-n must be positive when writing a fixture")
	}
	return unmatcher.GenerateFixture(unmatcher.FixtureOptions{
		Pattern:          cfg.pattern,
		Flags:            cfg.flags,
		Name:             cfg.name,
		Package:          cfg.pkg,
		OutputFile:       cfg.output,
		Count:            count,
		Seed:             cfg.seed,
		GenerateTestFile: cfg.testFile,
	})
}

// groupIndex maps every named group of p to its number.
func groupIndex(p *unmatcher.Pattern) map[string]int {
	names := make(map[string]int)
	for i, name := range p.SubexpNames() {
		if name != "" {
			names[name] = i
		}
	}
	return names
}
