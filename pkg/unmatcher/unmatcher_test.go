package unmatcher

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seeds = 200

var roundTripPatterns = []string{
	`\d{3}-\d{4}`,
	`[A-Z][a-z]+ [A-Z][a-z]+`,
	`(?P<user>[\w.+-]{1,12})@(?P<host>[a-z]{2,8})\.(com|org|net)`,
	`(\w+)-\1`,
	`(a|bc)*d?e+`,
	`[^abc]{5}`,
	`(?i)hello [a-f]{2}`,
	`(?i:abc)DEF`,
	`(?s).{3}`,
	`(x)?(?(1)y|z)`,
	`^\w+$`,
	`\bfoo\b`,
	`(?:ab|cd){2,4}`,
	`a*?b+?`,
	`[\s\S]{0,10}`,
	`[^\d\s]+`,
	`\x41é\t`,
	`(?P<q>['"]).*?(?P=q)`,
	`\Astart.*end\Z`,
	`(?x) [0-9]+ \. [0-9]+  # decimal`,
	`[a-c-]{3}|[]x]`,
	`(?i)[^a]{4}`,
	`((a)|b)+`,
}

func TestRoundTrip(t *testing.T) {
	for _, pattern := range roundTripPatterns {
		t.Run(pattern, func(t *testing.T) {
			p, err := Compile(pattern)
			require.NoError(t, err)

			for seed := int64(0); seed < seeds; seed++ {
				m, err := p.ReverseWith(Options{Rand: rand.New(rand.NewSource(seed))})
				require.NoError(t, err, "seed %d", seed)

				ok, err := p.Matches(m.String())
				require.NoError(t, err)
				assert.True(t, ok, "seed %d: %q does not match %s", seed, m.String(), pattern)
			}
		})
	}
}

func TestLiteralIdentity(t *testing.T) {
	for _, pattern := range []string{"", "abc", "Hello World", "x_1-2", "foo bar baz"} {
		got, err := Reverse(pattern)
		require.NoError(t, err)
		assert.Equal(t, pattern, got)
	}
}

func TestBackReferenceConsistency(t *testing.T) {
	p := MustCompile(`([a-z]{1,8})Y\1`)
	for seed := int64(0); seed < seeds; seed++ {
		m, err := p.ReverseWith(Options{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, err)

		x, ok := m.Group(1)
		require.True(t, ok)
		assert.Equal(t, x+"Y"+x, m.String())
	}
}

func TestPreSeededGroups(t *testing.T) {
	t.Run("positional", func(t *testing.T) {
		m, err := MustCompile(`(.*)Y`).ReverseWith(Options{Groups: []string{"hello"}})
		require.NoError(t, err)
		assert.Equal(t, "helloY", m.String())

		g, ok := m.Group(1)
		assert.True(t, ok)
		assert.Equal(t, "hello", g)
	})

	t.Run("reverse shorthand", func(t *testing.T) {
		got, err := Reverse(`(\d+)-(\d+)`, "12", "34")
		require.NoError(t, err)
		assert.Equal(t, "12-34", got)
	})

	t.Run("by name", func(t *testing.T) {
		p := MustCompile(`(?P<user>\w+)@(?P<host>\w+)`)
		m, err := p.ReverseWith(Options{NamedGroups: map[string]string{"host": "example"}})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(m.String(), "@example"))

		host, ok := m.NamedGroup("host")
		assert.True(t, ok)
		assert.Equal(t, "example", host)
	})

	t.Run("by decimal index", func(t *testing.T) {
		m, err := MustCompile(`(a+)(b+)`).ReverseWith(Options{NamedGroups: map[string]string{"2": "bb"}})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(m.String(), "bb"))
	})

	t.Run("value outside the group's language is kept", func(t *testing.T) {
		got, err := Reverse(`(\d+)`, "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", got)
	})

	t.Run("nested groups follow the seeded value", func(t *testing.T) {
		p := MustCompile(`((\d)x)\2`)
		for seed := int64(0); seed < 50; seed++ {
			m, err := p.ReverseWith(Options{Groups: []string{"5x"}, Rand: rand.New(rand.NewSource(seed))})
			require.NoError(t, err)
			require.Equal(t, "5x5", m.String(), "seed %d", seed)

			inner, ok := m.Group(2)
			assert.True(t, ok)
			assert.Equal(t, "5", inner)
		}
	})

	t.Run("nested groups of a value outside the language stay unset", func(t *testing.T) {
		m, err := MustCompile(`((\d)x)`).ReverseWith(Options{Groups: []string{"zz"}})
		require.NoError(t, err)
		assert.Equal(t, "zz", m.String())
		_, ok := m.Group(2)
		assert.False(t, ok)
	})
}

func TestMatchesHonoursScopedCase(t *testing.T) {
	p := MustCompile(`(?i)a(?-i:b)`)
	for input, want := range map[string]bool{"ab": true, "Ab": true, "aB": false, "AB": false} {
		ok, err := p.Matches(input)
		require.NoError(t, err)
		assert.Equal(t, want, ok, "Matches(%q)", input)
	}

	for seed := int64(0); seed < 20; seed++ {
		m, err := p.ReverseWith(Options{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, err)
		assert.Equal(t, "b", m.String()[1:], "seed %d", seed)
	}
}

func TestConditional(t *testing.T) {
	p := MustCompile(`(X)?((?(1)Y|Z))`)
	outcomes := map[string]bool{}
	for seed := int64(0); seed < seeds; seed++ {
		m, err := p.ReverseWith(Options{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, err)

		g1, set1 := m.Group(1)
		g2, _ := m.Group(2)
		if set1 {
			assert.Equal(t, "X", g1)
			assert.Equal(t, "Y", g2)
		} else {
			assert.Equal(t, "Z", g2)
		}
		outcomes[m.String()] = true
	}
	assert.Equal(t, map[string]bool{"XY": true, "Z": true}, outcomes)
}

func TestRepeatBound(t *testing.T) {
	tests := []struct {
		pattern  string
		min, max int
	}{
		{"a{2,100}", 2, 64},
		{"a*", 0, 64},
		{"a{3,5}", 3, 5},
		{"a{70}", 70, 70},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			p := MustCompile(tt.pattern)
			for seed := int64(0); seed < seeds; seed++ {
				got, err := p.ReverseWith(Options{Rand: rand.New(rand.NewSource(seed))})
				require.NoError(t, err)
				n := len(got.String())
				assert.GreaterOrEqual(t, n, tt.min)
				assert.LessOrEqual(t, n, tt.max)
			}
		})
	}
}

func TestLookaroundUnsupported(t *testing.T) {
	tests := []struct {
		pattern   string
		kind      string
		direction string
	}{
		{"abc(?=def)", "assert", "lookahead"},
		{"abc(?!def)", "assert_not", "lookahead"},
		{"(?<=abc)def", "assert", "lookbehind"},
		{"(?<!abc)def", "assert_not", "lookbehind"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Reverse(tt.pattern)
			require.Error(t, err)

			var uc *UnsupportedConstructError
			require.True(t, errors.As(err, &uc), "error %v", err)
			assert.Equal(t, tt.kind, uc.Kind)
			assert.Equal(t, tt.direction, uc.Direction)
		})
	}
}

func TestNegatedClassNeverYieldsMembers(t *testing.T) {
	p := MustCompile(`[^abc]`)
	for seed := int64(0); seed < 1000; seed++ {
		m, err := p.ReverseWith(Options{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, err)
		assert.NotContains(t, []string{"a", "b", "c"}, m.String())
	}
}

func TestErrors(t *testing.T) {
	t.Run("malformed pattern", func(t *testing.T) {
		_, err := Reverse("(abc")
		assert.ErrorIs(t, err, ErrMalformedPattern)

		var se *SyntaxError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "(abc", se.Pattern)
	})

	t.Run("too many positional values", func(t *testing.T) {
		_, err := Reverse("(a)", "x", "y")
		assert.ErrorIs(t, err, ErrInvalidGroupReference)
	})

	t.Run("unknown group name", func(t *testing.T) {
		_, err := MustCompile("(?P<a>x)").ReverseWith(Options{NamedGroups: map[string]string{"b": "v"}})
		assert.ErrorIs(t, err, ErrInvalidGroupReference)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := MustCompile("(x)").ReverseWith(Options{NamedGroups: map[string]string{"2": "v"}})
		assert.ErrorIs(t, err, ErrInvalidGroupReference)
	})

	t.Run("same group twice", func(t *testing.T) {
		_, err := MustCompile("(?P<a>x)").ReverseWith(Options{
			Groups:      []string{"one"},
			NamedGroups: map[string]string{"a": "two"},
		})
		assert.ErrorIs(t, err, ErrConflictingGroupValue)
	})

	t.Run("empty charset", func(t *testing.T) {
		_, err := Reverse(`(?s)[^\s\S]`)
		assert.ErrorIs(t, err, ErrEmptyCharset)
	})

	t.Run("back reference to unset group", func(t *testing.T) {
		_, err := MustCompile(`(a)|b\1`).ReverseWith(Options{NamedGroups: nil, Rand: rand.New(rand.NewSource(1))})
		if err != nil {
			assert.ErrorIs(t, err, ErrInvalidGroupReference)
		}
	})
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("a{2,1}") })
}

func TestPatternAccessors(t *testing.T) {
	p, err := CompileFlags(`(?s)(?P<first>a)(b)(?P<third>c)`, IgnoreCase)
	require.NoError(t, err)

	assert.Equal(t, `(?s)(?P<first>a)(b)(?P<third>c)`, p.String())
	assert.Equal(t, 3, p.NumGroups())
	assert.Equal(t, []string{"", "first", "", "third"}, p.SubexpNames())
	assert.Equal(t, 3, p.SubexpIndex("third"))
	assert.Equal(t, -1, p.SubexpIndex("second"))
	assert.True(t, p.Flags().Has(IgnoreCase|DotAll))
}

func TestMatchGroups(t *testing.T) {
	m, err := MustCompile(`(a)(?:x|(b))`).ReverseWith(Options{Groups: []string{"a"}, NamedGroups: map[string]string{}})
	require.NoError(t, err)

	groups := m.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, m.String(), groups[0])
	assert.Equal(t, "a", groups[1])

	_, ok := m.Group(3)
	assert.False(t, ok)
	_, ok = m.NamedGroup("missing")
	assert.False(t, ok)
}

func TestDeterministic(t *testing.T) {
	p := MustCompile(`(?P<user>[\w.]{1,12})@(?P<host>[a-z]{2,8})\.(com|org)`)
	for seed := int64(0); seed < 20; seed++ {
		a, err := p.ReverseWith(Options{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, err)
		b, err := p.ReverseWith(Options{Rand: rand.New(rand.NewSource(seed))})
		require.NoError(t, err)
		assert.Equal(t, a.String(), b.String())
	}
}

func TestConcurrentUse(t *testing.T) {
	p := MustCompile(`(\w{1,4})=\1`)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s, err := p.Reverse()
				if !assert.NoError(t, err) {
					return
				}
				ok, err := p.Matches(s)
				assert.NoError(t, err)
				assert.True(t, ok, s)
			}
		}()
	}
	wg.Wait()
}

func TestVerboseLogging(t *testing.T) {
	var buf bytes.Buffer
	_, err := MustCompile(`a|b`).ReverseWith(Options{Verbose: true, Logger: &buf})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "[unmatcher] === Generate ===")
	assert.Contains(t, out, "[unmatcher] Pattern: a|b")
	assert.Contains(t, out, "[unmatcher] branch: alternative")
}

func TestQuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	_, err := MustCompile(`a|b`).ReverseWith(Options{Logger: &buf})
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
