package unmatcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtureOptionsValidate(t *testing.T) {
	valid := FixtureOptions{Pattern: `\d+`, Name: "Digits", Package: "fixtures", OutputFile: "digits.go"}

	tests := []struct {
		name    string
		mutate  func(*FixtureOptions)
		wantErr string
	}{
		{"valid", func(*FixtureOptions) {}, ""},
		{"lower case name", func(o *FixtureOptions) { o.Name = "digits" }, ""},
		{"empty pattern", func(o *FixtureOptions) { o.Pattern = "" }, "pattern cannot be empty"},
		{"empty name", func(o *FixtureOptions) { o.Name = "" }, "name cannot be empty"},
		{"dashed name", func(o *FixtureOptions) { o.Name = "my-name" }, ""},
		{"bad name", func(o *FixtureOptions) { o.Name = "---" }, "has no letters or digits"},
		{"empty output", func(o *FixtureOptions) { o.OutputFile = "" }, "output file cannot be empty"},
		{"empty package", func(o *FixtureOptions) { o.Package = "" }, "package cannot be empty"},
		{"keyword package", func(o *FixtureOptions) { o.Package = "func" }, "not a valid Go identifier"},
		{"negative count", func(o *FixtureOptions) { o.Count = -1 }, "count cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateFixture(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "email.go")

	err := GenerateFixture(FixtureOptions{
		Pattern:          `(?P<user>[a-z]{3,8})@example\.(com|org)`,
		Flags:            IgnoreCase,
		Name:             "email",
		Package:          "fixtures",
		OutputFile:       out,
		Count:            5,
		Seed:             42,
		GenerateTestFile: true,
	})
	require.NoError(t, err)

	src, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(src), "const EmailPattern = ")
	assert.Contains(t, string(src), "(?i:")
	assert.Contains(t, string(src), "const EmailOptions = regexp2.None")
	assert.NotContains(t, string(src), "regexp2.IgnoreCase")
	assert.Contains(t, string(src), "holds 5 strings")
	lower := strings.ToLower(string(src))
	assert.Equal(t, 5, strings.Count(lower, "@example.c")+strings.Count(lower, "@example.o"))

	_, err = os.Stat(filepath.Join(dir, "email_test.go"))
	assert.NoError(t, err)

	// same seed, same file
	again := filepath.Join(dir, "again.go")
	err = GenerateFixture(FixtureOptions{
		Pattern:    `(?P<user>[a-z]{3,8})@example\.(com|org)`,
		Flags:      IgnoreCase,
		Name:       "email",
		Package:    "fixtures",
		OutputFile: again,
		Count:      5,
		Seed:       42,
	})
	require.NoError(t, err)
	src2, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, string(src), string(src2))
}

func TestGenerateFixtureErrors(t *testing.T) {
	dir := t.TempDir()

	err := GenerateFixture(FixtureOptions{Pattern: "(", Name: "X", Package: "p", OutputFile: filepath.Join(dir, "x.go")})
	assert.ErrorIs(t, err, ErrMalformedPattern)

	err = GenerateFixture(FixtureOptions{Pattern: "a(?=b)", Name: "X", Package: "p", OutputFile: filepath.Join(dir, "x.go")})
	var uc *UnsupportedConstructError
	assert.ErrorAs(t, err, &uc)

	err = GenerateFixture(FixtureOptions{Pattern: "a", Name: "X"})
	assert.ErrorContains(t, err, "invalid options")
}
