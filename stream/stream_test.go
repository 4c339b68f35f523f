package stream

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func counter() func() (string, error) {
	i := 0
	return func() (string, error) {
		i++
		return fmt.Sprintf("s%d", i), nil
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Count != DefaultCount {
		t.Errorf("DefaultConfig().Count = %d, want %d", cfg.Count, DefaultCount)
	}
	if cfg.Separator != "\n" {
		t.Errorf("DefaultConfig().Separator = %q, want newline", cfg.Separator)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero config", Config{}, false},
		{"unbounded", Config{Count: -1}, false},
		{"byte limit", Config{MaxBytes: 10}, false},
		{"negative byte limit", Config{MaxBytes: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			var invalid ErrInvalidConfig
			if tt.wantErr && !errors.As(err, &invalid) {
				t.Errorf("Validate() error = %T, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	got := Config{Count: -1}.ApplyDefaults()
	if got.Count != -1 || got.Separator != "" {
		t.Errorf("ApplyDefaults() = %+v", got)
	}

	got = Config{Separator: ","}.ApplyDefaults()
	if got.Count != DefaultCount || got.Separator != "," {
		t.Errorf("ApplyDefaults() = %+v", got)
	}
}

func TestReader(t *testing.T) {
	r := NewReader(counter(), Config{Count: 3, Separator: ";"})
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(out) != "s1;s2;s3;" {
		t.Errorf("ReadAll() = %q", out)
	}
	if r.Count() != 3 {
		t.Errorf("Count() = %d, want 3", r.Count())
	}
}

func TestReaderWithoutSeparator(t *testing.T) {
	r := NewReader(counter(), Config{Count: 3})
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(out) != "s1s2s3" {
		t.Errorf("ReadAll() = %q", out)
	}
}

func TestReaderEmptySamplesWithoutSeparator(t *testing.T) {
	calls := 0
	r := NewReader(func() (string, error) {
		calls++
		return "", nil
	}, Config{Count: 5})
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(out) != 0 || calls != 5 || r.Count() != 5 {
		t.Errorf("ReadAll() = %q after %d calls, Count() = %d", out, calls, r.Count())
	}
}

func TestReaderSmallReads(t *testing.T) {
	r := NewReader(counter(), Config{Count: 4, Separator: "\n"})
	out, err := io.ReadAll(iotest.OneByteReader(r))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(out) != "s1\ns2\ns3\ns4\n" {
		t.Errorf("ReadAll() = %q", out)
	}
}

func TestReaderUnbounded(t *testing.T) {
	r := NewReader(counter(), Config{Count: -1, Separator: "\n"})
	out, err := io.ReadAll(io.LimitReader(r, 1000))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(out) != 1000 {
		t.Errorf("read %d bytes, want 1000", len(out))
	}
	if !strings.HasPrefix(string(out), "s1\ns2\n") {
		t.Errorf("stream starts with %q", out[:10])
	}
}

func TestReaderMaxBytes(t *testing.T) {
	r := NewReader(counter(), Config{Count: -1, Separator: "\n", MaxBytes: 7})
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(out) != "s1\ns2\ns" {
		t.Errorf("ReadAll() = %q", out)
	}
}

func TestReaderGeneratorError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	r := NewReader(func() (string, error) {
		calls++
		if calls == 3 {
			return "", boom
		}
		return "ok", nil
	}, DefaultConfig())

	out, err := io.ReadAll(r)
	if !errors.Is(err, boom) {
		t.Fatalf("ReadAll() error = %v, want boom", err)
	}
	if string(out) != "ok\nok\n" {
		t.Errorf("ReadAll() = %q", out)
	}
	if _, err := r.Read(make([]byte, 8)); !errors.Is(err, boom) {
		t.Errorf("Read() after failure = %v, want boom", err)
	}
}

func TestReaderEmptyBuffer(t *testing.T) {
	r := NewReader(counter(), Config{Count: 1})
	if n, err := r.Read(nil); n != 0 || err != nil {
		t.Errorf("Read(nil) = %d, %v", n, err)
	}
	if r.Count() != 0 {
		t.Errorf("Read(nil) produced a sample")
	}
}
