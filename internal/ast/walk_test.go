package ast

import "testing"

func TestWalkVisitsEveryNode(t *testing.T) {
	inner := &Group{Index: 2, Body: Sequence{&Literal{Char: 'b'}}}
	seq := Sequence{
		&Group{Index: 1, Body: Sequence{
			&Literal{Char: 'a'},
			&Repeat{Min: 0, Max: 1, Body: Sequence{inner}},
		}},
		&Branch{Alternatives: []Sequence{{&Literal{Char: 'c'}}, {&GroupRef{Index: 2}}}},
		&GroupRefExists{Index: 1, Yes: Sequence{&Literal{Char: 'd'}}, No: nil},
		&Assertion{Kind: Lookahead, Body: Sequence{&Group{Body: Sequence{&AnyChar{}}}}},
	}

	var visited int
	Walk(seq, func(Node) { visited++ })
	if visited != 13 {
		t.Errorf("Walk visited %d nodes, want 13", visited)
	}
}

func TestCaptureCount(t *testing.T) {
	tests := []struct {
		name string
		seq  Sequence
		want int
	}{
		{"empty", nil, 0},
		{"non-capturing", Sequence{&Group{Body: Sequence{&Literal{Char: 'a'}}}}, 0},
		{"nested", Sequence{&Group{Index: 1, Body: Sequence{&Group{Index: 2}, &Group{Index: 3}}}}, 3},
		{"inside repeat", Sequence{&Repeat{Min: 1, Max: Unbounded, Body: Sequence{&Group{Index: 1}}}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CaptureCount(tt.seq); got != tt.want {
				t.Errorf("CaptureCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
