package ast

// Walk calls fn for every node of seq, parents before children.
func Walk(seq Sequence, fn func(Node)) {
	for _, n := range seq {
		fn(n)
		switch n := n.(type) {
		case *Branch:
			for _, alt := range n.Alternatives {
				Walk(alt, fn)
			}
		case *Repeat:
			Walk(n.Body, fn)
		case *Group:
			Walk(n.Body, fn)
		case *GroupRefExists:
			Walk(n.Yes, fn)
			Walk(n.No, fn)
		case *Assertion:
			Walk(n.Body, fn)
		}
	}
}

// CaptureCount returns the number of capture groups nested in seq.
func CaptureCount(seq Sequence) int {
	count := 0
	Walk(seq, func(n Node) {
		if g, ok := n.(*Group); ok && g.Capturing() {
			count++
		}
	})
	return count
}
