package textproc

import "testing"

func TestNormalizeMathDoubleEscape(t *testing.T) {
	if got := NormalizeMath(`\\frac{1}{2}`); got != `\frac{1}{2}` {
		t.Errorf("got %q, want %q", got, `\frac{1}{2}`)
	}
	// Deeper over-escaping collapses in one pass.
	if got := NormalizeMath(`\\\\sqrt{2}`); got != `\sqrt{2}` {
		t.Errorf("got %q, want %q", got, `\sqrt{2}`)
	}
}

func TestNormalizeMathDelimiters(t *testing.T) {
	cases := []struct{ in, want string }{
		{`\(x+1\)`, `$x+1$`},
		{`\[x^2\]`, `$$x^2$$`},
		{`\( a + b \)`, `$a + b$`},
		{"$  x + 1  $", "$x + 1$"},
		{"$$ E = mc^2 $$", "$$E = mc^2$$"},
	}
	for _, c := range cases {
		if got := NormalizeMath(c.in); got != c.want {
			t.Errorf("NormalizeMath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeMathAutoWrap(t *testing.T) {
	cases := []struct{ in, want string }{
		{"x^2", "$x^{2}$"},
		{"2^10", "$2^{10}$"},
		{"y_1", "$y_{1}$"},
		{"sqrt(16)", `$\sqrt{16}$`},
		{"sin(x)", `$\sin(x)$`},
		{"log(100)", `$\log(100)$`},
		{"a = 5.", "$a = 5$."},
		{"the result is x = 2y + 4, so", "the result is $x = 2y + 4$, so"},
	}
	for _, c := range cases {
		if got := NormalizeMath(c.in); got != c.want {
			t.Errorf("NormalizeMath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeMathLeavesProseAlone(t *testing.T) {
	cases := []string{
		"I = was there.",
		"the answer = what you make of it.",
		"meet at noon",
	}
	for _, s := range cases {
		if got := NormalizeMath(s); got != s {
			t.Errorf("prose altered: NormalizeMath(%q) = %q", s, got)
		}
	}
}

func TestNormalizeMathSkipsEscaped(t *testing.T) {
	// Already-written LaTeX control sequences are not re-wrapped.
	cases := []string{
		`\sin(x)`,
		`\log(n)`,
	}
	for _, s := range cases {
		if got := NormalizeMath(s); got != s {
			t.Errorf("escaped form altered: NormalizeMath(%q) = %q", s, got)
		}
	}
}

func TestNormalizeMathPreservesDelimited(t *testing.T) {
	cases := []string{
		"$x^2$",
		"$$\\frac{a}{b}$$",
		"$\\sqrt{b^2 - 4ac}$",
	}
	for _, s := range cases {
		if got := NormalizeMath(s); got != s {
			t.Errorf("delimited math altered: NormalizeMath(%q) = %q", s, got)
		}
	}
}

func TestNormalizeMathStrayDollar(t *testing.T) {
	cases := []struct{ in, want string }{
		{"costs $5 and x^2", "costs $5 and $x^{2}$"},
		{"I paid $3 for it. Then take sqrt(16).", `I paid $3 for it. Then take $\sqrt{16}$.`},
		{"just $20, nothing else", "just $20, nothing else"},
	}
	for _, c := range cases {
		got := NormalizeMath(c.in)
		if got != c.want {
			t.Errorf("NormalizeMath(%q) = %q, want %q", c.in, got, c.want)
		}
		if again := NormalizeMath(got); again != got {
			t.Errorf("not idempotent for %q: %q != %q", c.in, again, got)
		}
	}
}

func TestNormalizeMathIdempotent(t *testing.T) {
	samples := []string{
		`\\frac{1}{2} over \(x+1\) and x^2`,
		"a = 5. Then sqrt(16) gives 4.",
		"plain prose with no math at all",
		`\[x^2 + y^2 = r^2\]`,
	}
	for _, s := range samples {
		once := NormalizeMath(s)
		if twice := NormalizeMath(once); twice != once {
			t.Errorf("not idempotent for %q: %q != %q", s, twice, once)
		}
	}
}
