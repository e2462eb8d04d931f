package textutil

import "strings"

// Collapse trims leading/trailing whitespace and collapses any run of two or
// more space characters into a single space. Only the space character is
// collapsed; other whitespace (e.g. newlines) is left as-is.
// Collapse is idempotent.
func Collapse(s string) string {
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))

	prev := rune(-1)
	for _, ch := range s {
		if ch == ' ' && prev == ' ' {
			continue
		}
		b.WriteRune(ch)
		prev = ch
	}

	return b.String()
}

// Clean normalizes raw extracted text: it drops every byte that is not
// printable ASCII (this removes control characters, newlines included, and any
// multi-byte sequences OCR tends to emit), then trims and collapses space runs
// via Collapse. Clean is idempotent.
func Clean(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c < 0x7F {
			b.WriteByte(c)
		}
	}

	return Collapse(b.String())
}

// CleanTitle normalizes a model-generated title. Literal '*' characters are an
// artifact of markdown emphasis in model output and are stripped before the
// whitespace pass, so CleanTitle stays idempotent.
func CleanTitle(s string) string {
	return Collapse(strings.ReplaceAll(s, "*", ""))
}
