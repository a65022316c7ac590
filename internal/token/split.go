package token

import "strings"

// Split breaks a line into ordered argument tokens. Double quotes group
// words into a single token and are stripped from the result. An
// unterminated quote consumes the rest of the line.
func Split(s string) []string {
	var (
		out      []string
		cur      strings.Builder
		inQuote  bool
		hasToken bool
	)

	flush := func() {
		if hasToken {
			out = append(out, cur.String())
			cur.Reset()
			hasToken = false
		}
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			// An empty quoted pair still yields a token.
			hasToken = true
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	flush()
	return out
}

// Raw converts raw text tokens to string-tagged values.
func Raw(tokens []string) []Value {
	out := make([]Value, len(tokens))
	for i, t := range tokens {
		out[i] = NewString(t)
	}
	return out
}

// Texts renders values back to their textual form, one string per value.
func Texts(vs []Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Text()
	}
	return out
}
