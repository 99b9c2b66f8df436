// Package normalize provides the single tokenization rule shared by every
// indexing and query path in goat-search. Using one function everywhere is
// what makes self-recall possible: the same string always produces the same
// tokens, whether it arrives as an indexed document or as a search query.
package normalize

// Tokenize splits text into lowercased alphanumeric tokens.
//
// A token is a maximal run of ASCII letters and digits; letters are folded
// to lowercase. Every other byte (including whitespace, punctuation, and
// non-ASCII text) acts as a delimiter and is discarded. Empty runs never
// appear in the result. Tokens are returned in the order their runs appear
// in the input.
func Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/5+1)

	var current []byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			current = append(current, c)
		case c >= 'A' && c <= 'Z':
			current = append(current, c-'A'+'a')
		default:
			if len(current) > 0 {
				tokens = append(tokens, string(current))
				current = nil
			}
		}
	}
	if len(current) > 0 {
		tokens = append(tokens, string(current))
	}

	return tokens
}
