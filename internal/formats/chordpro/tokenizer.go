package chordpro

import (
	"bufio"
	"io"
	"strings"

	cperrors "github.com/bricedupuy/chordshow/core/errors"
	"github.com/bricedupuy/chordshow/core/song"
)

// TokenType identifies the kind of a token.
type TokenType int

const (
	// TokenDirective is a {key: value} metadata or control line.
	TokenDirective TokenType = iota
	// TokenSectionStart opens a section, with a kind hint and optional label.
	TokenSectionStart
	// TokenSectionEnd closes the open section.
	TokenSectionEnd
	// TokenTextLine is a lyric/chord content line, kept raw.
	TokenTextLine
)

// Token is one typed unit of the input document.
type Token struct {
	Type TokenType

	// Key and Value are set for directives.
	Key   string
	Value string

	// Kind and Label are set for section starts.
	Kind  song.SectionKind
	Label string

	// Raw is the original line text, set for text lines.
	Raw string

	// Line is the 1-based source line number.
	Line int
}

// Tokenizer splits raw document text into a finite sequence of tokens.
// It owns no state beyond the current line; re-tokenizing the same text
// yields the same sequence.
type Tokenizer struct {
	scanner *bufio.Scanner
	line    int
}

// NewTokenizer returns a tokenizer over the given document text.
func NewTokenizer(text string) *Tokenizer {
	return &Tokenizer{scanner: bufio.NewScanner(strings.NewReader(text))}
}

// Next returns the next token. It returns io.EOF at end of input and a
// DirectiveError when a line opens a { that never closes. All other
// unrecognized syntax passes through as a directive or text token; the
// tokenizer never rejects a well-formed document for vocabulary it does
// not know.
func (t *Tokenizer) Next() (Token, error) {
	for t.scanner.Scan() {
		t.line++
		raw := t.scanner.Text()
		trimmed := strings.TrimSpace(raw)

		if !strings.HasPrefix(trimmed, "{") {
			// Content (or blank) line, kept verbatim.
			return Token{Type: TokenTextLine, Raw: raw, Line: t.line}, nil
		}

		if !strings.Contains(trimmed, "}") {
			return Token{}, cperrors.NewDirective(t.line, trimmed)
		}

		key, value, ok := parseDirective(trimmed)
		if !ok {
			// Brace line that is not a directive; forward as text.
			return Token{Type: TokenTextLine, Raw: raw, Line: t.line}, nil
		}

		start, end, kind := classifyMarker(key)
		switch {
		case start:
			return Token{Type: TokenSectionStart, Kind: kind, Label: value, Line: t.line}, nil
		case end:
			return Token{Type: TokenSectionEnd, Line: t.line}, nil
		default:
			return Token{Type: TokenDirective, Key: key, Value: value, Line: t.line}, nil
		}
	}
	if err := t.scanner.Err(); err != nil {
		return Token{}, err
	}
	return Token{}, io.EOF
}

// Tokenize collects the full token sequence for a document.
func Tokenize(text string) ([]Token, error) {
	tk := NewTokenizer(text)
	var tokens []Token
	for {
		tok, err := tk.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}
