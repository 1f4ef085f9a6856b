package asm

import (
	"strconv"
	"strings"
)

// tokenKind distinguishes the two token shapes a line of NoLang
// assembly can contain: an identifier (mnemonic or type-tag name) and
// a numeric literal.
type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
)

type token struct {
	kind tokenKind
	text string // original text, for error messages
	ival uint64 // valid when kind == tokNumber
}

// tokenizeLine splits one line of assembly text into tokens. A ';'
// starts a comment that runs to end of line. Tokens are split on
// whitespace; anything starting with "0x" or "0X" is hex, anything
// else starting with a digit is decimal, everything else is an
// uppercased identifier.
func tokenizeLine(line string, lineNum int) ([]token, error) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	toks := make([]token, 0, len(fields))
	for _, w := range fields {
		switch {
		case strings.HasPrefix(w, "0x") || strings.HasPrefix(w, "0X"):
			n, err := strconv.ParseUint(w[2:], 16, 64)
			if err != nil {
				return nil, &Error{Kind: InvalidNumber, Line: lineNum, Token: w}
			}
			toks = append(toks, token{kind: tokNumber, text: w, ival: n})
		case w[0] >= '0' && w[0] <= '9':
			n, err := strconv.ParseUint(w, 10, 64)
			if err != nil {
				return nil, &Error{Kind: InvalidNumber, Line: lineNum, Token: w}
			}
			toks = append(toks, token{kind: tokNumber, text: w, ival: n})
		default:
			toks = append(toks, token{kind: tokIdent, text: strings.ToUpper(w)})
		}
	}
	return toks, nil
}
