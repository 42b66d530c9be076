// Package html provides HTML tokenization and tree construction. It
// implements a faithful subset of the WHATWG HTML parsing state machine:
// a tokenizer state machine feeding a tree-construction driver governed
// by an insertion-mode state machine.
//
// Spec references:
// - HTML5 §12.2.5 Tokenization: https://html.spec.whatwg.org/multipage/parsing.html#tokenization
package html

import (
	"strings"

	"github.com/taichi-kobaya/rust-saba-browser/dom"
	"github.com/taichi-kobaya/rust-saba-browser/log"
)

// TokenType identifies the kind of a Token.
type TokenType int

const (
	// StartTagToken is an opening tag, e.g. <p>.
	StartTagToken TokenType = iota
	// EndTagToken is a closing tag, e.g. </p>.
	EndTagToken
	// CharToken carries a single Unicode scalar of character data.
	CharToken
	// EOFToken is emitted exactly once, when input is exhausted.
	EOFToken
)

// Token is a single lexical unit produced by the tokenizer.
type Token struct {
	Type        TokenType
	Tag         string // lowercased tag name; set for StartTagToken/EndTagToken
	SelfClosing bool   // set for StartTagToken
	Attributes  []dom.Attribute
	Char        rune // set for CharToken
}

// tokenizerState is the tokenizer's internal state, per the state table
// in spec.md §4.2.
type tokenizerState int

const (
	stateData tokenizerState = iota
	stateRawText
	stateTagOpen
	stateEndTagOpen
	stateTagName
	stateBeforeAttrName
	stateAttrName
	stateAfterAttrName
	stateBeforeAttrValue
	stateAttrValueDouble
	stateAttrValueSingle
	stateAttrValueUnquoted
	stateAfterAttrValueQuoted
	stateSelfClosingStartTag
)

// Tokenizer tokenizes a finite run of characters. It is a pull-based
// lazy sequence: the tree constructor is the only producer calling
// Next. Next returns ok == false exactly once, after the final EOFToken
// has already been returned; every call after that also returns false.
type Tokenizer struct {
	input []rune
	pos   int
	state tokenizerState

	rawtextTag string // non-empty while inside <script>/<style> content

	tagName     strings.Builder
	isEndTag    bool
	selfClosing bool
	attrs       []dom.Attribute
	attrName    strings.Builder
	attrValue   strings.Builder

	// raw buffers characters consumed while off the Data/RawText states,
	// so that an EOF mid-tag can be replayed as literal Char tokens per
	// the "end-of-input from any state" rule.
	raw []rune

	queue      []Token
	eofEmitted bool
}

// NewTokenizer creates a tokenizer over input, starting in the Data
// state.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: []rune(input)}
}

// EnterRawText switches the tokenizer into rawtext mode for the given
// tag name (expected to be "script" or "style"). Characters are then
// delivered verbatim as Char tokens until the matching end tag is
// recognized, at which point the tokenizer emits it as an EndTag token
// and reverts to the Data state on its own.
func (t *Tokenizer) EnterRawText(tag string) {
	t.rawtextTag = strings.ToLower(tag)
	t.state = stateRawText
}

// Next returns the next token, or ok == false once the stream is
// exhausted and the final EOFToken has already been delivered.
func (t *Tokenizer) Next() (Token, bool) {
	if tok, ok := t.dequeue(); ok {
		return tok, true
	}
	if t.eofEmitted {
		return Token{}, false
	}

	for {
		if t.pos >= len(t.input) {
			return t.handleEOF()
		}

		c := t.input[t.pos]

		switch t.state {
		case stateData:
			if c == '<' {
				t.pos++
				t.raw = append(t.raw, c)
				t.state = stateTagOpen
				continue
			}
			t.pos++
			return Token{Type: CharToken, Char: c}, true

		case stateRawText:
			if c == '<' && t.matchesRawTextEndTag() {
				return t.consumeRawTextEndTag()
			}
			t.pos++
			return Token{Type: CharToken, Char: c}, true

		case stateTagOpen:
			switch {
			case c == '/':
				t.consume(c)
				t.state = stateEndTagOpen
			case isASCIIAlpha(c):
				t.consume(c)
				t.isEndTag = false
				t.tagName.Reset()
				t.tagName.WriteRune(toLowerASCII(c))
				t.state = stateTagName
			default:
				// Tolerant fallback: emit the '<' literally and
				// reconsider this character from Data.
				log.TokenizerReset("html: '<' not followed by a tag, falling back to Data")
				t.raw = nil
				t.state = stateData
				return Token{Type: CharToken, Char: '<'}, true
			}
			continue

		case stateEndTagOpen:
			if isASCIIAlpha(c) {
				t.consume(c)
				t.isEndTag = true
				t.tagName.Reset()
				t.tagName.WriteRune(toLowerASCII(c))
				t.state = stateTagName
			} else {
				// Malformed "</" not followed by a letter: drop the
				// partial tag and resume from Data at this character.
				log.TokenizerReset("html: malformed end tag, dropping partial tag")
				t.raw = nil
				t.state = stateData
			}
			continue

		case stateTagName:
			switch {
			case isHTMLSpace(c):
				t.consume(c)
				t.state = stateBeforeAttrName
			case c == '/':
				t.consume(c)
				t.state = stateSelfClosingStartTag
			case c == '>':
				t.consume(c)
				return t.emitTag()
			default:
				t.tagName.WriteRune(toLowerASCII(c))
				t.consume(c)
			}
			continue

		case stateBeforeAttrName:
			switch {
			case isHTMLSpace(c):
				t.consume(c)
			case c == '/':
				t.consume(c)
				t.state = stateSelfClosingStartTag
			case c == '>':
				t.consume(c)
				return t.emitTag()
			default:
				t.attrName.Reset()
				t.attrValue.Reset()
				t.state = stateAttrName
			}
			continue

		case stateAttrName:
			switch {
			case isHTMLSpace(c):
				t.consume(c)
				t.state = stateAfterAttrName
			case c == '=':
				t.consume(c)
				t.state = stateBeforeAttrValue
			case c == '/':
				t.commitAttrNameOnly()
				t.consume(c)
				t.state = stateSelfClosingStartTag
			case c == '>':
				t.commitAttrNameOnly()
				t.consume(c)
				return t.emitTag()
			default:
				t.attrName.WriteRune(toLowerASCII(c))
				t.consume(c)
			}
			continue

		case stateAfterAttrName:
			switch {
			case isHTMLSpace(c):
				t.consume(c)
			case c == '=':
				t.consume(c)
				t.state = stateBeforeAttrValue
			case c == '/':
				t.commitAttrNameOnly()
				t.consume(c)
				t.state = stateSelfClosingStartTag
			case c == '>':
				t.commitAttrNameOnly()
				t.consume(c)
				return t.emitTag()
			default:
				t.commitAttrNameOnly()
				t.attrName.Reset()
				t.attrValue.Reset()
				t.state = stateAttrName
			}
			continue

		case stateBeforeAttrValue:
			switch {
			case isHTMLSpace(c):
				t.consume(c)
			case c == '"':
				t.consume(c)
				t.state = stateAttrValueDouble
			case c == '\'':
				t.consume(c)
				t.state = stateAttrValueSingle
			case c == '>':
				t.commitAttr()
				t.consume(c)
				return t.emitTag()
			default:
				t.state = stateAttrValueUnquoted
			}
			continue

		case stateAttrValueDouble:
			t.consume(c)
			if c == '"' {
				t.commitAttr()
				t.state = stateAfterAttrValueQuoted
			} else {
				t.attrValue.WriteRune(c)
			}
			continue

		case stateAttrValueSingle:
			t.consume(c)
			if c == '\'' {
				t.commitAttr()
				t.state = stateAfterAttrValueQuoted
			} else {
				t.attrValue.WriteRune(c)
			}
			continue

		case stateAttrValueUnquoted:
			switch {
			case isHTMLSpace(c):
				t.commitAttr()
				t.consume(c)
				t.state = stateBeforeAttrName
			case c == '>':
				t.commitAttr()
				t.consume(c)
				return t.emitTag()
			default:
				t.attrValue.WriteRune(c)
				t.consume(c)
			}
			continue

		case stateAfterAttrValueQuoted:
			switch {
			case isHTMLSpace(c):
				t.consume(c)
				t.state = stateBeforeAttrName
			case c == '/':
				t.consume(c)
				t.state = stateSelfClosingStartTag
			case c == '>':
				t.consume(c)
				return t.emitTag()
			default:
				// Tolerant: treat like BeforeAttrName and reconsider c.
				t.state = stateBeforeAttrName
			}
			continue

		case stateSelfClosingStartTag:
			if c == '>' {
				t.consume(c)
				t.selfClosing = true
				return t.emitTag()
			}
			t.selfClosing = false
			t.state = stateBeforeAttrName
			continue
		}
	}
}

// consume advances past c while recording it in raw, so a later EOF can
// replay everything consumed since the tag-building states were entered.
func (t *Tokenizer) consume(c rune) {
	t.pos++
	t.raw = append(t.raw, c)
}

// dequeue pops a previously queued token, if any.
func (t *Tokenizer) dequeue() (Token, bool) {
	if len(t.queue) == 0 {
		return Token{}, false
	}
	tok := t.queue[0]
	t.queue = t.queue[1:]
	if tok.Type == EOFToken {
		t.eofEmitted = true
	}
	return tok, true
}

// handleEOF implements "end-of-input from any state": pending
// characters accumulated while building an incomplete tag are replayed
// as literal Char tokens, then a single EOFToken is emitted.
func (t *Tokenizer) handleEOF() (Token, bool) {
	for _, r := range t.raw {
		t.queue = append(t.queue, Token{Type: CharToken, Char: r})
	}
	t.raw = nil
	t.queue = append(t.queue, Token{Type: EOFToken})
	tok, _ := t.dequeue()
	return tok, true
}

func (t *Tokenizer) commitAttrNameOnly() {
	if t.attrName.Len() == 0 {
		return
	}
	t.attrs = append(t.attrs, dom.Attribute{Name: t.attrName.String(), Value: ""})
	t.attrName.Reset()
}

func (t *Tokenizer) commitAttr() {
	if t.attrName.Len() == 0 {
		return
	}
	t.attrs = append(t.attrs, dom.Attribute{Name: t.attrName.String(), Value: t.attrValue.String()})
	t.attrName.Reset()
	t.attrValue.Reset()
}

func (t *Tokenizer) emitTag() (Token, bool) {
	tok := Token{Tag: t.tagName.String()}
	if t.isEndTag {
		tok.Type = EndTagToken
	} else {
		tok.Type = StartTagToken
		tok.SelfClosing = t.selfClosing
		tok.Attributes = t.attrs
	}

	t.tagName.Reset()
	t.attrName.Reset()
	t.attrValue.Reset()
	t.attrs = nil
	t.selfClosing = false
	t.isEndTag = false
	t.raw = nil
	t.state = stateData

	return tok, true
}

// matchesRawTextEndTag reports whether the input at the current
// position spells out "</" + the active rawtext tag name
// (case-insensitively), followed by '>', whitespace, '/', or the end of
// the input.
func (t *Tokenizer) matchesRawTextEndTag() bool {
	n := len(t.rawtextTag)
	if t.pos+1 >= len(t.input) || t.input[t.pos+1] != '/' {
		return false
	}
	if t.pos+2+n > len(t.input) {
		return false
	}
	for i := 0; i < n; i++ {
		if toLowerASCII(t.input[t.pos+2+i]) != rune(t.rawtextTag[i]) {
			return false
		}
	}
	end := t.pos + 2 + n
	if end < len(t.input) {
		c := t.input[end]
		if c != '>' && c != '/' && !isHTMLSpace(c) {
			return false
		}
	}
	return true
}

// consumeRawTextEndTag consumes "</tag" plus anything up to and
// including the closing '>', and emits the matching EndTag token.
func (t *Tokenizer) consumeRawTextEndTag() (Token, bool) {
	tag := t.rawtextTag
	t.pos += 2 + len(tag)
	for t.pos < len(t.input) && t.input[t.pos] != '>' {
		t.pos++
	}
	if t.pos < len(t.input) {
		t.pos++
	}
	t.rawtextTag = ""
	t.state = stateData
	return Token{Type: EndTagToken, Tag: tag}, true
}

func isASCIIAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHTMLSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	default:
		return false
	}
}

func toLowerASCII(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}
