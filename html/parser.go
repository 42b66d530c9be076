package html

import (
	"github.com/taichi-kobaya/rust-saba-browser/dom"
	"github.com/taichi-kobaya/rust-saba-browser/log"
)

// InsertionMode is the state of the tree-construction machine that
// dictates how the next token is interpreted.
//
// Spec references:
// - HTML5 §12.2.6 Tree construction: https://html.spec.whatwg.org/multipage/parsing.html#tree-construction
// - https://html.spec.whatwg.org/multipage/parsing.html#the-insertion-mode
type InsertionMode int

const (
	Initial InsertionMode = iota
	BeforeHtml
	BeforeHead
	InHead
	AfterHead
	InBody
	Text
	AfterBody
	AfterAfterBody
)

// Parser drives token consumption from a Tokenizer and builds a DOM
// tree by following the insertion-mode state machine.
type Parser struct {
	window *dom.Window
	tz     *Tokenizer

	mode InsertionMode
	// originalMode is saved on entry to Text mode and restored on exit.
	// https://html.spec.whatwg.org/multipage/parsing.html#original-insertion-mode
	originalMode InsertionMode

	// stack is the stack of open elements: bottom is <html> when present,
	// top is the current insertion point.
	// https://html.spec.whatwg.org/multipage/parsing.html#the-stack-of-open-elements
	stack []*dom.Node
}

// NewParser creates a parser that reads tokens from t and builds a
// fresh, empty Document under a new Window.
func NewParser(t *Tokenizer) *Parser {
	return &Parser{
		window: dom.NewWindow(),
		tz:     t,
		mode:   Initial,
	}
}

// Parse tokenizes input and returns the resulting Window. It is a
// convenience wrapper around NewParser + ConstructTree.
func Parse(input string) *dom.Window {
	return NewParser(NewTokenizer(input)).ConstructTree()
}

// ConstructTree drives the insertion-mode machine to completion and
// returns the Window. It always returns a Window, even for malformed or
// empty input: no error escapes the tree constructor (the core is
// infallible from the caller's perspective).
//
// Each handler returns the next token to dispatch together with a bool
// reporting whether the machine should keep running. Only Initial
// reprocesses Eof (it has nothing of its own to do with it); every
// other mode terminates the moment it sees Eof, per its own explicit
// "Eof → terminate" clause.
func (p *Parser) ConstructTree() *dom.Window {
	tok := p.next()
	cont := true

	for cont {
		switch p.mode {
		case Initial:
			tok, cont = p.handleInitial(tok)
		case BeforeHtml:
			tok, cont = p.handleBeforeHtml(tok)
		case BeforeHead:
			tok, cont = p.handleBeforeHead(tok)
		case InHead:
			tok, cont = p.handleInHead(tok)
		case AfterHead:
			tok, cont = p.handleAfterHead(tok)
		case InBody:
			tok, cont = p.handleInBody(tok)
		case Text:
			tok, cont = p.handleText(tok)
		case AfterBody:
			tok, cont = p.handleAfterBody(tok)
		case AfterAfterBody:
			tok, cont = p.handleAfterAfterBody(tok)
		}
	}

	return p.window
}

// next pulls the next token from the tokenizer. Used by handlers that
// consume the current token and advance.
func (p *Parser) next() Token {
	tok, _ := p.tz.Next()
	return tok
}

// handleInitial implements the Initial insertion mode. This engine does
// not support DOCTYPE tokens, so unlike the original source (which
// treats every token as ignorable once), only whitespace-only Char
// tokens are ignored here; anything else, including Eof, falls through
// to BeforeHtml.
func (p *Parser) handleInitial(tok Token) (Token, bool) {
	if tok.Type == CharToken && isSpaceOrNewline(tok.Char) {
		return p.next(), true
	}
	p.mode = BeforeHtml
	return tok, true // reprocess
}

// handleBeforeHtml implements the BeforeHtml insertion mode.
func (p *Parser) handleBeforeHtml(tok Token) (Token, bool) {
	switch tok.Type {
	case CharToken:
		if isSpaceOrNewline(tok.Char) {
			return p.next(), true
		}
	case StartTagToken:
		if tok.Tag == "html" {
			p.insertElement(dom.Html, tok.Attributes)
			p.mode = BeforeHead
			return p.next(), true
		}
	case EOFToken:
		return tok, false
	}
	// Anything else: synthesize <html> and reprocess.
	p.insertElement(dom.Html, nil)
	p.mode = BeforeHead
	return tok, true // reprocess
}

// handleBeforeHead implements the BeforeHead insertion mode.
func (p *Parser) handleBeforeHead(tok Token) (Token, bool) {
	switch tok.Type {
	case CharToken:
		if isSpaceOrNewline(tok.Char) {
			return p.next(), true
		}
	case StartTagToken:
		if tok.Tag == "head" {
			p.insertElement(dom.Head, tok.Attributes)
			p.mode = InHead
			return p.next(), true
		}
	case EOFToken:
		return tok, false
	}
	p.insertElement(dom.Head, nil)
	p.mode = InHead
	return tok, true // reprocess
}

// handleInHead implements the InHead insertion mode.
func (p *Parser) handleInHead(tok Token) (Token, bool) {
	switch tok.Type {
	case CharToken:
		if isSpaceOrNewline(tok.Char) {
			return p.next(), true
		}
	case StartTagToken:
		switch tok.Tag {
		case "style", "script":
			p.insertElement(mustElementKind(tok.Tag), tok.Attributes)
			p.originalMode = p.mode
			p.mode = Text
			p.tz.EnterRawText(tok.Tag)
			return p.next(), true
		case "body":
			p.popUntil(dom.Head)
			p.mode = AfterHead
			return tok, true // reprocess
		}
		if _, err := dom.ElementKindFromName(tok.Tag); err == nil {
			// A recognized tag we're not expecting in the head (e.g.
			// body-only elements appearing early): close the head and
			// let AfterHead/InBody decide what to do with it.
			p.popUntil(dom.Head)
			p.mode = AfterHead
			return tok, true // reprocess
		}
		// Unsupported tags like <meta>/<title> are silently ignored.
		log.WithFields(log.DebugLevel, "html: ignoring unsupported tag in head",
			log.F("kind", log.KindUnknownTag), log.F("tag", tok.Tag))
		return p.next(), true
	case EndTagToken:
		if tok.Tag == "head" {
			p.popUntil(dom.Head)
			p.mode = AfterHead
			return p.next(), true
		}
	case EOFToken:
		return tok, false
	}
	return p.next(), true
}

// handleAfterHead implements the AfterHead insertion mode.
func (p *Parser) handleAfterHead(tok Token) (Token, bool) {
	switch tok.Type {
	case CharToken:
		if isSpaceOrNewline(tok.Char) {
			return p.next(), true
		}
	case StartTagToken:
		if tok.Tag == "body" {
			p.insertElement(dom.Body, tok.Attributes)
			p.mode = InBody
			return p.next(), true
		}
	case EOFToken:
		return tok, false
	}
	p.insertElement(dom.Body, nil)
	p.mode = InBody
	return tok, true // reprocess
}

// handleInBody implements the InBody insertion mode.
func (p *Parser) handleInBody(tok Token) (Token, bool) {
	switch tok.Type {
	case StartTagToken:
		switch tok.Tag {
		case "p", "h1", "h2", "a":
			p.insertElement(mustElementKind(tok.Tag), tok.Attributes)
		default:
			log.WithFields(log.DebugLevel, "html: ignoring unsupported start tag in body",
				log.F("kind", log.KindUnknownTag), log.F("tag", tok.Tag))
		}
		return p.next(), true

	case EndTagToken:
		switch tok.Tag {
		case "body":
			p.mode = AfterBody
			if !p.containsInStack(dom.Body) {
				log.ParseError("html: </body> with no <body> on the stack")
				return p.next(), true
			}
			p.popUntil(dom.Body)
			return p.next(), true
		case "html":
			if p.popCurrentNode(dom.Body) {
				p.mode = AfterBody
				if !p.popCurrentNode(dom.Html) {
					panic("html: <html> element missing from stack after </html>")
				}
				return p.next(), true
			}
			return p.next(), true
		case "p", "h1", "h2", "a":
			p.popUntil(mustElementKind(tok.Tag))
			return p.next(), true
		default:
			log.ParseError("html: ignoring unmatched end tag", log.F("tag", tok.Tag))
		}
		return p.next(), true

	case CharToken:
		p.insertChar(tok.Char)
		return p.next(), true

	case EOFToken:
		return tok, false
	}
	return p.next(), true
}

// handleText implements the Text insertion mode, entered for
// <script>/<style> contents.
func (p *Parser) handleText(tok Token) (Token, bool) {
	switch tok.Type {
	case CharToken:
		p.insertChar(tok.Char)
		return p.next(), true
	case EndTagToken:
		switch tok.Tag {
		case "style":
			p.popUntil(dom.Style)
			p.mode = p.originalMode
			return p.next(), true
		case "script":
			p.popUntil(dom.Script)
			p.mode = p.originalMode
			return p.next(), true
		}
	case EOFToken:
		return tok, false
	}
	p.mode = p.originalMode
	return p.next(), true
}

// handleAfterBody implements the AfterBody insertion mode. Per the
// original source this parser is ported from, stray characters here are
// discarded rather than reprocessed in InBody (a documented deviation
// from the WHATWG algorithm).
func (p *Parser) handleAfterBody(tok Token) (Token, bool) {
	switch tok.Type {
	case CharToken:
		return p.next(), true
	case EndTagToken:
		if tok.Tag == "html" {
			p.mode = AfterAfterBody
			return p.next(), true
		}
	case EOFToken:
		return tok, false
	}
	p.mode = InBody
	return tok, true // reprocess
}

// handleAfterAfterBody implements the AfterAfterBody insertion mode.
func (p *Parser) handleAfterAfterBody(tok Token) (Token, bool) {
	switch tok.Type {
	case CharToken:
		return p.next(), true
	case EOFToken:
		return tok, false
	}
	log.ParseError("html: unexpected token after </html>, reprocessing in body")
	p.mode = InBody
	return tok, true // reprocess
}

func isSpaceOrNewline(c rune) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}

// currentNode returns the top of the stack of open elements, or the
// Document if the stack is empty.
func (p *Parser) currentNode() *dom.Node {
	if len(p.stack) == 0 {
		return p.window.Document
	}
	return p.stack[len(p.stack)-1]
}

// insertElement creates an element of kind, appends it as a child of
// the current node, and pushes it onto the stack of open elements.
func (p *Parser) insertElement(kind dom.ElementKind, attrs []dom.Attribute) *dom.Node {
	elem := dom.NewElement(kind, attrs)
	dom.AppendChild(p.currentNode(), elem)
	p.stack = append(p.stack, elem)
	return elem
}

// insertChar appends c to the current node's text content, coalescing
// with an existing trailing Text child when present.
func (p *Parser) insertChar(c rune) {
	current := p.currentNode()
	if last := dom.LastChildOf(current); last != nil && last.Type == dom.TextNode {
		last.Text += string(c)
		return
	}
	dom.AppendChild(current, dom.NewText(string(c)))
}

// popUntil pops elements off the stack until (and including) the first
// element of kind is removed. A no-op if no such element is on the
// stack.
func (p *Parser) popUntil(kind dom.ElementKind) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].Kind == kind {
			p.stack = p.stack[:i]
			return
		}
	}
}

// popCurrentNode pops the top of the stack if it has the given kind,
// reporting whether it did.
func (p *Parser) popCurrentNode(kind dom.ElementKind) bool {
	if len(p.stack) == 0 {
		return false
	}
	top := p.stack[len(p.stack)-1]
	if top.Kind != kind {
		return false
	}
	p.stack = p.stack[:len(p.stack)-1]
	return true
}

// containsInStack reports whether an element of kind is anywhere in the
// stack of open elements.
func (p *Parser) containsInStack(kind dom.ElementKind) bool {
	for _, n := range p.stack {
		if n.Kind == kind {
			return true
		}
	}
	return false
}

// mustElementKind looks up an ElementKind for a tag this mode only
// dispatches to after already checking it is one of the recognized
// names; a failure here would mean the dispatch table above and
// dom.ElementKindFromName have drifted out of sync.
func mustElementKind(tag string) dom.ElementKind {
	kind, err := dom.ElementKindFromName(tag)
	if err != nil {
		panic("html: unreachable: " + tag + " is not a recognized element kind")
	}
	return kind
}
