package html

import "testing"

func drain(t *Tokenizer) []Token {
	var toks []Token
	for {
		tok, ok := t.Next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
		if tok.Type == EOFToken {
			return toks
		}
	}
}

func TestTokenizerText(t *testing.T) {
	tz := NewTokenizer("hi")
	toks := drain(tz)
	if len(toks) != 3 {
		t.Fatalf("expected 2 char tokens + eof, got %d", len(toks))
	}
	if toks[0].Type != CharToken || toks[0].Char != 'h' {
		t.Errorf("expected Char('h'), got %+v", toks[0])
	}
	if toks[1].Type != CharToken || toks[1].Char != 'i' {
		t.Errorf("expected Char('i'), got %+v", toks[1])
	}
	if toks[2].Type != EOFToken {
		t.Errorf("expected EOFToken, got %+v", toks[2])
	}
}

func TestTokenizerIdempotentAfterEOF(t *testing.T) {
	tz := NewTokenizer("")
	tok, ok := tz.Next()
	if !ok || tok.Type != EOFToken {
		t.Fatalf("expected immediate EOFToken, got %+v ok=%v", tok, ok)
	}
	for i := 0; i < 3; i++ {
		if _, ok := tz.Next(); ok {
			t.Fatalf("expected Next to keep returning false after EOF, call %d", i)
		}
	}
}

func TestTokenizerSimpleStartTag(t *testing.T) {
	tz := NewTokenizer("<p>")
	tok, ok := tz.Next()
	if !ok {
		t.Fatal("expected a token")
	}
	if tok.Type != StartTagToken || tok.Tag != "p" {
		t.Errorf("expected StartTagToken 'p', got %+v", tok)
	}
}

func TestTokenizerEndTag(t *testing.T) {
	tz := NewTokenizer("</p>")
	tok, ok := tz.Next()
	if !ok {
		t.Fatal("expected a token")
	}
	if tok.Type != EndTagToken || tok.Tag != "p" {
		t.Errorf("expected EndTagToken 'p', got %+v", tok)
	}
}

func TestTokenizerTagNameLowercased(t *testing.T) {
	tz := NewTokenizer("<A>")
	tok, _ := tz.Next()
	if tok.Tag != "a" {
		t.Errorf("expected lowercased 'a', got %v", tok.Tag)
	}
}

func TestTokenizerSelfClosing(t *testing.T) {
	tz := NewTokenizer("<br/>")
	tok, _ := tz.Next()
	if tok.Type != StartTagToken || !tok.SelfClosing {
		t.Errorf("expected self-closing start tag, got %+v", tok)
	}
}

func TestTokenizerAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string // name=value pairs flattened
	}{
		{
			name:     "double quoted",
			input:    `<a href="x">`,
			expected: []string{"href", "x"},
		},
		{
			name:     "single quoted",
			input:    `<a href='x'>`,
			expected: []string{"href", "x"},
		},
		{
			name:     "unquoted",
			input:    `<a href=x>`,
			expected: []string{"href", "x"},
		},
		{
			name:     "boolean attribute",
			input:    `<a disabled>`,
			expected: []string{"disabled", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tz := NewTokenizer(tt.input)
			tok, ok := tz.Next()
			if !ok || tok.Type != StartTagToken {
				t.Fatalf("expected StartTagToken, got %+v ok=%v", tok, ok)
			}
			if len(tok.Attributes) != 1 {
				t.Fatalf("expected 1 attribute, got %d", len(tok.Attributes))
			}
			if tok.Attributes[0].Name != tt.expected[0] || tok.Attributes[0].Value != tt.expected[1] {
				t.Errorf("expected %v=%q, got %v=%q", tt.expected[0], tt.expected[1],
					tok.Attributes[0].Name, tok.Attributes[0].Value)
			}
		})
	}
}

func TestTokenizerMultipleAttributesPreserveOrderAndDuplicates(t *testing.T) {
	tz := NewTokenizer(`<a href="1" href="2" target="_blank">`)
	tok, _ := tz.Next()
	if len(tok.Attributes) != 3 {
		t.Fatalf("expected 3 attributes, got %d: %+v", len(tok.Attributes), tok.Attributes)
	}
	want := []struct{ name, value string }{
		{"href", "1"}, {"href", "2"}, {"target", "_blank"},
	}
	for i, w := range want {
		if tok.Attributes[i].Name != w.name || tok.Attributes[i].Value != w.value {
			t.Errorf("attr %d: expected %s=%q, got %s=%q", i, w.name, w.value,
				tok.Attributes[i].Name, tok.Attributes[i].Value)
		}
	}
}

func TestTokenizerMultipleTokens(t *testing.T) {
	tz := NewTokenizer("<p>hi</p>")
	toks := drain(tz)

	expected := []struct {
		typ TokenType
		tag string
		ch  rune
	}{
		{StartTagToken, "p", 0},
		{CharToken, "", 'h'},
		{CharToken, "", 'i'},
		{EndTagToken, "p", 0},
		{EOFToken, "", 0},
	}

	if len(toks) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(expected), len(toks), toks)
	}
	for i, exp := range expected {
		if toks[i].Type != exp.typ {
			t.Errorf("token %d: expected type %v, got %v", i, exp.typ, toks[i].Type)
		}
		if exp.typ == StartTagToken || exp.typ == EndTagToken {
			if toks[i].Tag != exp.tag {
				t.Errorf("token %d: expected tag %q, got %q", i, exp.tag, toks[i].Tag)
			}
		}
		if exp.typ == CharToken && toks[i].Char != exp.ch {
			t.Errorf("token %d: expected char %q, got %q", i, exp.ch, toks[i].Char)
		}
	}
}

func TestTokenizerMalformedTagOpenFallsBackToData(t *testing.T) {
	// "< " is not a valid tag open; spec says emit '<' literally and
	// reconsider the rest from Data.
	tz := NewTokenizer("< hi")
	toks := drain(tz)
	if len(toks) != 5 {
		t.Fatalf("expected 4 chars + eof, got %d: %+v", len(toks), toks)
	}
	want := []rune{'<', ' ', 'h', 'i'}
	for i, w := range want {
		if toks[i].Type != CharToken || toks[i].Char != w {
			t.Errorf("token %d: expected Char(%q), got %+v", i, w, toks[i])
		}
	}
}

func TestTokenizerRawText(t *testing.T) {
	tz := NewTokenizer("p{color:red}</style>after")
	tz.EnterRawText("style")

	var chars []rune
	for {
		tok, ok := tz.Next()
		if !ok {
			t.Fatal("unexpected end of tokens")
		}
		if tok.Type == EndTagToken {
			if tok.Tag != "style" {
				t.Errorf("expected end tag 'style', got %v", tok.Tag)
			}
			break
		}
		if tok.Type != CharToken {
			t.Fatalf("expected only char tokens before end tag, got %+v", tok)
		}
		chars = append(chars, tok.Char)
	}

	if string(chars) != "p{color:red}" {
		t.Errorf("expected rawtext 'p{color:red}', got %q", string(chars))
	}

	// After the end tag, tokenizer must be back in Data state.
	tok, ok := tz.Next()
	if !ok || tok.Type != CharToken || tok.Char != 'a' {
		t.Errorf("expected Char('a') after leaving rawtext, got %+v ok=%v", tok, ok)
	}
}

func TestTokenizerEOFFlushesPendingTagAsChars(t *testing.T) {
	// Unterminated tag at EOF: the partial tag text becomes literal
	// Char tokens, then EOF.
	tz := NewTokenizer("<di")
	toks := drain(tz)
	if len(toks) != 4 {
		t.Fatalf("expected 3 chars + eof, got %d: %+v", len(toks), toks)
	}
	want := []rune{'<', 'd', 'i'}
	for i, w := range want {
		if toks[i].Type != CharToken || toks[i].Char != w {
			t.Errorf("token %d: expected Char(%q), got %+v", i, w, toks[i])
		}
	}
	if toks[3].Type != EOFToken {
		t.Errorf("expected final EOFToken, got %+v", toks[3])
	}
}
