package fetch

import (
	"bytes"
	"testing"
)

func TestLoadFromDataURL(t *testing.T) {
	tests := []struct {
		name     string
		dataURL  string
		expected []byte
		wantErr  bool
	}{
		{
			name:     "base64 encoded text",
			dataURL:  "data:text/plain;base64,SGVsbG8sIFdvcmxkIQ==",
			expected: []byte("Hello, World!"),
		},
		{
			name:     "URL encoded HTML",
			dataURL:  "data:text/html,%3Cp%3Ehi%3C%2Fp%3E",
			expected: []byte(`<p>hi</p>`),
		},
		{
			name:     "base64 encoded HTML",
			dataURL:  "data:text/html;base64,PHA+aGk8L3A+",
			expected: []byte(`<p>hi</p>`),
		},
		{
			name:    "invalid data URL - no comma",
			dataURL: "data:text/plain;base64",
			wantErr: true,
		},
		{
			name:    "invalid base64",
			dataURL: "data:text/plain;base64,!!!invalid!!!",
			wantErr: true,
		},
	}

	loader := NewLoader("")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loader.Load(tt.dataURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !bytes.Equal(got, tt.expected) {
				t.Errorf("Load() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsDataURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"data:text/html;base64,SGVsbG8=", true},
		{"data:text/html,%3Cp%3E", true},
		{"http://example.com/index.html", false},
		{"https://example.com/index.html", false},
		{"/path/to/file.html", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isDataURL(tt.input); got != tt.want {
				t.Errorf("isDataURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadStringFromFile(t *testing.T) {
	loader := NewLoader("")
	if _, err := loader.LoadString("/nonexistent/path/does-not-exist.html"); err == nil {
		t.Error("expected an error loading a nonexistent file")
	}
}

func TestResolveAgainstBase(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		ref     string
		want    string
		wantOK  bool
	}{
		{
			name:    "relative path resolves against http base",
			baseURL: "http://example.com/pages/index.html",
			ref:     "style.css",
			want:    "http://example.com/pages/style.css",
			wantOK:  true,
		},
		{
			name:    "root-relative path resolves against https base",
			baseURL: "https://example.com/pages/index.html",
			ref:     "/assets/style.css",
			want:    "https://example.com/assets/style.css",
			wantOK:  true,
		},
		{
			name:    "no base set",
			baseURL: "",
			ref:     "style.css",
			wantOK:  false,
		},
		{
			name:    "already-absolute ref is left alone",
			baseURL: "http://example.com/pages/index.html",
			ref:     "http://other.example/style.css",
			wantOK:  false,
		},
		{
			name:    "non-http(s) base is not resolved against",
			baseURL: "file:///home/user/index.html",
			ref:     "style.css",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(tt.baseURL)
			got, ok := loader.resolveAgainstBase(tt.ref)
			if ok != tt.wantOK {
				t.Fatalf("resolveAgainstBase(%q) ok = %v, want %v", tt.ref, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("resolveAgainstBase(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
