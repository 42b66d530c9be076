// Command htmlparse parses an HTML document and prints the resulting
// DOM tree.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/taichi-kobaya/rust-saba-browser/dom"
	"github.com/taichi-kobaya/rust-saba-browser/fetch"
	"github.com/taichi-kobaya/rust-saba-browser/html"
	"github.com/taichi-kobaya/rust-saba-browser/log"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: htmlparse <path-or-url>")
		os.Exit(1)
	}

	source := os.Args[1]
	// The requested document is also its own base: any resource path
	// this module later resolves against it (fetch.Loader.BaseURL) is
	// relative to wherever source itself pointed.
	loader := fetch.NewLoader(source)
	content, err := loader.LoadString(source)
	if err != nil {
		log.Errorf("htmlparse: failed to load %s: %v", source, err)
		os.Exit(1)
	}

	win := html.Parse(content)
	printDOMTree(win.Document, 0)
}

// printDOMTree prints a DOM tree with indentation.
func printDOMTree(node *dom.Node, indent int) {
	prefix := strings.Repeat("  ", indent)

	switch node.Type {
	case dom.DocumentNode:
		fmt.Printf("%s[Document]\n", prefix)
	case dom.ElementNode:
		attrs := ""
		for _, a := range node.Attributes {
			attrs += fmt.Sprintf(" %s=%q", a.Name, a.Value)
		}
		fmt.Printf("%s<%s%s>\n", prefix, node.Kind, attrs)
	case dom.TextNode:
		text := strings.TrimSpace(node.Text)
		if text != "" {
			if len(text) > 50 {
				text = text[:47] + "..."
			}
			fmt.Printf("%s%q\n", prefix, text)
		}
	}

	for c := node.FirstChild; c != nil; c = c.NextSibling {
		printDOMTree(c, indent+1)
	}
}
