package htmlparser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/umbralabs/umbra/models"
)

const samplePage = `<html>
<head><title>Sample</title><style>body { color: red; }</style></head>
<body>
<script>var hidden = "secret";</script>
<h1>Heading</h1>
<p>First paragraph.</p>
<a href="/about">About</a>
<a href="contact#team">Contact</a>
<a href="/about">About again</a>
<a name="anchor-without-href">skip me</a>
</body>
</html>`

func TestNewRejectsEmptyInput(t *testing.T) {
	for _, kind := range []Kind{KindHTML5, KindTokenizer} {
		_, err := New("https://example.com", "", kind)
		var se *models.ScrapeError
		if !errors.As(err, &se) || se.Code != models.ErrCodeInvalidInput {
			t.Errorf("kind %q: error = %v, want INVALID_INPUT", kind, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(""); err != nil || k != KindHTML5 {
		t.Errorf("ParseKind(\"\") = %q, %v", k, err)
	}
	if k, err := ParseKind("tokenizer"); err != nil || k != KindTokenizer {
		t.Errorf("ParseKind(tokenizer) = %q, %v", k, err)
	}
	if _, err := ParseKind("lxml"); err == nil {
		t.Error("ParseKind(lxml) should fail")
	}
}

func TestTextExcludesMarkupAndScripts(t *testing.T) {
	for _, kind := range []Kind{KindHTML5, KindTokenizer} {
		t.Run(string(kind), func(t *testing.T) {
			p, err := New("https://example.com", samplePage, kind)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			text := p.Text()

			for _, want := range []string{"Heading", "First paragraph.", "About", "Contact"} {
				if !strings.Contains(text, want) {
					t.Errorf("text missing %q:\n%s", want, text)
				}
			}
			for _, banned := range []string{"<", "secret", "color: red"} {
				if strings.Contains(text, banned) {
					t.Errorf("text contains %q:\n%s", banned, text)
				}
			}
		})
	}
}

func TestLinksNormalized(t *testing.T) {
	want := []string{
		"https://example.com/about",
		"https://example.com/contact",
	}
	for _, kind := range []Kind{KindHTML5, KindTokenizer} {
		t.Run(string(kind), func(t *testing.T) {
			p, err := New("https://example.com/", samplePage, kind)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := p.Links(); !reflect.DeepEqual(got, want) {
				t.Errorf("Links = %v, want %v", got, want)
			}
		})
	}
}

func TestHTMLRoundTrip(t *testing.T) {
	p, err := New("https://example.com", samplePage, KindHTML5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.HTML() != samplePage {
		t.Error("HTML() does not return the original input")
	}
	if p.BaseURL() != "https://example.com" {
		t.Errorf("BaseURL = %q", p.BaseURL())
	}
}

func TestSelect(t *testing.T) {
	p, err := New("https://example.com", samplePage, KindHTML5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := p.Select("h1")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if out != "<h1>Heading</h1>" {
		t.Errorf("Select(h1) = %q", out)
	}

	// No match falls back to the full document.
	out, err = p.Select("article.missing")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if out != samplePage {
		t.Error("no-match Select should return the original HTML")
	}

	if _, err := p.Select("h1["); err == nil {
		t.Error("invalid selector should fail")
	}
}

func TestMarkdown(t *testing.T) {
	p, err := New("https://example.com", samplePage, KindHTML5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	md, err := p.Markdown()
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(md, "# Heading") {
		t.Errorf("markdown missing heading:\n%s", md)
	}
	if !strings.Contains(md, "(https://example.com/about)") {
		t.Errorf("relative link not resolved:\n%s", md)
	}
	if strings.Contains(md, "secret") {
		t.Errorf("script content leaked into markdown:\n%s", md)
	}
}
