package googlebooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const sampleResponse = `{
  "items": [
    {
      "id": "vol-1",
      "volumeInfo": {
        "title": "The Dispossessed",
        "authors": ["Ursula K. Le Guin"],
        "description": "An ambiguous utopia.",
        "pageCount": 387,
        "publishedDate": "1974",
        "publisher": "Harper",
        "imageLinks": {"thumbnail": "http://books.google.com/covers/vol-1.jpg"},
        "industryIdentifiers": [
          {"type": "ISBN_10", "identifier": "0060125632"},
          {"type": "ISBN_13", "identifier": "9780060125639"}
        ]
      }
    },
    {
      "id": "vol-2",
      "volumeInfo": {}
    },
    {
      "id": "",
      "volumeInfo": {"title": "No ID, skipped"}
    }
  ]
}`

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := New(srv.URL, "en", "/static/img/cover-placeholder.svg", zap.NewNop())

	books, err := c.Search(context.Background(), "le guin")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}

	first := books[0]
	if first.GoogleID != "vol-1" {
		t.Errorf("GoogleID = %q, want vol-1", first.GoogleID)
	}
	if first.Title != "The Dispossessed" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.CoverURL != "https://books.google.com/covers/vol-1.jpg" {
		t.Errorf("CoverURL not upgraded to https: %q", first.CoverURL)
	}
	if first.ISBN != "9780060125639" {
		t.Errorf("ISBN = %q, want ISBN_13 preferred", first.ISBN)
	}
	if first.PageCount != 387 {
		t.Errorf("PageCount = %d", first.PageCount)
	}

	second := books[1]
	if second.Title != "Unknown Title" {
		t.Errorf("missing title should default, got %q", second.Title)
	}
	if len(second.Authors) != 1 || second.Authors[0] != "Unknown Author" {
		t.Errorf("missing authors should default, got %v", second.Authors)
	}
	if second.CoverURL != "/static/img/cover-placeholder.svg" {
		t.Errorf("missing cover should use placeholder, got %q", second.CoverURL)
	}

	for _, want := range []string{"q=le+guin", "maxResults=20", "langRestrict=en"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	c := New("http://example.invalid", "", "", zap.NewNop())
	books, err := c.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("empty term should not error: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("empty term should return no results, got %d", len(books))
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "", "", zap.NewNop())
	if _, err := c.Search(context.Background(), "anything"); err != ErrSearchFailed {
		t.Fatalf("expected ErrSearchFailed, got %v", err)
	}
}

func TestNormalizeCoverURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "/ph.svg"},
		{"http://example.com/c.jpg", "https://example.com/c.jpg"},
		{"https://example.com/c.jpg", "https://example.com/c.jpg"},
	}
	for _, tc := range cases {
		if got := normalizeCoverURL(tc.in, "/ph.svg"); got != tc.want {
			t.Errorf("normalizeCoverURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
