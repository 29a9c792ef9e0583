// Package googlebooks wraps the Google Books volumes API used for
// catalog search.
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/bookclub/internal/domain/models"
)

// ErrSearchFailed is returned when the catalog API cannot be reached or
// answers with a non-200 status.
var ErrSearchFailed = errors.New("book search failed")

const (
	// DefaultBaseURL is the public volumes endpoint.
	DefaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

	// maxResults caps one search at a single screenful.
	maxResults = 20
)

// Client performs catalog searches. The zero value is not usable; use New.
type Client struct {
	baseURL      string
	langRestrict string
	placeholder  string
	httpClient   *http.Client
	logger       *zap.Logger
}

// New builds a search client. baseURL and placeholderCover may be empty, in
// which case DefaultBaseURL and a built-in placeholder are used. langRestrict
// may be empty to search all languages.
func New(baseURL, langRestrict, placeholderCover string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if placeholderCover == "" {
		placeholderCover = "/static/img/cover-placeholder.svg"
	}
	return &Client{
		baseURL:      baseURL,
		langRestrict: langRestrict,
		placeholder:  placeholderCover,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// volumesResponse mirrors the slice of the API response we care about.
type volumesResponse struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title               string   `json:"title"`
			Authors             []string `json:"authors"`
			Description         string   `json:"description"`
			PageCount           int      `json:"pageCount"`
			PublishedDate       string   `json:"publishedDate"`
			Publisher           string   `json:"publisher"`
			ImageLinks          struct {
				Thumbnail      string `json:"thumbnail"`
				SmallThumbnail string `json:"smallThumbnail"`
			} `json:"imageLinks"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search queries the catalog for the given term and returns up to 20
// results. An empty or whitespace-only term returns an empty slice without
// calling the API.
func (c *Client) Search(ctx context.Context, term string) ([]models.CatalogBook, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", term)
	q.Set("maxResults", fmt.Sprintf("%d", maxResults))
	if c.langRestrict != "" {
		q.Set("langRestrict", c.langRestrict)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog search request failed", zap.Error(err))
		return nil, ErrSearchFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("catalog search returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("term", term))
		return nil, ErrSearchFailed
	}

	var payload volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("catalog search decode failed", zap.Error(err))
		return nil, ErrSearchFailed
	}

	books := make([]models.CatalogBook, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.ID == "" {
			continue
		}
		info := item.VolumeInfo

		title := info.Title
		if title == "" {
			title = "Unknown Title"
		}
		authors := info.Authors
		if len(authors) == 0 {
			authors = []string{"Unknown Author"}
		}

		cover := info.ImageLinks.Thumbnail
		if cover == "" {
			cover = info.ImageLinks.SmallThumbnail
		}
		cover = normalizeCoverURL(cover, c.placeholder)

		var isbn string
		for _, id := range info.IndustryIdentifiers {
			if id.Type == "ISBN_13" {
				isbn = id.Identifier
				break
			}
			if id.Type == "ISBN_10" && isbn == "" {
				isbn = id.Identifier
			}
		}

		books = append(books, models.CatalogBook{
			GoogleID:      item.ID,
			Title:         title,
			Authors:       authors,
			Description:   info.Description,
			CoverURL:      cover,
			PageCount:     info.PageCount,
			PublishedDate: info.PublishedDate,
			Publisher:     info.Publisher,
			ISBN:          isbn,
		})
	}
	return books, nil
}

// normalizeCoverURL upgrades http cover links to https (the API still hands
// out http thumbnails) and falls back to the placeholder when there is no
// cover at all.
func normalizeCoverURL(raw, placeholder string) string {
	if raw == "" {
		return placeholder
	}
	if strings.HasPrefix(raw, "http://") {
		return "https://" + strings.TrimPrefix(raw, "http://")
	}
	return raw
}
