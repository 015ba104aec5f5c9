package catalog

import (
	"context"
	"strconv"

	"github.com/go-resty/resty/v2"

	"bookshelf/internal/apperr"
)

// Book is a catalog search result in the shape the save operation accepts.
type Book struct {
	BookID      string   `json:"bookId"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Title       string   `json:"title"`
	Image       string   `json:"image,omitempty"`
	Link        string   `json:"link,omitempty"`
}

// Client queries the external book catalog (Google Books volumes API).
// The catalog is an opaque upstream: failures surface as unavailable,
// never retried here.
type Client struct {
	http *resty.Client
}

// NewClient builds a catalog client against baseURL.
func NewClient(baseURL string) *Client {
	return &Client{http: resty.New().SetBaseURL(baseURL)}
}

type volumesResponse struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title       string   `json:"title"`
			Authors     []string `json:"authors"`
			Description string   `json:"description"`
			InfoLink    string   `json:"infoLink"`
			ImageLinks  struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search returns up to limit volumes matching query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	var out volumesResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("maxResults", strconv.Itoa(limit)).
		SetResult(&out).
		Get("/volumes")
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "book catalog unavailable", err)
	}
	if resp.IsError() {
		return nil, apperr.New(apperr.KindUnavailable, "book catalog unavailable")
	}

	books := make([]Book, 0, len(out.Items))
	for _, item := range out.Items {
		authors := item.VolumeInfo.Authors
		if authors == nil {
			authors = []string{}
		}
		books = append(books, Book{
			BookID:      item.ID,
			Authors:     authors,
			Description: item.VolumeInfo.Description,
			Title:       item.VolumeInfo.Title,
			Image:       item.VolumeInfo.ImageLinks.Thumbnail,
			Link:        item.VolumeInfo.InfoLink,
		})
	}
	return books, nil
}
