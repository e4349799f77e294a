// Package wiki is the GraphQL client for the Wiki.js page store.
package wiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/machinebox/graphql"

	"paper2wiki/internal/models"
	"paper2wiki/internal/types"
)

const (
	defaultLocale  = "zh-tw"
	defaultTimeout = 5 * time.Second
)

type ClientConfig struct {
	GraphQLURL string
	APIToken   string
	Locale     string
	Timeout    time.Duration
}

type Client struct {
	config ClientConfig
	gql    *graphql.Client
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.GraphQLURL == "" {
		return nil, fmt.Errorf("wiki GraphQL URL is required")
	}
	if u, err := url.Parse(config.GraphQLURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid wiki GraphQL URL: %s", config.GraphQLURL)
	}
	if config.APIToken == "" {
		return nil, fmt.Errorf("wiki API token is required")
	}
	if config.Locale == "" {
		config.Locale = defaultLocale
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	gql := graphql.NewClient(config.GraphQLURL,
		graphql.WithHTTPClient(&http.Client{Timeout: config.Timeout}))

	return &Client{config: config, gql: gql}, nil
}

var _ types.PageStore = (*Client)(nil)

func (c *Client) newRequest(query string) *graphql.Request {
	req := graphql.NewRequest(query)
	req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	return req
}

const searchQuery = `
query SearchPages($term: String!) {
  pages {
    search(query: $term) {
      results {
        id
        title
        path
      }
    }
  }
}`

// Search returns the pages matching a search term; an empty slice when
// nothing matches.
func (c *Client) Search(ctx context.Context, term string) ([]models.ExistingPage, error) {
	req := c.newRequest(searchQuery)
	req.Var("term", term)

	var resp struct {
		Pages struct {
			Search struct {
				Results []struct {
					ID    string `json:"id"`
					Title string `json:"title"`
					Path  string `json:"path"`
				} `json:"results"`
			} `json:"search"`
		} `json:"pages"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("search pages %q: %w", term, err)
	}

	pages := make([]models.ExistingPage, 0, len(resp.Pages.Search.Results))
	for _, r := range resp.Pages.Search.Results {
		// Wiki.js returns search ids as strings even though pages are
		// addressed by Int elsewhere.
		id, err := strconv.Atoi(r.ID)
		if err != nil {
			return nil, fmt.Errorf("search pages %q: unexpected page id %q", term, r.ID)
		}
		pages = append(pages, models.ExistingPage{ID: id, Title: r.Title, Path: r.Path})
	}
	return pages, nil
}

const contentQuery = `
query PageContent($id: Int!) {
  pages {
    single(id: $id) {
      title
      content
    }
  }
}`

// GetContent reads one page by id, returning (nil, nil) when it does not
// exist.
func (c *Client) GetContent(ctx context.Context, id int) (*models.PageContent, error) {
	req := c.newRequest(contentQuery)
	req.Var("id", id)

	var resp struct {
		Pages struct {
			Single *struct {
				Title   string `json:"title"`
				Content string `json:"content"`
			} `json:"single"`
		} `json:"pages"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("read page %d: %w", id, err)
	}
	if resp.Pages.Single == nil {
		return nil, nil
	}
	return &models.PageContent{
		Title:   resp.Pages.Single.Title,
		Content: resp.Pages.Single.Content,
	}, nil
}

const createMutation = `
mutation CreatePage($title: String!, $content: String!, $path: String!, $tags: [String!]!, $description: String!, $locale: String!) {
  pages {
    create(
      title: $title
      content: $content
      path: $path
      tags: $tags
      description: $description
      editor: "markdown"
      locale: $locale
      isPublished: true
      isPrivate: false
    ) {
      responseResult {
        succeeded
        errorCode
        slug
        message
      }
    }
  }
}`

type responseResult struct {
	Succeeded bool   `json:"succeeded"`
	ErrorCode int    `json:"errorCode"`
	Slug      string `json:"slug"`
	Message   string `json:"message"`
}

func (r responseResult) toStoreResult() models.StoreResult {
	return models.StoreResult{
		Succeeded: r.Succeeded,
		ErrorCode: r.ErrorCode,
		Slug:      r.Slug,
		Message:   r.Message,
	}
}

// CreatePage creates a published markdown page under the configured locale.
func (c *Client) CreatePage(ctx context.Context, cr models.CreateRequest) (models.StoreResult, error) {
	req := c.newRequest(createMutation)
	req.Var("title", cr.Title)
	req.Var("content", cr.Content)
	req.Var("path", cr.Path)
	req.Var("tags", tagsOrEmpty(cr.Tags))
	description := cr.Description
	if description == "" {
		description = cr.Title
	}
	req.Var("description", description)
	req.Var("locale", c.config.Locale)

	var resp struct {
		Pages struct {
			Create struct {
				ResponseResult responseResult `json:"responseResult"`
			} `json:"create"`
		} `json:"pages"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return models.StoreResult{}, fmt.Errorf("create page %q: %w", cr.Title, err)
	}
	return resp.Pages.Create.ResponseResult.toStoreResult(), nil
}

const updateMutation = `
mutation UpdatePage($id: Int!, $title: String!, $content: String!, $tags: [String!]!, $locale: String!) {
  pages {
    update(
      id: $id
      title: $title
      content: $content
      tags: $tags
      editor: "markdown"
      locale: $locale
      isPublished: true
    ) {
      responseResult {
        succeeded
        errorCode
        slug
        message
      }
    }
  }
}`

// UpdatePage replaces the content of an existing page.
func (c *Client) UpdatePage(ctx context.Context, ur models.UpdateRequest) (models.StoreResult, error) {
	req := c.newRequest(updateMutation)
	req.Var("id", ur.ID)
	req.Var("title", ur.Title)
	req.Var("content", ur.Content)
	req.Var("tags", tagsOrEmpty(ur.Tags))
	req.Var("locale", c.config.Locale)

	var resp struct {
		Pages struct {
			Update struct {
				ResponseResult responseResult `json:"responseResult"`
			} `json:"update"`
		} `json:"pages"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		return models.StoreResult{}, fmt.Errorf("update page %d: %w", ur.ID, err)
	}
	return resp.Pages.Update.ResponseResult.toStoreResult(), nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
