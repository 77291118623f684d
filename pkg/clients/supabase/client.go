package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hxtubes/hxreport/internal/config"
	"github.com/hxtubes/hxreport/internal/domain/models"
)

// DefaultPageSize matches the PostgREST default max-rows.
const DefaultPageSize = 1000

// DateColumn is the column used for ranged queries.
const DateColumn = "date"

// Client is a resty-backed PostgREST reader for Supabase views.
type Client struct {
	httpClient *resty.Client
	pageSize   int
	orders     map[string]string
}

// NewClient builds a client against cfg.URL using the service key for both apikey and bearer auth.
func NewClient(cfg config.SupabaseConfig) *Client {
	base := strings.TrimSuffix(cfg.URL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base+"/rest/v1").
		SetHeader("apikey", cfg.Key).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Key)).
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Client{httpClient: restyClient, pageSize: pageSize, orders: cfg.Order}
}

// apiError mirrors the PostgREST error payload.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// FetchRanged returns the rows of view whose date column lies in [start, end].
func (c *Client) FetchRanged(ctx context.Context, view string, start, end models.Date) ([]map[string]any, error) {
	filter := url.Values{}
	filter.Add(DateColumn, "gte."+start.String())
	filter.Add(DateColumn, "lte."+end.String())
	return c.fetch(ctx, view, filter)
}

// FetchAll returns every row of view.
func (c *Client) FetchAll(ctx context.Context, view string) ([]map[string]any, error) {
	return c.fetch(ctx, view, url.Values{})
}

func (c *Client) fetch(ctx context.Context, view string, filter url.Values) ([]map[string]any, error) {
	if view == "" {
		return nil, fmt.Errorf("view must not be empty")
	}

	rows := make([]map[string]any, 0)
	for offset := 0; ; offset += c.pageSize {
		page, err := c.fetchPage(ctx, view, filter, offset)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		if len(page) < c.pageSize {
			return rows, nil
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, view string, filter url.Values, offset int) ([]map[string]any, error) {
	params := url.Values{}
	for k, vs := range filter {
		params[k] = append([]string(nil), vs...)
	}
	params.Set("select", "*")
	// Offsets are only stable across pages under a total order.
	if order := c.orders[view]; order != "" {
		params.Set("order", order)
	}
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("offset", strconv.Itoa(offset))

	var page []map[string]any
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&page).
		SetError(apiErr).
		Get(url.PathEscape(view))
	if err != nil {
		return nil, fmt.Errorf("query view %s: %w", view, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("supabase api error: status=%d, code=%s, message=%s", resp.StatusCode(), apiErr.Code, apiErr.Message)
	}

	return page, nil
}
