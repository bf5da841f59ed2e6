// Package client talks to the shopping list REST API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	transport runtime.ClientTransport
	schemes   []string
}

type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// New returns a client for the API served at baseURL, for example
// http://localhost:9090.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q needs a scheme and host", baseURL)
	}

	o := &options{httpClient: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(o)
	}

	basePath := u.Path
	if basePath == "" {
		basePath = "/"
	}

	rt := httptransport.NewWithClient(u.Host, basePath, []string{u.Scheme}, o.httpClient)
	return &Client{transport: rt, schemes: []string{u.Scheme}}, nil
}

// APIError is a non-success response. Message is the server's own text.
type APIError struct {
	StatusCode int
	Message    string
	Messages   []string
}

func (e *APIError) Error() string {
	return e.Message
}

func (c *Client) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := c.submit(ctx, "listItems", http.MethodGet, "/api/items", noParams, http.StatusOK, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, id int) (domain.Item, error) {
	var item domain.Item
	err := c.submit(ctx, "getItemByID", http.MethodGet, "/api/items/{id}", idParam(id), http.StatusOK, &item)
	return item, err
}

// AddItem creates an item and returns it as stored by the server.
func (c *Client) AddItem(ctx context.Context, description string) (domain.Item, error) {
	var item domain.Item
	params := bodyParam(map[string]string{"description": description})
	err := c.submit(ctx, "addItem", http.MethodPost, "/api/items", params, http.StatusCreated, &item)
	return item, err
}

// UpdateItem replaces the stored record with item.
func (c *Client) UpdateItem(ctx context.Context, item domain.Item) error {
	params := runtime.ClientRequestWriterFunc(func(req runtime.ClientRequest, reg strfmt.Registry) error {
		if err := idParam(item.ID).WriteToRequest(req, reg); err != nil {
			return err
		}
		return req.SetBodyParam(item)
	})
	return c.submit(ctx, "updateItem", http.MethodPut, "/api/items/{id}", params, http.StatusNoContent, nil)
}

func (c *Client) DeleteItem(ctx context.Context, id int) error {
	return c.submit(ctx, "deleteItem", http.MethodDelete, "/api/items/{id}", idParam(id), http.StatusNoContent, nil)
}

var noParams = runtime.ClientRequestWriterFunc(func(runtime.ClientRequest, strfmt.Registry) error {
	return nil
})

func idParam(id int) runtime.ClientRequestWriter {
	return runtime.ClientRequestWriterFunc(func(req runtime.ClientRequest, _ strfmt.Registry) error {
		return req.SetPathParam("id", strconv.Itoa(id))
	})
}

func bodyParam(body interface{}) runtime.ClientRequestWriter {
	return runtime.ClientRequestWriterFunc(func(req runtime.ClientRequest, _ strfmt.Registry) error {
		return req.SetBodyParam(body)
	})
}

func (c *Client) submit(
	ctx context.Context,
	id, method, pathPattern string,
	params runtime.ClientRequestWriter,
	want int,
	out interface{},
) error {
	_, err := c.transport.Submit(&runtime.ClientOperation{
		ID:                 id,
		Method:             method,
		PathPattern:        pathPattern,
		ProducesMediaTypes: []string{runtime.JSONMime},
		ConsumesMediaTypes: []string{runtime.JSONMime},
		Schemes:            c.schemes,
		Params:             params,
		Reader:             responseReader(want, out),
		Context:            ctx,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr
		}
		return fmt.Errorf("%s %s: %w", method, pathPattern, err)
	}
	return nil
}

// responseReader decodes a want response into out and turns anything else
// into an *APIError.
func responseReader(want int, out interface{}) runtime.ClientResponseReader {
	return runtime.ClientResponseReaderFunc(func(resp runtime.ClientResponse, consumer runtime.Consumer) (interface{}, error) {
		if resp.Code() != want {
			return nil, decodeAPIError(resp)
		}
		if out == nil {
			return nil, nil
		}
		if err := consumer.Consume(resp.Body(), out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return out, nil
	})
}

func decodeAPIError(resp runtime.ClientResponse) error {
	apiErr := &APIError{StatusCode: resp.Code()}

	data, _ := io.ReadAll(io.LimitReader(resp.Body(), 64<<10))
	var body struct {
		Message  string   `json:"message"`
		Messages []string `json:"messages"`
	}

	trimmed := strings.TrimSpace(string(data))
	switch {
	case json.Unmarshal(data, &body) == nil && body.Message != "":
		apiErr.Message = body.Message
		apiErr.Messages = body.Messages
	case trimmed != "":
		apiErr.Message = trimmed
	default:
		apiErr.Message = http.StatusText(resp.Code())
	}

	return apiErr
}
