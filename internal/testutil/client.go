// Package testutil provides utilities for testing
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// Client drives requests through an http.Handler in-process, without a socket
type Client struct {
	handler http.Handler
}

// Response is a recorded response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewClient creates a client bound to handler
func NewClient(handler http.Handler) *Client {
	return &Client{handler: handler}
}

// JSON decodes the response body into v
func (r *Response) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Do serves req and records the response
func (c *Client) Do(req *http.Request) *Response {
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)

	result := w.Result()
	defer result.Body.Close()
	body, _ := io.ReadAll(result.Body)

	return &Response{
		StatusCode: result.StatusCode,
		Header:     result.Header,
		Body:       body,
	}
}

// Get issues a GET request. A non-empty token is sent as a bearer token.
func (c *Client) Get(path string, token ...string) *Response {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	setBearer(req, token)
	return c.Do(req)
}

// PostJSON issues a POST request with a JSON body
func (c *Client) PostJSON(path, body string, token ...string) *Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	setBearer(req, token)
	return c.Do(req)
}

// PostForm issues a POST request with a urlencoded form body
func (c *Client) PostForm(path string, form url.Values) *Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req)
}

func setBearer(req *http.Request, token []string) {
	if len(token) > 0 && token[0] != "" {
		req.Header.Set("Authorization", "Bearer "+token[0])
	}
}
