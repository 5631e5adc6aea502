// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*Package client provides easy and fast in-process access to the REST api

Instead of marshalling HTTP, the client talks directly to the mux router.
It is perfectly suited for unit tests. With NewWithURL it can also talk to
a running service over the network.
*/
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/gorilla/mux"

	"github.com/ridemeet/ridemeet/core"
	"github.com/ridemeet/ridemeet/core/access"
)

// Client provides easy access to the REST API.
type Client struct {
	router     *mux.Router
	httpClient *http.Client
	url        string
	token      string
	identity   *access.Identity
	cookies    []*http.Cookie
	ctx        context.Context
}

// NewWithRouter creates a client to make pseudo-REST requests to the
// backend, through the mux router.
//
// WithIdentity() adds an identity to the request context, bypassing
// token verification. WithToken() exercises the full middleware chain.
func NewWithRouter(router *mux.Router) Client {
	return Client{router: router}
}

// NewWithURL creates a client to make REST requests to a running backend
func NewWithURL(url string) Client {
	return Client{
		url:        url,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// WithToken returns a new client that sends the credential token as
// Authorization bearer header
func (c Client) WithToken(token string) Client {
	c.token = token
	return c
}

// WithCookie returns a new client that sends the given cookie
func (c Client) WithCookie(cookie *http.Cookie) Client {
	c.cookies = append(append([]*http.Cookie{}, c.cookies...), cookie)
	return c
}

// WithIdentity returns a new client with the identity injected directly
// into the request context (this works only directly against the mux
// router, for a normal client use WithToken())
func (c Client) WithIdentity(identity *access.Identity) Client {
	c.identity = identity
	return c
}

// WithContext returns a new client with specific request context
func (c Client) WithContext(ctx context.Context) Client {
	c.ctx = ctx
	return c
}

// Context returns the client's base context
func (c Client) Context() context.Context {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if c.identity != nil {
		ctx = access.ContextWithIdentity(ctx, c.identity)
	}
	return ctx
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error *core.Error `json:"error"`
}

func (c Client) do(method, path string, body interface{}) (int, http.Header, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		raw, ok := body.([]byte)
		if !ok {
			var err error
			raw, err = json.Marshal(body)
			if err != nil {
				return 0, nil, nil, err
			}
		}
		reqBody = bytes.NewReader(raw)
	}

	r, err := http.NewRequestWithContext(c.Context(), method, c.url+path, reqBody)
	if err != nil {
		return 0, nil, nil, err
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, cookie := range c.cookies {
		r.AddCookie(cookie)
	}

	var res *http.Response
	var resBody []byte
	if c.router != nil {
		rec := httptest.NewRecorder()
		c.router.ServeHTTP(rec, r)
		res = rec.Result()
		resBody = rec.Body.Bytes()
	} else {
		res, err = c.httpClient.Do(r)
		if err != nil {
			return http.StatusInternalServerError, nil, nil, err
		}
		defer res.Body.Close()
		resBody, _ = io.ReadAll(res.Body)
	}
	return res.StatusCode, res.Header, resBody, nil
}

// decode interprets the response: success envelopes are unwrapped into
// result, error envelopes become a core.Error carrying the server's status.
func decode(status int, resBody []byte, result interface{}) (int, error) {
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		if result == nil || status == http.StatusNoContent {
			return status, nil
		}
		if raw, ok := result.(*[]byte); ok {
			*raw = resBody
			return status, nil
		}
		envelope := dataEnvelope{}
		if err := json.Unmarshal(resBody, &envelope); err != nil {
			return status, err
		}
		return status, json.Unmarshal(envelope.Data, result)
	}

	envelope := errorEnvelope{}
	if err := json.Unmarshal(resBody, &envelope); err != nil || envelope.Error == nil {
		return status, &core.Error{Message: strings.TrimSpace(string(resBody)), Status: status}
	}
	return status, envelope.Error
}

// Get gets the resource from path and unwraps the data envelope into
// result. Returns the actual http status code; failure responses are
// returned as *core.Error.
func (c Client) Get(path string, result interface{}) (int, error) {
	status, _, resBody, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return status, err
	}
	return decode(status, resBody, result)
}

// Post posts body to path. body can also be a []byte.
func (c Client) Post(path string, body interface{}, result interface{}) (int, error) {
	status, _, resBody, err := c.do(http.MethodPost, path, body)
	if err != nil {
		return status, err
	}
	return decode(status, resBody, result)
}

// PostWithHeader posts body to path and also returns the response header,
// which carries the jwt cookie on the authentication routes.
func (c Client) PostWithHeader(path string, body interface{}, result interface{}) (int, http.Header, error) {
	status, header, resBody, err := c.do(http.MethodPost, path, body)
	if err != nil {
		return status, header, err
	}
	status, err = decode(status, resBody, result)
	return status, header, err
}

// Patch patches the resource at path. body can also be a []byte.
func (c Client) Patch(path string, body interface{}, result interface{}) (int, error) {
	status, _, resBody, err := c.do(http.MethodPatch, path, body)
	if err != nil {
		return status, err
	}
	return decode(status, resBody, result)
}

// Delete deletes the resource at path
func (c Client) Delete(path string) (int, error) {
	status, _, resBody, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return status, err
	}
	return decode(status, resBody, nil)
}
