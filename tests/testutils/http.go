package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestServer wraps httptest.Server with a browser-like client: it keeps
// cookies between requests and does not follow redirects, so tests can
// assert on Location headers.
type TestServer struct {
	*httptest.Server
	Client *http.Client
	t      *testing.T
}

func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	server := httptest.NewServer(handler)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &TestServer{
		Server: server,
		Client: client,
		t:      t,
	}
}

func (ts *TestServer) GET(path string) *http.Response {
	return ts.Do(http.MethodGet, path, nil, "", "")
}

func (ts *TestServer) PostForm(path string, form url.Values) *http.Response {
	return ts.Do(http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", "")
}

func (ts *TestServer) POST(path string, body interface{}, token string) *http.Response {
	return ts.Do(http.MethodPost, path, jsonBody(ts.t, body), "application/json", token)
}

func (ts *TestServer) PUT(path string, body interface{}, token string) *http.Response {
	return ts.Do(http.MethodPut, path, jsonBody(ts.t, body), "application/json", token)
}

func (ts *TestServer) DELETE(path, token string) *http.Response {
	return ts.Do(http.MethodDelete, path, nil, "", token)
}

func (ts *TestServer) Do(method, path string, body io.Reader, contentType, token string) *http.Response {
	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(ts.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(ts.t, err)
	return resp
}

// ReadBody reads and closes the response body.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func AssertJSONResponse(t *testing.T, resp *http.Response, expectedStatus int, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, expectedStatus, resp.StatusCode)

	if target != nil {
		err := json.NewDecoder(resp.Body).Decode(target)
		require.NoError(t, err)
	}
}

func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, expectedStatus, resp.StatusCode)

	var errorResp map[string]interface{}
	err := json.NewDecoder(resp.Body).Decode(&errorResp)
	require.NoError(t, err)

	if expectedMessage != "" {
		require.Contains(t, errorResp["error"], expectedMessage)
	}
}

func jsonBody(t *testing.T, body interface{}) io.Reader {
	if body == nil {
		return nil
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}
