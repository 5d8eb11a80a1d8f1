package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"profile-hub/internal/domain"
)

func newServer(t *testing.T, status int, body string, check func(r *http.Request, req extractRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if check != nil {
			check(r, req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testDoc() domain.UploadedDocument {
	return domain.UploadedDocument{ID: "doc-1", FileName: "cv.pdf", MimeType: "application/pdf"}
}

func TestNewHTTPClientWithoutURL(t *testing.T) {
	assert.Nil(t, NewHTTPClient("  ", "", time.Second, zap.NewNop()))
}

func TestExtractReturnsValidatedData(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":{"full_name":"Ana","skills":["Go"],"extra":"kept"}}`,
		func(r *http.Request, req extractRequest) {
			assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
			assert.Equal(t, "doc-1", req.DocumentID)
			raw, err := base64.StdEncoding.DecodeString(req.ContentBase64)
			assert.NoError(t, err)
			assert.Equal(t, "hello", string(raw))
		})

	c := NewHTTPClient(srv.URL, "key", time.Second, zap.NewNop())
	data, err := c.Extract(context.Background(), testDoc(), []byte("hello"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"full_name":"Ana","skills":["Go"],"extra":"kept"}`, string(data))
}

func TestExtractRejectsSchemaMismatch(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":{"years_experience":"ten"}}`, nil)
	c := NewHTTPClient(srv.URL, "", time.Second, zap.NewNop())

	_, err := c.Extract(context.Background(), testDoc(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestExtractHandlesErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusBadGateway, `upstream down`},
		{"api error", http.StatusOK, `{"error":{"message":"unsupported document"}}`},
		{"bad json", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(t, tc.status, tc.body, nil)
			c := NewHTTPClient(srv.URL, "", time.Second, zap.NewNop())
			_, err := c.Extract(context.Background(), testDoc(), []byte("x"))
			assert.Error(t, err)
		})
	}
}

func TestExtractEmptyData(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"data":null}`, nil)
	c := NewHTTPClient(srv.URL, "", time.Second, zap.NewNop())
	_, err := c.Extract(context.Background(), testDoc(), []byte("x"))
	assert.True(t, errors.Is(err, ErrEmptyExtraction))
}

func TestValidateProfileData(t *testing.T) {
	assert.NoError(t, ValidateProfileData([]byte(`{"work_experience":[{"company":"Acme","title":"CEO"}]}`)))
	assert.Error(t, ValidateProfileData([]byte(`{"work_experience":[{"company":"Acme"}]}`)))
	assert.Error(t, ValidateProfileData([]byte(`["not","an","object"]`)))
}
