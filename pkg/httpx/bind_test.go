package httpx_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/aussiebroadwan/licensor/pkg/httpx"
	"github.com/stretchr/testify/require"
)

type activateBody struct {
	Domain string `json:"domain" validate:"required,hostname_rfc1123"`
	Key    string `json:"key" validate:"required"`
}

func TestDecode(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"domain":"a.example.com","key":"k"}`))
		req.Header.Set("Content-Type", "application/json")

		var body activateBody
		require.NoError(t, httpx.Decode(req, &body))
		require.Equal(t, activateBody{Domain: "a.example.com", Key: "k"}, body)
	})

	t.Run("form body", func(t *testing.T) {
		form := url.Values{"domain": {"a.example.com"}, "key": {"k"}}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var body activateBody
		require.NoError(t, httpx.Decode(req, &body))
		require.Equal(t, "a.example.com", body.Domain)
		require.Equal(t, "k", body.Key)
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		var body activateBody
		require.NoError(t, httpx.Decode(req, &body))
		require.Empty(t, body.Domain)
	})

	t.Run("multipart body", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("domain", "a.example.com"))
		require.NoError(t, mw.WriteField("key", "k"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		var body activateBody
		require.NoError(t, httpx.Decode(req, &body))
		require.Equal(t, activateBody{Domain: "a.example.com", Key: "k"}, body)
	})

	t.Run("unreadable form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("domain=%zz"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		var body activateBody
		require.ErrorIs(t, httpx.Decode(req, &body), httpx.ErrBadBody)
	})
}

func TestDecode_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields map[string]string
	}{
		{"number for domain", `{"domain":123,"key":"k"}`, map[string]string{"domain": "must be a string"}},
		{"number for key", `{"domain":"a.example.com","key":42}`, map[string]string{"key": "must be a string"}},
		{"array body", `["a.example.com"]`, map[string]string{"body": "must be an object"}},
		{"not json", `not json`, map[string]string{"body": "must be a JSON object"}},
		{"truncated", `{"domain":`, map[string]string{"body": "must be a JSON object"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			var body activateBody
			var verr *httpx.ValidationError
			require.ErrorAs(t, httpx.Decode(req, &body), &verr)
			require.Equal(t, tt.fields, verr.Fields)
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, httpx.Validate(activateBody{Domain: "a.example.com", Key: "k"}))

	err := httpx.Validate(activateBody{Domain: "not a host"})
	var verr *httpx.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "must be a valid hostname", verr.Fields["domain"])
	require.Equal(t, "is required", verr.Fields["key"])
	require.Contains(t, verr.Error(), "domain must be a valid hostname")
}
