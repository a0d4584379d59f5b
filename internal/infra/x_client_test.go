package infra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestPostMedia_ReturnsPlatformPayload(t *testing.T) {
	var gotAuth string
	var gotBody xPostRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "173", "text": "look at this"},
		})
	}))
	defer srv.Close()

	client := &XClient{apiURL: srv.URL, bearerToken: "tok", client: srv.Client()}

	result, err := client.PostMedia(context.Background(), "https://bucket/v.mp4", "look at this")

	assert.Equal(t, nil, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "https://bucket/v.mp4", gotBody.MediaURL)

	data := result["data"].(map[string]any)
	assert.Equal(t, "173", data["id"])
}

func TestPostMedia_HTTPErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"duplicate content"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	client := &XClient{apiURL: srv.URL, bearerToken: "tok", client: srv.Client()}

	_, err := client.PostMedia(context.Background(), "https://bucket/v.mp4", "")

	assert.NotEqual(t, nil, err)
}

func TestPostMedia_MissingToken(t *testing.T) {
	client := &XClient{apiURL: "https://api.x.com/2/tweets", client: http.DefaultClient}

	_, err := client.PostMedia(context.Background(), "https://bucket/v.mp4", "")

	assert.NotEqual(t, nil, err)
}
