package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/artcast/mediagen/internal/models"
	"github.com/go-playground/assert/v2"
)

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func generateRouter(repo *fakeRepo, gen *fakeGenerator, manim *fakeManim) http.Handler {
	svc := newTestService(repo, gen, manim)
	hGen := NewGenerateHandler(svc, gen, testLogger())
	hMedia := NewMediaHandler(repo, testLogger())
	hSocial := NewSocialHandler(repo, &fakePoster{}, testLogger())
	return newTestRouter(hGen, hMedia, hSocial)
}

func TestGenerate_Success(t *testing.T) {
	gen := &fakeGenerator{result: &models.GenerationResult{
		ArticleID:  42,
		MediaCount: 2,
		Entries: []models.MediaEntry{
			{MediaID: 1, URL: "https://x/1.png", Concept: "fox"},
			{MediaID: 2, URL: "https://x/2.png", Concept: "den"},
		},
	}}
	r := generateRouter(&fakeRepo{}, gen, &fakeManim{})

	w := postJSON(t, r, "/generate", `{"link":"http://example.com/a1","style":"classic"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, float64(42), res["article_id"])
	assert.Equal(t, float64(2), res["media_count"])

	// wan profile disabled in this router: no wan_video key
	if _, ok := res["wan_video"]; ok {
		t.Fatal("unexpected wan_video block")
	}
}

func TestGenerate_EmptyResultIsSoftFailure(t *testing.T) {
	// upstream produced nothing: 200 with success:false, never a 500
	r := generateRouter(&fakeRepo{}, &fakeGenerator{}, &fakeManim{})

	w := postJSON(t, r, "/generate", `{"link":"http://example.com/a1","style":"classic"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res["success"])
}

func TestGenerate_MissingStyle(t *testing.T) {
	r := generateRouter(&fakeRepo{}, &fakeGenerator{}, &fakeManim{})

	w := postJSON(t, r, "/generate", `{"link":"http://example.com/a1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_UpstreamErrorIs500(t *testing.T) {
	r := generateRouter(&fakeRepo{}, &fakeGenerator{err: errBoom}, &fakeManim{})

	w := postJSON(t, r, "/generate", `{"style":"classic"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGenerate_WanProfileAddsVideoBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	repo := &fakeRepo{imageURLs: []string{srv.URL + "/ref.png"}}
	gen := &fakeGenerator{result: &models.GenerationResult{
		ArticleID:  42,
		MediaCount: 1,
		Entries:    []models.MediaEntry{{MediaID: 1, URL: "https://x/1.png", Concept: "fox"}},
	}}

	svc := newWanTestService(repo, gen, t.TempDir(), &fakeStorage{url: "https://bucket/wan_videos/v.mp4"})
	hGen := NewGenerateHandler(svc, gen, testLogger())
	r := newTestRouter(hGen, NewMediaHandler(repo, testLogger()), NewSocialHandler(repo, &fakePoster{}, testLogger()))

	w := postJSON(t, r, "/generate", `{"link":"http://example.com/a1","style":"classic"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Success  bool `json:"success"`
		WanVideo *struct {
			MediaID  int    `json:"media_id"`
			VideoURL string `json:"video_url"`
		} `json:"wan_video"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res.Success)
	if res.WanVideo == nil {
		t.Fatal("expected wan_video block in response")
	}
	assert.Equal(t, "https://bucket/wan_videos/v.mp4", res.WanVideo.VideoURL)
}

func TestManim_Success(t *testing.T) {
	manim := &fakeManim{result: &models.ManimResult{
		ArticleID: 3,
		MediaID:   4,
		VideoPath: "/videos/sort.mp4",
		Concept:   "bubble sort",
	}}
	r := generateRouter(&fakeRepo{}, &fakeGenerator{}, manim)

	w := postJSON(t, r, "/manim", `{"link":"http://example.com/a1","style":"manim"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, float64(4), res["media_id"])
	assert.Equal(t, "/videos/sort.mp4", res["video_path"])
	assert.Equal(t, "bubble sort", res["concept"])
}

func TestManim_EmptyResultIsSoftFailure(t *testing.T) {
	r := generateRouter(&fakeRepo{}, &fakeGenerator{}, &fakeManim{})

	w := postJSON(t, r, "/manim", `{"link":"http://example.com/a1","style":"manim"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res["success"])
}

func TestManim_MissingStyle(t *testing.T) {
	r := generateRouter(&fakeRepo{}, &fakeGenerator{}, &fakeManim{})

	w := postJSON(t, r, "/manim", `{"link":"http://example.com/a1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateImage_Success(t *testing.T) {
	gen := &fakeGenerator{imgRes: &models.ImageResult{
		Images: []models.ImageInfo{{URL: "https://x/y.png", Width: 1024, Height: 768}},
	}}
	r := generateRouter(&fakeRepo{}, gen, &fakeManim{})

	w := postJSON(t, r, "/generate_image", `{"prompt":"a red fox"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Success  bool             `json:"success"`
		ImageURL string           `json:"image_url"`
		Metadata models.ImageInfo `json:"metadata"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res.Success)
	assert.Equal(t, "https://x/y.png", res.ImageURL)
	assert.Equal(t, 1024, res.Metadata.Width)
}

func TestGenerateImage_NoImagesIs500(t *testing.T) {
	gen := &fakeGenerator{imgRes: &models.ImageResult{}}
	r := generateRouter(&fakeRepo{}, gen, &fakeManim{})

	w := postJSON(t, r, "/generate_image", `{"prompt":"a red fox"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
