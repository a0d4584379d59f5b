package delivery

import (
	"context"
	"errors"
	"os"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/artcast/mediagen/internal/config"
	"github.com/artcast/mediagen/internal/domain"
	"github.com/artcast/mediagen/internal/models"
	"github.com/artcast/mediagen/internal/ports"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errBoom = errors.New("boom")

type fakeRepo struct {
	media     map[int]*models.Media
	listing   []models.MediaWithArticle
	searchHit []models.MediaWithArticle
	imageURLs []string

	gotLimit  int
	gotSearch string
	deleted   []int
	listErr   error
	getErr    error
	deleteErr error
}

func (f *fakeRepo) InsertArticle(ctx context.Context, a *models.Article) (*models.Article, error) {
	a.ID = 1
	return a, nil
}

func (f *fakeRepo) InsertMedia(ctx context.Context, m *models.Media) (*models.Media, error) {
	m.ID = 1
	return m, nil
}

func (f *fakeRepo) GetMediaByID(ctx context.Context, id int) (*models.Media, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.media[id], nil
}

func (f *fakeRepo) GetMediaURLsByArticle(ctx context.Context, articleID int, mediaType string) ([]string, error) {
	return f.imageURLs, nil
}

func (f *fakeRepo) GetMediaWithArticleInfo(ctx context.Context, limit int) ([]models.MediaWithArticle, error) {
	f.gotLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.listing) {
		return f.listing[:limit], nil
	}
	return f.listing, nil
}

func (f *fakeRepo) SearchMedia(ctx context.Context, term string, limit int) ([]models.MediaWithArticle, error) {
	f.gotSearch = term
	f.gotLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.searchHit) {
		return f.searchHit[:limit], nil
	}
	return f.searchHit, nil
}

func (f *fakeRepo) DeleteMedia(ctx context.Context, id int) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	if _, ok := f.media[id]; !ok {
		return false, nil
	}
	delete(f.media, id)
	f.deleted = append(f.deleted, id)
	return true, nil
}

func (f *fakeRepo) DeleteArticle(ctx context.Context, id int) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	existed := false
	for mid, m := range f.media {
		if m.ArticleID == id {
			delete(f.media, mid)
			existed = true
		}
	}
	return existed, nil
}

type fakeGenerator struct {
	result   *models.GenerationResult
	imgRes   *models.ImageResult
	err      error
	imgErr   error
	imgCalls int
}

func (f *fakeGenerator) ProcessArticle(ctx context.Context, url string, userID int, style string, personaID *int) (*models.GenerationResult, error) {
	return f.result, f.err
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, prompt string) (*models.ImageResult, error) {
	f.imgCalls++
	return f.imgRes, f.imgErr
}

type fakeManim struct {
	result *models.ManimResult
	err    error
}

func (f *fakeManim) ProcessArticle(ctx context.Context, url string, userID, maxRetries int) (*models.ManimResult, error) {
	return f.result, f.err
}

type fakeStorage struct {
	url string
}

func (f *fakeStorage) Upload(ctx context.Context, localPath, folder string) (string, error) {
	if f.url == "" {
		return "", errBoom
	}
	return f.url, nil
}

type fakePoster struct {
	payload map[string]any
	err     error
	calls   int
	gotURL  string
	gotText string
}

func (f *fakePoster) PostMedia(ctx context.Context, mediaURL, text string) (map[string]any, error) {
	f.calls++
	f.gotURL = mediaURL
	f.gotText = text
	return f.payload, f.err
}

type fakeEngine struct{}

func (f *fakeEngine) Generate(ctx context.Context, job ports.VideoJob) (string, error) {
	if err := os.WriteFile(job.OutPath, []byte("mp4"), 0644); err != nil {
		return "", err
	}
	return job.OutPath, nil
}

type fakeEngineSource struct{}

func (f *fakeEngineSource) Engine() (ports.VideoEngine, error) {
	return &fakeEngine{}, nil
}

func testLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

func newTestService(repo ports.MediaRepository, gen ports.MediaGenerator, manim ports.ManimGenerator) *domain.MediaService {
	// wan disabled: handler tests exercise the primary paths only
	return domain.NewMediaService(gen, manim, repo, &fakeStorage{}, &fakeEngineSource{}, config.WanConfig{})
}

func newWanTestService(repo ports.MediaRepository, gen ports.MediaGenerator, outputDir string, storage *fakeStorage) *domain.MediaService {
	return domain.NewMediaService(gen, &fakeManim{}, repo, storage, &fakeEngineSource{}, config.WanConfig{
		Enabled:   true,
		OutputDir: outputDir,
	})
}

func newTestRouter(hGen *GenerateHandler, hMedia *MediaHandler, hSocial *SocialHandler) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, hGen, hMedia, hSocial)
	return r
}
