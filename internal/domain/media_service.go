package domain

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/artcast/mediagen/internal/config"
	"github.com/artcast/mediagen/internal/models"
	"github.com/artcast/mediagen/internal/ports"
)

// wanPrompt is the fixed video prompt used for every augmentation run.
const wanPrompt = "create a coherent video animation using the reference images with smooth transitions and engaging movement"

const manimRetryBudget = 5

// trim shortens log previews on a rune boundary so log lines stay
// valid UTF-8.
func trim(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

// EngineSource hands out the shared video engine.
type EngineSource interface {
	Engine() (ports.VideoEngine, error)
}

// MediaService orchestrates the generation paths: primary fal
// synthesis, the optional best-effort Wan augmentation, and manim.
type MediaService struct {
	gen     ports.MediaGenerator
	manim   ports.ManimGenerator
	repo    ports.MediaRepository
	storage ports.ObjectStorage
	engines EngineSource
	wan     config.WanConfig

	client *http.Client
	events chan models.MediaEvent
}

func NewMediaService(
	gen ports.MediaGenerator,
	manim ports.ManimGenerator,
	repo ports.MediaRepository,
	storage ports.ObjectStorage,
	engines EngineSource,
	wan config.WanConfig,
) *MediaService {
	return &MediaService{
		gen:     gen,
		manim:   manim,
		repo:    repo,
		storage: storage,
		engines: engines,
		wan:     wan,
		client:  &http.Client{},
		events:  make(chan models.MediaEvent, 100),
	}
}

func (m *MediaService) Events() <-chan models.MediaEvent { return m.events }

func (m *MediaService) publish(ev models.MediaEvent) {
	select {
	case m.events <- ev:
	default:
		log.Printf("[EVENTS][DROP] kind=%s media=%d", ev.Kind, ev.MediaID)
	}
}

// ========================================================================
// PRIMARY GENERATION
// ========================================================================
// Generate runs the primary path and, when the Wan profile is active,
// the augmentation sub-flow. Augmentation failures are logged and
// swallowed: the parent request never fails because of them.
func (m *MediaService) Generate(
	ctx context.Context,
	articleURL string,
	userID int,
	style string,
	personaID *int,
) (*models.GenerationResult, *models.WanVideoResult, error) {

	result, err := m.gen.ProcessArticle(ctx, articleURL, userID, style, personaID)
	if err != nil {
		return nil, nil, err
	}
	if result == nil {
		return nil, nil, nil
	}

	for _, e := range result.Entries {
		m.publish(models.MediaEvent{
			Kind:      models.MediaTypeImage,
			ArticleID: result.ArticleID,
			MediaID:   e.MediaID,
			URL:       e.URL,
		})
	}

	var wan *models.WanVideoResult
	if m.wan.Enabled {
		wan, err = m.augmentFromImages(ctx, result.ArticleID)
		if err != nil {
			log.Printf("[AUGMENT][FAIL] article=%d err=%v", result.ArticleID, err)
			wan = nil
		}
	}

	return result, wan, nil
}

// ========================================================================
// MANIM
// ========================================================================
func (m *MediaService) Manim(
	ctx context.Context,
	articleURL string,
	userID int,
) (*models.ManimResult, error) {

	result, err := m.manim.ProcessArticle(ctx, articleURL, userID, manimRetryBudget)
	if err != nil || result == nil {
		return nil, err
	}

	m.publish(models.MediaEvent{
		Kind:      "manim",
		ArticleID: result.ArticleID,
		MediaID:   result.MediaID,
		URL:       result.VideoPath,
	})

	return result, nil
}

// ========================================================================
// AUGMENTATION (best-effort)
// ========================================================================
// augmentFromImages downloads the article's image media into a fresh
// run directory, renders a Wan video from the first reference, uploads
// it (local path fallback on upload failure) and persists the row.
// (nil, nil) means there was nothing to augment.
func (m *MediaService) augmentFromImages(ctx context.Context, articleID int) (*models.WanVideoResult, error) {
	urls, err := m.repo.GetMediaURLsByArticle(ctx, articleID, models.MediaTypeImage)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		log.Printf("[AUGMENT][SKIP] article=%d no images", articleID)
		return nil, nil
	}

	timestamp := time.Now().Format("20060102_150405")
	runDir := filepath.Join(m.wan.OutputDir, "run_"+timestamp)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}

	log.Printf("[AUGMENT][START] article=%d images=%d dir=%s", articleID, len(urls), runDir)

	// sequential downloads, indexed for traceability
	var localPaths []string
	for i, url := range urls {
		dest := filepath.Join(runDir, fmt.Sprintf("ref_image_%d.png", i))
		if err := m.downloadImage(ctx, url, dest); err != nil {
			return nil, fmt.Errorf("download ref %d: %w", i, err)
		}
		localPaths = append(localPaths, dest)
	}

	engine, err := m.engines.Engine()
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(runDir, fmt.Sprintf("wan_video_%s.mp4", timestamp))

	if _, err := engine.Generate(ctx, ports.VideoJob{
		Prompt:    wanPrompt,
		RefImages: localPaths,
		OutPath:   outPath,
	}); err != nil {
		return nil, err
	}

	mediaURL, err := m.storage.Upload(ctx, outPath, "wan_videos")
	if err != nil {
		// keep the local path as the stored url, no retry
		log.Printf("[AUGMENT][UPLOAD-FALLBACK] article=%d err=%v", articleID, err)
		mediaURL = outPath
	}

	media, err := m.repo.InsertMedia(ctx, &models.Media{
		ArticleID: articleID,
		Prompt:    wanPrompt,
		Style:     "wan_video",
		Type:      models.MediaTypeVideo,
		URL:       mediaURL,
	})
	if err != nil {
		return nil, err
	}

	m.publish(models.MediaEvent{
		Kind:      models.MediaTypeVideo,
		ArticleID: articleID,
		MediaID:   media.ID,
		URL:       mediaURL,
	})

	log.Printf("[AUGMENT][OK] article=%d media=%d url=%s", articleID, media.ID, trim(mediaURL, 180))

	return &models.WanVideoResult{
		MediaID:            media.ID,
		VideoURL:           mediaURL,
		Prompt:             wanPrompt,
		NumReferenceImages: len(urls),
	}, nil
}

func (m *MediaService) downloadImage(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: http %d", url, resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	return nil
}
