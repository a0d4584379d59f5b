package domain

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/artcast/mediagen/internal/config"
	"github.com/artcast/mediagen/internal/ports"
)

// WanEngine drives the Wan 2.1 render process. Construction is
// expensive (model warmup on first use), so it is handed out through
// EngineProvider and built at most once per process.
type WanEngine struct {
	cfg config.WanConfig
}

// EngineProvider is the process-wide holder of the engine. The
// check-and-create is guarded so concurrent first requests cannot
// build two handles.
type EngineProvider struct {
	cfg config.WanConfig

	once   sync.Once
	engine *WanEngine
	err    error
}

func NewEngineProvider(cfg config.WanConfig) *EngineProvider {
	return &EngineProvider{cfg: cfg}
}

// Engine returns the shared handle, initializing it on first call.
// No teardown: the handle lives for the rest of the process.
func (p *EngineProvider) Engine() (ports.VideoEngine, error) {
	p.once.Do(func() {
		log.Printf("[WAN][INIT] ckpt=%s", p.cfg.CkptDir)
		start := time.Now()

		if _, err := os.Stat(p.cfg.CkptDir); err != nil {
			p.err = fmt.Errorf("wan checkpoint dir: %w", err)
			return
		}

		p.engine = &WanEngine{cfg: p.cfg}
		log.Printf("[WAN][INIT-OK] dur=%s", time.Since(start))
	})

	if p.err != nil {
		return nil, p.err
	}
	return p.engine, nil
}

func (e *WanEngine) Generate(ctx context.Context, job ports.VideoJob) (string, error) {
	if len(job.RefImages) == 0 {
		return "", fmt.Errorf("no reference images")
	}

	start := time.Now()
	log.Printf("[WAN][START] refs=%d out=%s", len(job.RefImages), job.OutPath)

	args := []string{
		e.cfg.Script,
		"--task", "vace-1.3B",
		"--ckpt_dir", e.cfg.CkptDir,
		"--prompt", job.Prompt,
		"--src_ref_images", job.RefImages[0],
		"--save_file", job.OutPath,
		"--size", "832*480",
		"--frame_num", "41",
		"--sample_steps", "25",
		"--sample_shift", "16.0",
		"--sample_solver", "unipc",
		"--sample_guide_scale", "5.0",
		"--base_seed", "-1",
		"--offload_model", "True",
	}

	cmd := exec.CommandContext(ctx, e.cfg.Python, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		log.Printf("[WAN][ERR-exec] %v out=%q", err, trim(string(out), 280))
		return "", fmt.Errorf("wan render: %w", err)
	}

	if _, err := os.Stat(job.OutPath); err != nil {
		return "", fmt.Errorf("wan output missing at %s: %w", job.OutPath, err)
	}

	log.Printf("[WAN][OK] out=%s dur=%s", job.OutPath, time.Since(start))
	return job.OutPath, nil
}
