package controls

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Highlight timings, seconds.
const (
	highlightIn  = 0.08
	highlightOut = 0.25
)

// ErrModelNotFound is returned by a ModelLoader that does not know a URL.
var ErrModelNotFound = errors.New("controls: model not found")

// ModelInfo is what a model load yields: the mesh driven by each named
// button.
type ModelInfo struct {
	URL    string
	Meshes map[string]string
}

// ModelLoader resolves a controller model. Loads run off the tick
// goroutine.
type ModelLoader interface {
	Load(ctx context.Context, url string) (ModelInfo, error)
}

type profileLoader struct {
	reg *Registry
}

// ProfileLoader resolves models from the button meshes declared by the
// registry's profiles.
func ProfileLoader(r *Registry) ModelLoader { return profileLoader{reg: r} }

func (l profileLoader) Load(ctx context.Context, url string) (ModelInfo, error) {
	if err := ctx.Err(); err != nil {
		return ModelInfo{}, err
	}
	for _, p := range l.reg.Profiles() {
		for _, u := range p.ModelURL {
			if u == url {
				return ModelInfo{URL: url, Meshes: p.ButtonMeshes}, nil
			}
		}
	}
	return ModelInfo{}, errors.Wrap(ErrModelNotFound, url)
}

// Feedback is the per-component side table of button highlights. The model
// loader goroutine writes the mesh table; everything else runs on the tick.
type Feedback struct {
	mu     sync.Mutex
	model  string
	meshes map[string]string
	// gen invalidates loads started before the last Reset.
	gen int

	tweens map[string]*gween.Tween
	levels map[string]float64
}

func NewFeedback() *Feedback {
	return &Feedback{
		tweens: make(map[string]*gween.Tween),
		levels: make(map[string]float64),
	}
}

// Load resolves url in the background. A failed load only logs; the
// component keeps working without highlights.
func (f *Feedback) Load(ctx context.Context, loader ModelLoader, url string, logger *slog.Logger) {
	if loader == nil || url == "" {
		return
	}
	f.mu.Lock()
	gen := f.gen
	f.mu.Unlock()

	go func() {
		info, err := loader.Load(ctx, url)
		if err != nil {
			logger.Warn("controller model load failed", "url", url, "error", err)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.gen != gen {
			return
		}
		f.model = info.URL
		f.meshes = info.Meshes
	}()
}

// Reset drops the model and all highlights.
func (f *Feedback) Reset() {
	f.mu.Lock()
	f.gen++
	f.model = ""
	f.meshes = nil
	f.mu.Unlock()

	clear(f.tweens)
	clear(f.levels)
}

// Model returns the loaded model URL, "" until a load finishes.
func (f *Feedback) Model() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.model
}

// Press starts a highlight tween for button towards lit or unlit.
func (f *Feedback) Press(button string, pressed bool) {
	from := float32(f.levels[button])
	to, d := float32(0), float32(highlightOut)
	if pressed {
		to, d = 1, highlightIn
	}
	f.tweens[button] = gween.New(from, to, d, ease.OutQuad)
}

// Update advances the running tweens.
func (f *Feedback) Update(dt time.Duration) {
	s := float32(dt.Seconds())
	for name, tw := range f.tweens {
		v, done := tw.Update(s)
		f.levels[name] = float64(v)
		if done {
			delete(f.tweens, name)
		}
	}
}

// Highlights maps mesh names to highlight levels in [0,1]. Buttons with no
// known mesh are reported under their own name.
func (f *Feedback) Highlights() map[string]float64 {
	f.mu.Lock()
	meshes := f.meshes
	f.mu.Unlock()

	out := make(map[string]float64, len(f.levels))
	for button, level := range f.levels {
		if level == 0 {
			continue
		}
		name := button
		if m, ok := meshes[button]; ok {
			name = m
		}
		out[name] = level
	}
	return out
}
