package generator

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/genai"
	"github.com/foomo/sitegen/pkg/metrics"
	"github.com/foomo/sitegen/pkg/prompt"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FallbackImageURL is used for every image slot the provider could not fill
const FallbackImageURL = content.FallbackImageURL

// ErrModelNotFound the configured model is unknown or not accessible with the api key
var ErrModelNotFound = errors.New("Model not found or API key restricted. Please ensure your API key is correctly configured.") //nolint:revive,stylecheck

const modelNotFoundMessage = "Requested entity was not found"

type (
	// Provider generates text and images
	Provider interface {
		GenerateJSON(ctx context.Context, model, text string, schema *prompt.Schema) (string, error)
		GenerateImage(ctx context.Context, model, prompt string) (*genai.Image, error)
	}
	// ProgressFunc receives human readable progress messages
	ProgressFunc func(message string)
	Generator    struct {
		l              *zap.Logger
		provider       Provider
		textModel      string
		imageModel     string
		statusInterval time.Duration
	}
	Option func(*Generator)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, provider Provider, opts ...Option) *Generator {
	inst := &Generator{
		l:              l.Named("generator"),
		provider:       provider,
		textModel:      genai.DefaultTextModel,
		imageModel:     genai.DefaultImageModel,
		statusInterval: 2500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithTextModel(v string) Option {
	return func(o *Generator) {
		if v != "" {
			o.textModel = v
		}
	}
}

func WithImageModel(v string) Option {
	return func(o *Generator) {
		if v != "" {
			o.imageModel = v
		}
	}
}

func WithStatusInterval(v time.Duration) Option {
	return func(o *Generator) {
		o.statusInterval = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Generate produces a complete site document for inputs. The text request and the three image
// requests run concurrently and are all awaited. A failed text request fails the whole run while
// failed image requests are replaced with FallbackImageURL.
func (g *Generator) Generate(ctx context.Context, inputs content.GeneratorInputs, progress ProgressFunc) (*content.GeneratedSiteData, error) {
	inputs = inputs.Normalize()
	if err := inputs.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	l := g.l.With(zap.String("company", inputs.CompanyName), zap.String("industry", inputs.Industry))

	stop := g.reportProgress(progress)
	doc, err := g.generate(ctx, l, inputs)
	stop()

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.GenerationCounter.WithLabelValues(status).Inc()
	metrics.GenerationDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if err != nil {
		l.Error("generation failed", zap.Error(err))
		return nil, err
	}
	l.Info("generation completed", zap.Duration("duration", time.Since(start)))
	return doc, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (g *Generator) generate(ctx context.Context, l *zap.Logger, inputs content.GeneratorInputs) (*content.GeneratedSiteData, error) {
	var (
		grp    errgroup.Group
		text   string
		images = make([]string, len(prompt.Slots))
	)

	grp.Go(func() error {
		var err error
		text, err = g.provider.GenerateJSON(ctx, g.textModel, prompt.Build(inputs), prompt.ResponseSchema())
		return err
	})
	for i, slot := range prompt.Slots {
		grp.Go(func() error {
			images[i] = g.image(ctx, l, slot, inputs)
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		if strings.Contains(err.Error(), modelNotFoundMessage) {
			l.Error("text model not available", zap.String("model", g.textModel), zap.Error(err))
			return nil, ErrModelNotFound
		}
		return nil, err
	}

	doc := &content.GeneratedSiteData{}
	if err := json.Unmarshal([]byte(CleanJSON(text)), doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse generated site content")
	}

	doc.Hero.HeroImage = images[0]
	doc.Trust.Image = images[1]
	doc.WhyChooseUs.Image = images[2]
	doc.Contact = content.Contact{
		Phone:       inputs.Phone,
		Location:    inputs.Location,
		CompanyName: inputs.CompanyName,
	}

	if fixed := content.EnsureCTAPhone(doc, inputs.Phone); fixed > 0 {
		l.Warn("appended phone number to calls to action", zap.Int("count", fixed))
	}
	for _, v := range content.CheckCompliance(doc, inputs) {
		metrics.ComplianceViolationCounter.WithLabelValues(v.Rule).Inc()
		l.Warn("compliance violation in generated copy", zap.String("rule", v.Rule), zap.String("field", v.Field))
	}

	return doc, nil
}

func (g *Generator) image(ctx context.Context, l *zap.Logger, slot prompt.Slot, inputs content.GeneratorInputs) string {
	img, err := g.provider.GenerateImage(ctx, g.imageModel, prompt.Image(slot, inputs))
	if err != nil {
		metrics.ImageFallbackCounter.WithLabelValues(string(slot)).Inc()
		l.Warn("image generation failed, using fallback", zap.String("slot", string(slot)), zap.Error(err))
		return FallbackImageURL
	}
	return img.DataURI()
}

// reportProgress cycles through the status messages until the returned stop func is called
func (g *Generator) reportProgress(progress ProgressFunc) func() {
	if progress == nil || len(prompt.StatusMessages) == 0 {
		return func() {}
	}
	progress(prompt.StatusMessages[0])
	if g.statusInterval <= 0 {
		return func() {}
	}

	var (
		wg   sync.WaitGroup
		done = make(chan struct{})
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(g.statusInterval)
		defer ticker.Stop()
		for i := 1; i < len(prompt.StatusMessages); i++ {
			select {
			case <-done:
				return
			case <-ticker.C:
				progress(prompt.StatusMessages[i])
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

// CleanJSON strips markdown code fences from a model response
func CleanJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
