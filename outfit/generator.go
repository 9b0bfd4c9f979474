package outfit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"outfitapi/models"
)

var (
	ErrEmptyPrompt         = errors.New("prompt is empty")
	ErrEmptyWardrobe       = errors.New("wardrobe is empty")
	ErrQuotaExceeded       = errors.New("daily generation quota exceeded")
	ErrAINotAuthenticated  = errors.New("ai stylist not authenticated")
	ErrAIUsageLimitReached = errors.New("ai stylist usage limit reached")
)

// Failure is a terminal generation outcome. OfferUpgrade tells the caller
// to surface a subscription upsell alongside the error.
type Failure struct {
	Err          error
	OfferUpgrade bool
}

func (f *Failure) Error() string { return f.Err.Error() }

func (f *Failure) Unwrap() error { return f.Err }

// Stylist produces an outfit suggestion for a prompt against the caller's
// wardrobe. Implementations classify their failures: ErrAINotAuthenticated
// and ErrAIUsageLimitReached are terminal, anything else triggers a silent
// local fallback.
type Stylist interface {
	GenerateSuggestion(ctx context.Context, prompt string, wardrobe []models.Clothing, userStyle *string) (Suggestion, error)
}

const (
	SourceAI    = "ai"
	SourceLocal = "local"
)

// Request carries everything one generation attempt needs. The wardrobe
// snapshot is read-only for the duration of the attempt.
type Request struct {
	Prompt               string
	Wardrobe             []models.Clothing
	AIAvailable          bool
	QuotaRemaining       int
	UnlimitedEntitlement bool
	UserStyle            *string
}

// Result is the outcome of one attempt that got past validation.
type Result struct {
	Outfit    GeneratedOutfit
	Reasoning string
	StyleTip  *string
	Source    string

	// Empty marks a Completed(empty) outcome: the attempt ran but no
	// wearable outfit came out.
	Empty bool

	// Suggestion holds the raw stylist output when Source is SourceAI,
	// kept for token accounting.
	Suggestion *Suggestion

	// Failure is set on a terminal AI failure; the other fields are then
	// zero.
	Failure *Failure

	// FallbackErr records the swallowed stylist error when the attempt
	// degraded to the local path. Never surfaced to the end user.
	FallbackErr error
}

var progressMessages = []string{
	"Reading your wardrobe...",
	"Matching colors and styles...",
	"Trying combinations...",
	"Checking the occasion...",
	"Almost there...",
}

const defaultProgressInterval = 1500 * time.Millisecond

// Generator runs one outfit generation at a time through validation, the
// AI or local path, and completion. A newer request supersedes an older
// in-flight one: the older attempt still resolves on its own channel, but
// no longer touches the observable state.
type Generator struct {
	stylist  Stylist
	rng      *rand.Rand
	interval time.Duration

	mu            sync.Mutex
	seq           uint64
	generating    bool
	statusMessage string
	lastResult    *Result
	lastFailure   *Failure
}

// NewGenerator builds a Generator around the given stylist and random
// source. A zero progressInterval means the 1.5s default.
func NewGenerator(stylist Stylist, rng *rand.Rand, progressInterval time.Duration) *Generator {
	if progressInterval <= 0 {
		progressInterval = defaultProgressInterval
	}
	return &Generator{
		stylist:  stylist,
		rng:      rng,
		interval: progressInterval,
	}
}

// Generate validates the request and, if it passes, runs the attempt
// asynchronously, delivering exactly one Result on the returned channel.
// Validation failures return a nil channel and a non-nil Failure before
// any work starts.
func (g *Generator) Generate(ctx context.Context, req Request) (<-chan Result, *Failure) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, g.reject(&Failure{Err: ErrEmptyPrompt})
	}
	if len(req.Wardrobe) == 0 {
		return nil, g.reject(&Failure{Err: ErrEmptyWardrobe})
	}
	if !req.UnlimitedEntitlement && req.QuotaRemaining <= 0 {
		return nil, g.reject(&Failure{Err: ErrQuotaExceeded, OfferUpgrade: true})
	}

	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.generating = true
	g.statusMessage = progressMessages[0]
	g.lastFailure = nil
	// Each attempt gets its own source: attempts may overlap and
	// *rand.Rand is not safe for concurrent use.
	rng := rand.New(rand.NewSource(g.rng.Int63()))
	g.mu.Unlock()

	go g.rotateStatus(seq)

	out := make(chan Result, 1)
	go func() {
		result := g.run(ctx, req, rng)
		g.finish(seq, result)
		out <- result
		close(out)
	}()
	return out, nil
}

func (g *Generator) run(ctx context.Context, req Request, rng *rand.Rand) Result {
	var fallbackErr error
	if req.AIAvailable {
		suggestion, err := g.stylist.GenerateSuggestion(ctx, req.Prompt, req.Wardrobe, req.UserStyle)
		switch {
		case err == nil:
			outfit := Reconcile(suggestion, req.Wardrobe)
			return Result{
				Outfit:     outfit,
				Reasoning:  suggestion.Reasoning,
				StyleTip:   suggestion.StyleTip,
				Source:     SourceAI,
				Empty:      !outfit.IsValid(),
				Suggestion: &suggestion,
			}
		case errors.Is(err, ErrAINotAuthenticated):
			return Result{Failure: &Failure{Err: err}}
		case errors.Is(err, ErrAIUsageLimitReached):
			return Result{Failure: &Failure{Err: err, OfferUpgrade: true}}
		default:
			fmt.Printf("AI stylist failed, falling back to local composition: %v\n", err)
			fallbackErr = err
		}
	}

	outfit := Compose(rng, req.Prompt, req.Wardrobe)
	reasoning, tip := StyleNotes(rng, req.Prompt)
	return Result{
		Outfit:      outfit,
		Reasoning:   reasoning,
		StyleTip:    &tip,
		Source:      SourceLocal,
		Empty:       !outfit.IsValid(),
		FallbackErr: fallbackErr,
	}
}

func (g *Generator) reject(failure *Failure) *Failure {
	g.mu.Lock()
	g.lastFailure = failure
	g.mu.Unlock()
	return failure
}

// finish writes the attempt's outcome into the observable state unless a
// newer request has started since; a stale attempt resolves silently.
func (g *Generator) finish(seq uint64, result Result) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq != g.seq {
		return
	}
	g.generating = false
	g.statusMessage = ""
	if result.Failure != nil {
		g.lastFailure = result.Failure
		g.lastResult = nil
		return
	}
	g.lastResult = &result
	g.lastFailure = nil
}

// rotateStatus cycles the progress message while the attempt is running.
// It polls the generating flag instead of being cancelled and stops on the
// first tick after the attempt finished or was superseded.
func (g *Generator) rotateStatus(seq uint64) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	index := 0
	for range ticker.C {
		g.mu.Lock()
		if !g.generating || seq != g.seq {
			g.mu.Unlock()
			return
		}
		index = (index + 1) % len(progressMessages)
		g.statusMessage = progressMessages[index]
		g.mu.Unlock()
	}
}

// IsGenerating reports whether the latest request is still in flight.
func (g *Generator) IsGenerating() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generating
}

// StatusMessage returns the current progress message, empty when idle.
func (g *Generator) StatusMessage() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusMessage
}

// LastResult returns the outcome of the most recent completed attempt, nil
// if none completed yet or the last attempt failed.
func (g *Generator) LastResult() *Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastResult
}

// LastFailure returns the most recent failure, nil after a success.
func (g *Generator) LastFailure() *Failure {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastFailure
}
