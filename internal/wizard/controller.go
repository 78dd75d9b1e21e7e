package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erin/vibecheck/internal/llm"
	"github.com/erin/vibecheck/internal/persona"
	"github.com/erin/vibecheck/internal/types"
)

// CredentialSource supplies the stored API key. Empty string means no
// credential has been set.
type CredentialSource interface {
	Get() string
}

// ClientFactory builds an LLM client from an API key. Swapped out in tests.
type ClientFactory func(ctx context.Context, apiKey string) (llm.Client, error)

// DefaultCallTimeout bounds each individual LLM call made by the
// controller and the analysis pipeline. Zero disables the bound.
const DefaultCallTimeout = 60 * time.Second

// Controller owns the session and serializes all mutation behind a mutex.
// Guards are evaluated and busy flags set in the same critical section, so
// a check is never split from its set across a suspension point.
type Controller struct {
	mu      sync.Mutex
	session *Session

	// epoch increments on Reset and SetContent. In-flight work captures
	// the epoch at start and discards its result if the session has moved
	// on underneath it.
	epoch uint64

	credentials CredentialSource
	newClient   ClientFactory

	callTimeout  time.Duration
	displayDelay time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithCallTimeout overrides the per-LLM-call timeout. Zero disables it.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Controller) { c.callTimeout = d }
}

// WithDisplayDelay sets the cosmetic pause between reaching full progress
// and advancing to the report step. Zero (the default) skips it.
func WithDisplayDelay(d time.Duration) Option {
	return func(c *Controller) { c.displayDelay = d }
}

// NewController wires a controller to a credential source and a client
// factory.
func NewController(creds CredentialSource, factory ClientFactory, opts ...Option) *Controller {
	c := &Controller{
		session:     newSession(),
		credentials: creds,
		newClient:   factory,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a deep copy of the current session.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

// Advance jumps to the given step. Navigation is unconditional; the steps
// guard their own actions, not their visibility.
func (c *Controller) Advance(step Step) error {
	if !step.Valid() {
		return &GuardError{Requirement: fmt.Sprintf("unknown step %q", step)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.CurrentStep = step
	return nil
}

// Reset discards the run and lands on content-input. The stored credential
// lives outside the session and is untouched. Any in-flight work from the
// old run is orphaned by the epoch bump and its results dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.session = newSession()
	c.session.CurrentStep = StepContentInput
}

// SetContent replaces the content under review. Rejected while analysis is
// running; otherwise it invalidates any previously generated slate and
// selection, since they were derived from the old content.
func (c *Controller) SetContent(content string, source types.ContentSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.IsAnalyzing {
		return &GuardError{Requirement: "content is frozen while analysis is running"}
	}
	if content != c.session.Content {
		c.epoch++
		c.session.GeneratedPersonas = nil
		c.session.SelectedPersonas = nil
		c.session.InterviewResults = nil
		c.session.FinalReport = nil
	}
	c.session.Content = content
	c.session.ContentSource = source
	return nil
}

// SetContentMode switches between standard and crisis mode. Frozen while
// analyzing so every interview in a run shares one directive.
func (c *Controller) SetContentMode(mode types.ContentMode) error {
	if !mode.Valid() {
		return &GuardError{Requirement: fmt.Sprintf("unknown content mode %q", mode)}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.IsAnalyzing {
		return &GuardError{Requirement: "content mode is frozen while analysis is running"}
	}
	c.session.ContentMode = mode
	return nil
}

// TogglePersona flips membership of the identified persona in the
// selection. Selection order is toggle order. Unknown IDs are an error.
// Frozen while analyzing: results are keyed to the selection the run
// started with, so the selection cannot shrink underneath it.
func (c *Controller) TogglePersona(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.IsAnalyzing {
		return &GuardError{Requirement: "persona selection is frozen while analysis is running"}
	}

	for i, p := range c.session.SelectedPersonas {
		if p.ID == id {
			c.session.SelectedPersonas = append(
				c.session.SelectedPersonas[:i],
				c.session.SelectedPersonas[i+1:]...)
			return nil
		}
	}
	for _, p := range c.session.GeneratedPersonas {
		if p.ID == id {
			c.session.SelectedPersonas = append(c.session.SelectedPersonas, p)
			return nil
		}
	}
	return &GuardError{Requirement: fmt.Sprintf("no persona with id %q", id)}
}

// GenerateInitialPersonas fills the slate from one LLM call. Calling it
// with a slate already present, or while a generation is in flight, is a
// silent no-op so repeated UI triggers never duplicate the slate. Missing
// content or credential is a guard error.
func (c *Controller) GenerateInitialPersonas(ctx context.Context) error {
	c.mu.Lock()
	if len(c.session.GeneratedPersonas) > 0 || c.session.IsGeneratingPersonas {
		c.mu.Unlock()
		return nil
	}
	apiKey := c.credentials.Get()
	if err := c.checkGenerateGuards(apiKey); err != nil {
		c.mu.Unlock()
		return err
	}
	c.session.IsGeneratingPersonas = true
	content := c.session.Content
	mode := c.session.ContentMode
	epoch := c.epoch
	c.mu.Unlock()

	slate, err := c.generateSlate(ctx, apiKey, content, mode)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		// Session was reset or the content changed mid-flight; the
		// slate belongs to a run that no longer exists.
		c.session.IsGeneratingPersonas = false
		return nil
	}
	c.session.IsGeneratingPersonas = false
	if err != nil {
		return err
	}
	persona.AssignAvatars(slate)
	c.session.GeneratedPersonas = slate
	return nil
}

// GenerateWildcardPersona appends one freshly generated persona to the
// slate. Repeatable without limit; concurrent calls beyond the first are
// silent no-ops while one is in flight.
func (c *Controller) GenerateWildcardPersona(ctx context.Context) error {
	c.mu.Lock()
	if c.session.IsGeneratingWildcard {
		c.mu.Unlock()
		return nil
	}
	apiKey := c.credentials.Get()
	if err := c.checkGenerateGuards(apiKey); err != nil {
		c.mu.Unlock()
		return err
	}
	c.session.IsGeneratingWildcard = true
	content := c.session.Content
	epoch := c.epoch
	c.mu.Unlock()

	wild, err := c.generateWildcard(ctx, apiKey, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.IsGeneratingWildcard = false
	if c.epoch != epoch {
		return nil
	}
	if err != nil {
		return err
	}
	wild.AvatarRef = persona.RandomAvatar()
	c.session.GeneratedPersonas = append(c.session.GeneratedPersonas, *wild)
	return nil
}

// checkGenerateGuards holds for both slate and wildcard generation.
// Caller must hold c.mu.
func (c *Controller) checkGenerateGuards(apiKey string) error {
	if c.session.Content == "" {
		return &GuardError{Requirement: "content must be set before generating personas"}
	}
	if apiKey == "" {
		return &GuardError{Requirement: "an API key must be stored before generating personas"}
	}
	return nil
}

func (c *Controller) generateSlate(ctx context.Context, apiKey, content string, mode types.ContentMode) ([]types.Persona, error) {
	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	return persona.Generate(callCtx, client, content, mode)
}

func (c *Controller) generateWildcard(ctx context.Context, apiKey, content string) (*types.Persona, error) {
	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	callCtx, cancel := c.callContext(ctx)
	defer cancel()
	return persona.GenerateWildcard(callCtx, client, content)
}

// callContext bounds a single LLM call with the configured timeout.
func (c *Controller) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.callTimeout)
}
