// Package extraction turns free-text billing requests into structured drafts
// by prompting a text model and repairing whatever it returns.
package extraction

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"draftwise/internal/domain"
	"draftwise/internal/port"
	"draftwise/internal/resolver"
)

// DefaultModelTimeout bounds a single model call.
const DefaultModelTimeout = 60 * time.Second

const fallbackError = "model reply unavailable; result requires manual review"

// Outcome is the result of one extraction attempt along with its diagnostics.
type Outcome struct {
	Result   *domain.ParseResult `json:"result"`
	Valid    bool                `json:"valid"`
	Errors   []string            `json:"errors"`
	Warnings []string            `json:"warnings"`
	Fallback bool                `json:"fallback"`

	// Context is the snapshot the prompt was built from.
	Context domain.BusinessContext `json:"-"`
}

// Extractor runs extractions against a text model and the storage
// collaborators.
type Extractor struct {
	model    port.TextModel
	profiles port.ProfileRepository
	clients  port.ClientRepository
	products port.ProductRepository
	resolver *resolver.Resolver
	now      func() time.Time
	timeout  time.Duration
}

// Option customises an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used for date defaults.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithModelTimeout bounds each model call.
func WithModelTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithResolver sets the resolver used to re-rank client-only extractions.
func WithResolver(r *resolver.Resolver) Option {
	return func(e *Extractor) { e.resolver = r }
}

// NewExtractor creates an Extractor.
func NewExtractor(
	model port.TextModel,
	profiles port.ProfileRepository,
	clients port.ClientRepository,
	products port.ProductRepository,
	opts ...Option,
) *Extractor {
	e := &Extractor{
		model:    model,
		profiles: profiles,
		clients:  clients,
		products: products,
		resolver: resolver.New(),
		now:      time.Now,
		timeout:  DefaultModelTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadContext fetches the profile, clients and products concurrently. A
// missing profile is fatal; client or product failures degrade to empty lists
// and are reported as warnings.
func (e *Extractor) LoadContext(ctx context.Context, userID uuid.UUID) (domain.BusinessContext, []string, error) {
	var (
		bc                    domain.BusinessContext
		clientErr, productErr error
		clients               []domain.Client
		products              []domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := e.profiles.GetByUserID(gctx, userID)
		if err != nil {
			return eris.Wrapf(err, "load profile for user %s", userID)
		}
		bc.Profile = *p
		return nil
	})
	g.Go(func() error {
		clients, clientErr = e.clients.ListByUser(gctx, userID)
		return nil
	})
	g.Go(func() error {
		products, productErr = e.products.ListByUser(gctx, userID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.BusinessContext{}, nil, err
	}

	var warnings []string
	bc.Clients = []domain.Client{}
	if clientErr != nil {
		zap.L().Warn("existing clients unavailable", zap.String("user_id", userID.String()), zap.Error(clientErr))
		warnings = append(warnings, "existing clients could not be loaded; client matching was skipped")
	} else if clients != nil {
		bc.Clients = clients
	}
	bc.Products = []domain.Product{}
	if productErr != nil {
		zap.L().Warn("existing products unavailable", zap.String("user_id", userID.String()), zap.Error(productErr))
		warnings = append(warnings, "existing products could not be loaded; product matching was skipped")
	} else if products != nil {
		bc.Products = products
	}
	return bc, warnings, nil
}

// Extract drafts a document from in. Model and decode failures never surface:
// they produce the fallback result. The returned error is non-nil only for
// invalid input or when the business context cannot be loaded.
func (e *Extractor) Extract(ctx context.Context, in domain.RawInput) (*Outcome, error) {
	if !in.DocumentType.Valid() {
		return nil, eris.Wrapf(domain.ErrInvalidDocumentType, "document type %q", in.DocumentType)
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.ErrEmptyInput
	}

	bc, warnings, err := e.LoadContext(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	prompt := BuildDocumentPrompt(PromptContext{
		DocumentType: in.DocumentType,
		Profile:      bc.Profile,
		Clients:      bc.Clients,
		Products:     bc.Products,
		Text:         in.Text,
		Today:        now.Format(dateLayout),
	})

	out := &Outcome{Context: bc, Errors: []string{}, Warnings: []string{}}
	raw, err := e.complete(ctx, prompt)
	if err != nil {
		zap.L().Warn("extraction fell back",
			zap.String("user_id", in.UserID.String()),
			zap.String("document_type", string(in.DocumentType)),
			zap.Error(err))
		out.Result = Fallback(in.Text, in.DocumentType, now)
		out.Fallback = true
		out.Errors = append(out.Errors, fallbackError)
	} else {
		result, rep := Repair(raw, in.DocumentType, now)
		out.Result = result
		out.Errors = append(out.Errors, rep.Errors...)
		out.Warnings = append(out.Warnings, rep.Warnings...)
	}

	out.Result.RawText = in.Text
	out.Result.Totals = Totals(out.Result)
	out.Warnings = append(out.Warnings, warnings...)
	out.Warnings = append(out.Warnings, CheckArithmetic(out.Result)...)
	out.Valid = len(out.Errors) == 0
	return out, nil
}

// ExtractClient identifies only the client in text. A failed or malformed
// reply yields FallbackClient. When the model returns no id and the resolver
// is confident, the best existing client's id is attached.
func (e *Extractor) ExtractClient(ctx context.Context, text string, userID uuid.UUID) (*domain.ExtractedClient, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyInput
	}
	bc, _, err := e.LoadContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt := BuildClientPrompt(PromptContext{
		Profile: bc.Profile,
		Clients: bc.Clients,
		Text:    text,
		Today:   e.now().Format(dateLayout),
	})

	raw, err := e.complete(ctx, prompt)
	if err == nil {
		err = validateClientReply(raw)
	}
	if err != nil {
		zap.L().Warn("client extraction fell back", zap.String("user_id", userID.String()), zap.Error(err))
		return FallbackClient(), nil
	}

	var rep Report
	client := repairClient(raw, &rep)
	if client.ID == "" {
		res := e.resolver.ResolveClient(client, bc.Clients)
		if top, ok := res.Top(); ok && res.Confidence == domain.ConfidenceHigh {
			client.ID = top.Candidate.ID.String()
			client.Confidence = domain.ConfidenceHigh
		}
	}
	return &client, nil
}

func (e *Extractor) complete(ctx context.Context, prompt string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	reply, err := e.model.Complete(ctx, prompt, port.FormatJSON)
	if err != nil {
		return nil, eris.Wrap(err, "model call")
	}
	return DecodeReply(reply)
}
