package render

import (
	"context"
	"path"
	"strings"
	"time"

	domainContract "github.com/turtacn/ContractPilot/internal/domain/contract"
	"github.com/turtacn/ContractPilot/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ContractPilot/pkg/errors"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html"
)

// Fallback reasons recorded on an inline artifact.
const (
	FallbackRenderFailed  = "render_failed"
	FallbackStorageFailed = "storage_failed"
	FallbackNoStorage     = "storage_unconfigured"
)

// ObjectStore persists rendered documents and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
}

// PDFPrinter turns HTML into PDF bytes.
type PDFPrinter interface {
	RenderPDF(ctx context.Context, html string, opts *RenderOptions) ([]byte, error)
}

// Artifact is the stored result of rendering one contract. When Fallback is
// set, URL is a data URL carrying the contract HTML itself.
type Artifact struct {
	URL            string `json:"url"`
	ContentType    string `json:"content_type"`
	Size           int    `json:"size"`
	HTML           string `json:"-"`
	Fallback       bool   `json:"fallback"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// DocumentService serializes, prints and stores contract documents.
type DocumentService struct {
	serializer     *HTMLSerializer
	printer        PDFPrinter
	store          ObjectStore
	pathPrefix     string
	storageTimeout time.Duration
	defaults       *RenderOptions
	logger         logging.Logger
}

type DocumentOption func(*DocumentService)

func WithPathPrefix(prefix string) DocumentOption {
	return func(s *DocumentService) { s.pathPrefix = strings.Trim(prefix, "/") }
}

func WithStorageTimeout(d time.Duration) DocumentOption {
	return func(s *DocumentService) {
		if d > 0 {
			s.storageTimeout = d
		}
	}
}

// WithDefaultRenderOptions sets the layout used for fields a request leaves
// blank.
func WithDefaultRenderOptions(def RenderOptions) DocumentOption {
	return func(s *DocumentService) { s.defaults = &def }
}

// NewDocumentService builds the service. store may be nil, in which case
// every document is returned inline.
func NewDocumentService(serializer *HTMLSerializer, printer PDFPrinter, store ObjectStore, logger logging.Logger, opts ...DocumentOption) *DocumentService {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &DocumentService{
		serializer:     serializer,
		printer:        printer,
		store:          store,
		pathPrefix:     "contracts",
		storageTimeout: 30 * time.Second,
		logger:         logger.Named("document"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DocumentService) SerializeHTML(data domainContract.ContractData) (string, error) {
	return s.serializer.Serialize(data)
}

// Render produces a stored PDF for data. Print or upload failures degrade to
// an inline HTML artifact so the generated content is never lost, including
// when ctx hits its deadline. An error is returned only when the HTML itself
// cannot be produced or ctx was cancelled.
func (s *DocumentService) Render(ctx context.Context, data domainContract.ContractData, opts *RenderOptions) (*Artifact, error) {
	html, err := s.serializer.Serialize(data)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(logging.ContractID(data.ContractID))

	if s.printer == nil {
		return inlineArtifact(html, FallbackRenderFailed), nil
	}
	pdf, err := s.printer.RenderPDF(ctx, html, s.withDefaults(opts))
	if err != nil {
		if cancelled(ctx) {
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeRenderFailed, "render cancelled")
		}
		log.Warn("pdf render failed, using inline document", logging.Err(err))
		return inlineArtifact(html, FallbackRenderFailed), nil
	}

	if s.store == nil {
		return inlineArtifact(html, FallbackNoStorage), nil
	}
	putCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	url, err := s.store.Put(putCtx, s.ObjectPath(data.ContractID), pdf, ContentTypePDF)
	if err != nil {
		if cancelled(ctx) {
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeRenderFailed, "upload cancelled")
		}
		log.Warn("document upload failed, using inline document", logging.Err(err))
		return inlineArtifact(html, FallbackStorageFailed), nil
	}

	return &Artifact{
		URL:         url,
		ContentType: ContentTypePDF,
		Size:        len(pdf),
		HTML:        html,
	}, nil
}

// cancelled reports whether the caller gave up. A deadline is a render
// failure, not an abort.
func cancelled(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}

func (s *DocumentService) withDefaults(opts *RenderOptions) *RenderOptions {
	if s.defaults == nil {
		return opts
	}
	if opts == nil {
		d := *s.defaults
		return &d
	}
	out := *opts
	if out.PageSize == "" {
		out.PageSize = s.defaults.PageSize
	}
	if out.Orientation == "" {
		out.Orientation = s.defaults.Orientation
	}
	if out.Margins == nil {
		out.Margins = s.defaults.Margins
	}
	return &out
}

// ObjectPath is the storage key for a contract's PDF.
func (s *DocumentService) ObjectPath(contractID string) string {
	return path.Join(s.pathPrefix, contractID+".pdf")
}

func inlineArtifact(html, reason string) *Artifact {
	return &Artifact{
		URL:            InlineHTMLURL(html),
		ContentType:    ContentTypeHTML,
		Size:           len(html),
		HTML:           html,
		Fallback:       true,
		FallbackReason: reason,
	}
}

//Personal.AI order the ending
