package render

import (
	"strings"

	"github.com/turtacn/ContractPilot/pkg/errors"
)

// PageSize names a paper format.
type PageSize string

const (
	A4     PageSize = "A4"
	A3     PageSize = "A3"
	Letter PageSize = "Letter"
	Legal  PageSize = "Legal"
)

// paperInches holds portrait width and height in inches.
var paperInches = map[PageSize][2]float64{
	A4:     {8.27, 11.69},
	A3:     {11.69, 16.54},
	Letter: {8.5, 11},
	Legal:  {8.5, 14},
}

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Margins are expressed in inches.
type Margins struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

func UniformMargins(in float64) Margins {
	return Margins{Top: in, Bottom: in, Left: in, Right: in}
}

// RenderOptions control PDF pagination. Header and footer templates use the
// browser's print template classes (pageNumber, totalPages, date, title).
type RenderOptions struct {
	PageSize        PageSize    `json:"page_size"`
	Orientation     Orientation `json:"orientation"`
	Margins         *Margins    `json:"margins,omitempty"`
	HeaderHTML      string      `json:"header_html,omitempty"`
	FooterHTML      string      `json:"footer_html,omitempty"`
	PrintBackground bool        `json:"print_background"`
}

const (
	defaultHeaderHTML = `<div style="font-size:8px;width:100%;padding:0 0.6in;color:#666;"><span class="title"></span></div>`
	defaultFooterHTML = `<div style="font-size:8px;width:100%;padding:0 0.6in;color:#666;text-align:right;">Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`
)

// DefaultRenderOptions returns A4 portrait with page-numbered footer.
func DefaultRenderOptions() *RenderOptions {
	m := UniformMargins(0.6)
	return &RenderOptions{
		PageSize:        A4,
		Orientation:     Portrait,
		Margins:         &m,
		HeaderHTML:      defaultHeaderHTML,
		FooterHTML:      defaultFooterHTML,
		PrintBackground: true,
	}
}

// Normalize fills blanks from DefaultRenderOptions and validates values.
// The receiver is not modified.
func (o *RenderOptions) Normalize() (*RenderOptions, error) {
	def := DefaultRenderOptions()
	if o == nil {
		return def, nil
	}
	out := *o
	if out.PageSize == "" {
		out.PageSize = def.PageSize
	}
	out.PageSize = canonicalPageSize(out.PageSize)
	if _, ok := paperInches[out.PageSize]; !ok {
		return nil, errors.NewValidationError("page_size", string(o.PageSize))
	}
	if out.Orientation == "" {
		out.Orientation = def.Orientation
	}
	out.Orientation = Orientation(strings.ToLower(string(out.Orientation)))
	if out.Orientation != Portrait && out.Orientation != Landscape {
		return nil, errors.NewValidationError("orientation", string(o.Orientation))
	}
	if out.Margins == nil {
		out.Margins = def.Margins
	} else {
		m := *out.Margins
		if m.Top < 0 || m.Bottom < 0 || m.Left < 0 || m.Right < 0 {
			return nil, errors.NewValidationError("margins", "must not be negative")
		}
		out.Margins = &m
	}
	if out.HeaderHTML == "" {
		out.HeaderHTML = def.HeaderHTML
	}
	if out.FooterHTML == "" {
		out.FooterHTML = def.FooterHTML
	}
	return &out, nil
}

// PaperSize returns width and height in inches after orientation.
func (o *RenderOptions) PaperSize() (width, height float64) {
	dims := paperInches[canonicalPageSize(o.PageSize)]
	if o.Orientation == Landscape {
		return dims[1], dims[0]
	}
	return dims[0], dims[1]
}

func canonicalPageSize(p PageSize) PageSize {
	for known := range paperInches {
		if strings.EqualFold(string(known), string(p)) {
			return known
		}
	}
	return p
}

//Personal.AI order the ending
