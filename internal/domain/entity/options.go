package entity

const (
	// DefaultGL is the country used when the caller does not pick one.
	DefaultGL = "US"
	// DefaultHL is the interface language used when the caller does not pick one.
	DefaultHL = "en"
)

// RequestOptions carries transport-level settings supplied by the caller.
type RequestOptions struct {
	// Headers are merged into every outbound request of a run.
	Headers map[string]string `json:"headers,omitempty"`
}

// Options controls how much of a playlist a run collects.
//
// A zero Limit or Pages means "no bound". When both are set the limit is
// checked first after every page.
type Options struct {
	Limit          int            `json:"limit,omitempty"`
	Pages          int            `json:"pages,omitempty"`
	GL             string         `json:"gl,omitempty"`
	HL             string         `json:"hl,omitempty"`
	RequestOptions RequestOptions `json:"requestOptions"`
}

// WithDefaults returns a copy of o with locale defaults filled in.
func (o Options) WithDefaults() Options {
	if o.GL == "" {
		o.GL = DefaultGL
	}
	if o.HL == "" {
		o.HL = DefaultHL
	}
	if o.RequestOptions.Headers != nil {
		headers := make(map[string]string, len(o.RequestOptions.Headers))
		for k, v := range o.RequestOptions.Headers {
			headers[k] = v
		}
		o.RequestOptions.Headers = headers
	}
	return o
}

// Validate checks that the bounds are usable.
func (o Options) Validate() error {
	if o.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "must not be negative"}
	}
	if o.Pages < 0 {
		return &ValidationError{Field: "pages", Message: "must not be negative"}
	}
	return nil
}

// Paged reports whether the options describe a page-bounded run without an
// item limit. Only such runs may be resumed from a cursor.
func (o Options) Paged() bool {
	return o.Limit <= 0
}
