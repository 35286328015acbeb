package outputs

import (
	"strings"
	"sync"
	"time"
)

const (
	// DEFAULT_PATH_DATE_FORMAT is substituted for {date} in path templates
	DEFAULT_PATH_DATE_FORMAT = "2006-01-02"

	datePlaceholder = "{date}"
	namePlaceholder = "{name}"
)

// PathResolver yields the file a logger currently appends to
type PathResolver interface {
	// Path returns the current target; ok is false when no usable path exists.
	Path() (path string, ok bool)
	// Invalidate stops targeting the current path until it is reconfigured.
	Invalidate()
}

// TemplatePath resolves a path template such as "logs/{name}-{date}.log".
type TemplatePath struct {
	mu         sync.RWMutex
	template   string
	dateFormat string
	name       string
	invalid    bool
	now        func() time.Time
}

// NewTemplatePath creates a resolver for template. name replaces {name}.
func NewTemplatePath(template, name string) *TemplatePath {
	return &TemplatePath{
		template:   template,
		dateFormat: DEFAULT_PATH_DATE_FORMAT,
		name:       name,
		now:        time.Now,
	}
}

// WithClock replaces the time source used for {date}.
func (p *TemplatePath) WithClock(now func() time.Time) *TemplatePath {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
	return p
}

// Path implements PathResolver
func (p *TemplatePath) Path() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.invalid || p.template == "" {
		return "", false
	}
	path := p.template
	if strings.Contains(path, datePlaceholder) {
		path = strings.ReplaceAll(path, datePlaceholder, p.now().Format(p.dateFormat))
	}
	path = strings.ReplaceAll(path, namePlaceholder, p.name)
	return path, true
}

// Invalidate implements PathResolver
func (p *TemplatePath) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.invalid = true
}

// Valid reports whether the resolver still targets a path.
func (p *TemplatePath) Valid() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.invalid && p.template != ""
}

// Template returns the configured template.
func (p *TemplatePath) Template() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.template
}

// SetTemplate reconfigures the template and clears the invalid mark.
func (p *TemplatePath) SetTemplate(template string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.template = template
	p.invalid = false
}

// DateFormat returns the layout used for {date}.
func (p *TemplatePath) DateFormat() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dateFormat
}

// SetDateFormat changes the layout used for {date}.
func (p *TemplatePath) SetDateFormat(layout string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if layout == "" {
		layout = DEFAULT_PATH_DATE_FORMAT
	}
	p.dateFormat = layout
}
