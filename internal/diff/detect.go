package diff

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Trailer phrases emitted by git and JGit for binary files. A "*" matches
// any text.
var DefaultBinaryTrailers = []string{
	"Binary files * and * differ",
	"Binary files differ",
}

// DefaultImageExtensions lists the raster formats that get an inline preview.
var DefaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// Detector decides whether raw diff text has no textual diff to show.
type Detector struct {
	trailers   []*regexp.Regexp
	extensions map[string]struct{}
}

// Option configures a Detector.
type Option func(*Detector)

// WithTrailers replaces the binary trailer phrases.
func WithTrailers(phrases ...string) Option {
	return func(d *Detector) {
		d.trailers = d.trailers[:0]
		for _, p := range phrases {
			if p = strings.TrimSpace(p); p != "" {
				d.trailers = append(d.trailers, compileTrailer(p))
			}
		}
	}
}

// WithImageExtensions replaces the image allow-list. Extensions are matched
// case-insensitively, with or without the leading dot.
func WithImageExtensions(exts ...string) Option {
	return func(d *Detector) {
		d.extensions = make(map[string]struct{}, len(exts))
		for _, e := range exts {
			e = strings.ToLower(strings.TrimSpace(e))
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			d.extensions[e] = struct{}{}
		}
	}
}

// NewDetector returns a detector with the default trailers and image list.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{}
	WithTrailers(DefaultBinaryTrailers...)(d)
	WithImageExtensions(DefaultImageExtensions...)(d)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func compileTrailer(phrase string) *regexp.Regexp {
	quoted := strings.ReplaceAll(regexp.QuoteMeta(phrase), `\*`, `.*`)
	return regexp.MustCompile(`^` + quoted + `$`)
}

// Detect reports whether raw is blank or ends with a binary trailer line.
func (d *Detector) Detect(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	lines := SplitLines(raw)
	if len(lines) == 0 {
		return true
	}
	last := lines[len(lines)-1]
	for _, re := range d.trailers {
		if re.MatchString(last) {
			return true
		}
	}
	return false
}

// IsImage reports whether path has an extension on the image allow-list.
func (d *Detector) IsImage(path string) bool {
	_, ok := d.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Renderer runs detection, classification and building on raw diff text.
type Renderer struct {
	detector *Detector
}

// NewRenderer returns a renderer backed by detector, or the default detector
// when nil.
func NewRenderer(detector *Detector) *Renderer {
	if detector == nil {
		detector = NewDetector()
	}
	return &Renderer{detector: detector}
}

// Render builds the document for raw. previewPath is the working-copy location
// of the file; it becomes the image preview when the diff is binary or empty
// and the file is an image. Pass "" when no preview applies.
func (r *Renderer) Render(raw, previewPath string) Document {
	if r.detector.Detect(raw) {
		if previewPath != "" && r.detector.IsImage(previewPath) {
			return Placeholder(previewPath)
		}
		return Placeholder("")
	}
	return Build(ClassifyAll(SplitLines(raw)))
}
