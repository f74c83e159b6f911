// Package upload turns operator-selected images into public URLs. A Helper
// works in file mode (objects are written to storage) or url mode (typed
// addresses pass through untouched).
package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/logutils"
)

type Mode string

const (
	ModeFile Mode = "file"
	ModeURL  Mode = "url"
)

// Prefix is the folder every uploaded object is placed under.
const Prefix = "public"

const defaultConcurrency = 4

var log = logutils.Named("upload")

// File is one selected file.
type File struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FromMultipart adapts a multipart form file.
func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// ObjectPath is public/<unix-millis>-<filename>.
func ObjectPath(at time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	return fmt.Sprintf("%s/%d-%s", Prefix, at.UnixMilli(), name)
}

type Option func(*Helper)

// WithMultiple lets one batch surface every uploaded URL.
func WithMultiple(multiple bool) Option {
	return func(h *Helper) { h.multiple = multiple }
}

// WithConcurrency bounds the uploads running at once.
func WithConcurrency(n int) Option {
	return func(h *Helper) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Helper) { h.now = now }
}

// WithObserver reports the outcome of every file of a batch.
func WithObserver(fn func(file string, err error)) Option {
	return func(h *Helper) { h.observe = fn }
}

// WithInitialURL starts the helper as Reset(url) would.
func WithInitialURL(url string) Option {
	return func(h *Helper) { h.reset(url) }
}

type Helper struct {
	storage     gateway.Storage
	onUpload    func(url string)
	multiple    bool
	concurrency int
	now         func() time.Time
	observe     func(file string, err error)

	mu        sync.Mutex
	mode      Mode
	preview   string
	urlInput  string
	uploading bool
}

// New returns a Helper that reports every surfaced URL to onUpload.
func New(storage gateway.Storage, onUpload func(url string), opts ...Option) *Helper {
	h := &Helper{
		storage:     storage,
		onUpload:    onUpload,
		concurrency: defaultConcurrency,
		now:         time.Now,
		mode:        ModeFile,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.onUpload == nil {
		h.onUpload = func(string) {}
	}
	return h
}

// Reset drops local state for a new initial URL: url mode when it is set,
// file mode otherwise.
func (h *Helper) Reset(initialURL string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reset(initialURL)
}

func (h *Helper) reset(initialURL string) {
	h.preview = initialURL
	h.urlInput = initialURL
	h.mode = ModeFile
	if initialURL != "" {
		h.mode = ModeURL
	}
}

func (h *Helper) SetMode(m Mode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mode = m
}

func (h *Helper) Mode() Mode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode
}

// Preview is the image shown next to the input.
func (h *Helper) Preview() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.preview
}

func (h *Helper) Uploading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.uploading
}

// Type handles one edit of the url field. The value is forwarded as is.
func (h *Helper) Type(value string) {
	h.mu.Lock()
	h.urlInput = value
	h.preview = value
	h.mu.Unlock()
	h.onUpload(value)
}

// Upload stores files concurrently and returns the public URLs of the ones
// that succeeded, in completion order. A failed file is logged and skipped.
// Without multiple only the first URL is surfaced and previewed.
func (h *Helper) Upload(ctx context.Context, files []File) []string {
	if len(files) == 0 {
		return nil
	}
	h.mu.Lock()
	h.uploading = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.uploading = false
		h.mu.Unlock()
	}()

	var (
		mu   sync.Mutex
		urls []string
	)
	g := new(errgroup.Group)
	g.SetLimit(h.concurrency)
	for _, f := range files {
		g.Go(func() error {
			url, err := h.put(ctx, f)
			if h.observe != nil {
				h.observe(f.Name, err)
			}
			if err != nil {
				log.Error(err, "skipping file", "file", f.Name)
				return nil
			}
			mu.Lock()
			urls = append(urls, url)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(urls) == 0 {
		return nil
	}
	if !h.multiple {
		urls = urls[:1]
		h.mu.Lock()
		h.preview = urls[0]
		h.mu.Unlock()
	}
	for _, url := range urls {
		h.onUpload(url)
	}
	return urls
}

func (h *Helper) put(ctx context.Context, f File) (string, error) {
	if f.Open == nil {
		return "", fmt.Errorf("file %q has no content", f.Name)
	}
	body, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %q: %w", f.Name, err)
	}
	defer body.Close()
	objectPath := ObjectPath(h.now(), f.Name)
	if err := h.storage.Upload(ctx, objectPath, body, f.ContentType); err != nil {
		return "", err
	}
	return h.storage.PublicURL(objectPath), nil
}
