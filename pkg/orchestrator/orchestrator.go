package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goliatone/go-typescaf/internal/checker"
	"github.com/goliatone/go-typescaf/internal/loader"
	"github.com/goliatone/go-typescaf/internal/tsparse"
	"github.com/goliatone/go-typescaf/pkg/diagnostic"
	"github.com/goliatone/go-typescaf/pkg/format"
	"github.com/goliatone/go-typescaf/pkg/inference"
	"github.com/goliatone/go-typescaf/pkg/mockdata"
	"github.com/goliatone/go-typescaf/pkg/render"
	"github.com/goliatone/go-typescaf/pkg/schema"
	"github.com/goliatone/go-typescaf/pkg/settings"
	"github.com/goliatone/go-typescaf/pkg/templates"
)

const defaultDebounce = 200 * time.Millisecond

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLogger sets the logger used for progress messages and, through a log
// sink, for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithSink adds a diagnostic sink next to the logger and the report
// collector.
func WithSink(sink diagnostic.Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithFS reads the project (settings, sources, overlays and template
// overrides) from fsys instead of the OS filesystem rooted at
// Request.Root. Request.Root is still used to place generated files.
func WithFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.fsys = fsys
	}
}

// WithSettings bypasses settings discovery.
func WithSettings(cfg settings.Settings) Option {
	return func(o *Orchestrator) {
		o.settings = &cfg
	}
}

// WithWriter replaces the OS writer.
func WithWriter(w render.Writer) Option {
	return func(o *Orchestrator) {
		o.writer = w
	}
}

// WithFormatter replaces the default formatter registry.
func WithFormatter(f *format.Registry) Option {
	return func(o *Orchestrator) {
		o.formatter = f
	}
}

// WithSynthesizer replaces the mock data synthesizer.
func WithSynthesizer(s *mockdata.Synthesizer) Option {
	return func(o *Orchestrator) {
		o.synth = s
	}
}

// WithCatalog replaces the embedded template set catalog.
func WithCatalog(c *templates.Catalog) Option {
	return func(o *Orchestrator) {
		o.catalog = c
	}
}

// WithUIDecorators registers decorators that run against every component
// before rendering, after the UI overlay.
func WithUIDecorators(decorators ...render.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithUISchemaFS supplies the fs.FS holding UI overlay documents. Pass nil
// to disable overlays.
func WithUISchemaFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.uiSchemaFS = fsys
		o.uiSchemaSpecified = true
	}
}

// WithSchemaTransformer registers a Transformer that can rewrite inferred
// properties before they reach the renderer.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDebounce sets the quiet period Watch waits for before re-running.
func WithDebounce(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.debounce = d
	}
}

// WithLookupEnv replaces os.LookupEnv for settings overrides.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *Orchestrator) {
		o.lookupEnv = lookup
	}
}

// Orchestrator coordinates the pipeline from TypeScript sources to
// generated component files.
type Orchestrator struct {
	logger            *slog.Logger
	sink              diagnostic.Sink
	fsys              fs.FS
	settings          *settings.Settings
	writer            render.Writer
	formatter         *format.Registry
	synth             *mockdata.Synthesizer
	catalog           *templates.Catalog
	decorators        []render.Decorator
	uiSchemaFS        fs.FS
	uiSchemaSpecified bool
	transformer       Transformer
	debounce          time.Duration
	lookupEnv         func(string) (string, bool)
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.writer == nil {
		o.writer = render.OSWriter{}
	}
	if o.formatter == nil {
		o.formatter = format.Default()
	}
	if o.synth == nil {
		o.synth = mockdata.New()
	}
	if o.catalog == nil {
		o.catalog = templates.DefaultCatalog()
	}
	if o.debounce <= 0 {
		o.debounce = defaultDebounce
	}
}

// Request describes one generation run.
type Request struct {
	// Root is the project directory. Empty means the working directory.
	Root string

	// Sources overrides the settings source globs. Patterns are slash
	// separated and relative to Root.
	Sources []string

	// TestMode prefixes every output directory with a dot.
	TestMode bool
}

// Report summarises a run.
type Report struct {
	TemplateSet string
	Sources     []string
	Classes     []string
	Written     []string
	ParseErrors []*tsparse.ParseError
	Diagnostics []diagnostic.Diagnostic
}

// Count returns the number of diagnostics at sev.
func (r *Report) Count(sev diagnostic.Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// session is the state shared by one Generate or Extract run.
type session struct {
	root      string
	fsys      fs.FS
	settings  settings.Settings
	files     []*tsparse.SourceFile
	engine    *inference.Engine
	collector *diagnostic.Collector
	sink      diagnostic.Sink
	report    *Report
	mu        sync.Mutex
}

func (s *session) addClass(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Classes = append(s.report.Classes, name)
}

// Generate loads the settings and sources of req.Root, infers a schema for
// every class and renders each one through the configured targets. Render
// failures do not stop the run; they are joined into the returned error
// alongside a complete Report.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Report, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	s, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.newRenderer(s, req.TestMode)
	if err != nil {
		return s.report, err
	}
	walker := inference.NewWalker(s.engine, o.wrap(renderer, s), s.sink)

	o.logger.Info("Generating components", "sources", len(s.files), "root", s.root)
	var errs []error
	for _, file := range s.files {
		if err := walker.Walk(ctx, file); err != nil {
			errs = append(errs, err)
		}
		if ctx.Err() != nil {
			break
		}
	}

	s.report.Written = renderer.Written()
	s.report.Diagnostics = s.collector.Diagnostics()
	o.logger.Info("Generation finished",
		"classes", len(s.report.Classes),
		"files", len(s.report.Written),
		"warnings", s.report.Count(diagnostic.SeverityWarning),
		"errors", s.report.Count(diagnostic.SeverityError),
	)
	return s.report, errors.Join(errs...)
}

// ClassSchema is the inferred schema of one class.
type ClassSchema struct {
	Name       string            `json:"name"`
	File       string            `json:"file"`
	Properties []schema.Property `json:"properties"`
}

// Extraction is the result of Extract.
type Extraction struct {
	Settings settings.Settings `json:"settings"`
	Classes  []ClassSchema     `json:"classes"`
	Report   *Report           `json:"-"`
}

// Map returns the extracted properties keyed by class name. A later class
// with the same name wins.
func (e *Extraction) Map() map[string][]schema.Property {
	out := make(map[string][]schema.Property, len(e.Classes))
	for _, c := range e.Classes {
		out[c.Name] = c.Properties
	}
	return out
}

// Extract infers the schema of every class without rendering anything.
// Classes that yield no properties are omitted, matching what Generate
// would render.
func (o *Orchestrator) Extract(ctx context.Context, req Request) (*Extraction, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	s, err := o.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	out := &Extraction{Settings: s.settings, Report: s.report}
	for _, file := range s.files {
		for _, class := range file.Classes() {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			if class.Name == "" {
				continue
			}
			props := s.engine.Extract(class)
			if len(props) == 0 {
				continue
			}
			props, err := o.transform(ctx, class.Name, props)
			if err != nil {
				return out, err
			}
			s.addClass(class.Name)
			out.Classes = append(out.Classes, ClassSchema{Name: class.Name, File: file.Path, Properties: props})
		}
	}
	s.report.Diagnostics = s.collector.Diagnostics()
	return out, nil
}

// prepare resolves settings and sources, parses every file and builds the
// program and inference engine.
func (o *Orchestrator) prepare(ctx context.Context, req Request) (*session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := req.Root
	if root == "" {
		root = "."
	}
	fsys := o.fsys
	if fsys == nil {
		fsys = os.DirFS(root)
	}

	cfg, err := o.loadSettings(root)
	if err != nil {
		return nil, err
	}

	collector := diagnostic.NewCollector()
	s := &session{
		root:      root,
		fsys:      fsys,
		settings:  cfg,
		collector: collector,
		sink:      diagnostic.Tee(collector, diagnostic.NewLogSink(o.logger), o.sink),
		report:    &Report{TemplateSet: cfg.TemplateType},
	}

	patterns := req.Sources
	if len(patterns) == 0 {
		patterns = cfg.Sources
	}
	paths, err := resolveSources(fsys, patterns)
	if err != nil {
		return nil, err
	}
	s.report.Sources = paths

	ld := loader.New(fsys)
	for _, p := range paths {
		doc, err := ld.Load(ctx, schema.SourceFromFS(p))
		if err != nil {
			return nil, fmt.Errorf("orchestrator: load %s: %w", p, err)
		}
		s.files = append(s.files, s.parse(doc))
	}

	program := checker.NewProgram(s.files, checker.WithHost(s.host(ctx, ld)))
	s.engine = inference.NewEngine(program,
		inference.WithSink(s.sink),
		inference.WithMaxDepth(cfg.MaxDepth),
	)
	return s, nil
}

func (o *Orchestrator) loadSettings(root string) (settings.Settings, error) {
	if o.settings != nil {
		cfg := *o.settings
		cfg.Normalize()
		return cfg, nil
	}

	var (
		cfg settings.Settings
		err error
	)
	if o.fsys == nil && o.lookupEnv == nil {
		cfg, err = settings.Load(root)
	} else {
		cfg, _, err = settings.LoadFS(o.project(root), settings.ConfigDir)
		if errors.Is(err, settings.ErrNotFound) {
			cfg = settings.Defaults()
			cfg.Normalize()
		}
		if err == nil || errors.Is(err, settings.ErrNotFound) {
			cfg.ApplyEnv(o.lookupEnv)
		}
	}
	if errors.Is(err, settings.ErrNotFound) {
		o.logger.Warn("No settings file found, using defaults", "dir", filepath.Join(root, settings.ConfigDir))
		return cfg, nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("orchestrator: %w", err)
	}
	return cfg, nil
}

func (o *Orchestrator) project(root string) fs.FS {
	if o.fsys != nil {
		return o.fsys
	}
	return os.DirFS(root)
}

// parse parses one document, reporting syntax errors against its path. A
// file with errors still yields the declarations that parsed.
func (s *session) parse(doc schema.Document) *tsparse.SourceFile {
	file, errs := tsparse.Parse(doc.Location(), doc.Text())
	for _, perr := range errs {
		s.report.ParseErrors = append(s.report.ParseErrors, perr)
		s.sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Category: diagnostic.CategoryParse,
			File:     doc.Location(),
			Line:     perr.Line,
			Column:   perr.Col,
			Message:  perr.Message,
			Err:      perr,
		})
	}
	return file
}

// host resolves imports that are not part of the source set by loading
// them on demand from the project filesystem.
func (s *session) host(ctx context.Context, ld *loader.Loader) checker.Host {
	return checker.HostFunc(func(modulePath string) (*tsparse.SourceFile, bool) {
		doc, ok := ld.Module(ctx, modulePath)
		if !ok {
			return nil, false
		}
		return s.parse(doc), true
	})
}
