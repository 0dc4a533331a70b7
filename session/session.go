// Package session coordinates one score-splitting session: it owns the
// detection pool, the project state and its history, and the collaborator
// adapters (rasterizer, labeling engine). All dispatches into the state
// machine are serialized here; the reducer itself stays lock-free and pure.
package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/wudi/scorekit/config"
	"github.com/wudi/scorekit/coords"
	"github.com/wudi/scorekit/document"
	"github.com/wudi/scorekit/export"
	"github.com/wudi/scorekit/labeling"
	"github.com/wudi/scorekit/observability"
	"github.com/wudi/scorekit/project"
	"github.com/wudi/scorekit/raster"
	"github.com/wudi/scorekit/segment"
	"github.com/wudi/scorekit/task"
)

// Session is one in-memory splitting session. Methods are safe for use from
// one goroutine at a time per the coordinator model; detection work itself
// runs on the pool's units.
type Session struct {
	cfg     config.Config
	raster  raster.Rasterizer
	labeler labeling.Engine
	log     observability.Logger

	pool *task.Pool

	mu      sync.Mutex
	state   *project.State
	history *project.History
	nextID  uint64
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session (and pool) logger.
func WithLogger(log observability.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithLabeler sets the instrument-name recognition engine. The default
// suggests nothing.
func WithLabeler(e labeling.Engine) Option {
	return func(s *Session) { s.labeler = e }
}

// New starts a session. The rasterizer supplies page pixels on demand; it is
// the caller's collaborator and the session never renders PDF content
// itself.
func New(cfg config.Config, r raster.Rasterizer, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("session: rasterizer is required")
	}
	s := &Session{
		cfg:     cfg,
		raster:  r,
		labeler: labeling.NopEngine(),
		log:     observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pool = task.NewPool(cfg.Pool.Size, task.WithLogger(s.log))
	s.state = project.NewState()
	s.history = project.NewHistory(s.state)
	return s, nil
}

// Close terminates the detection pool. Pending detection futures stay
// unsettled; see task.Pool.Terminate.
func (s *Session) Close() {
	s.pool.Terminate()
}

// PoolSize reports the number of detection units.
func (s *Session) PoolSize() int { return s.pool.Size() }

// State returns the current project state. The returned value is immutable
// by convention; dispatch actions to change it.
func (s *Session) State() *project.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns the current undo/redo stack.
func (s *Session) History() *project.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history
}

// Dispatch runs one action through the composed reducer.
func (s *Session) Dispatch(a project.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, s.history = project.ReduceWithHistory(s.state, s.history, a)
}

// LoadDocument loads a parsed source document into the project and resets
// history.
func (s *Session) LoadDocument(f document.Loader) {
	s.log.Info("document loaded",
		observability.String("file", f.FileName()),
		observability.Int("pages", f.PageCount()))
	s.Dispatch(f.LoadAction())
}

// Undo steps the structural edits back once; a no-op without history.
func (s *Session) Undo() { s.Dispatch(project.Undo{}) }

// Redo steps forward once; a no-op without redo entries.
func (s *Session) Redo() { s.Dispatch(project.Redo{}) }

// Reset clears the project back to the empty state.
func (s *Session) Reset() { s.Dispatch(project.Reset{}) }

// SetCurrentPage moves the page cursor after validating it against the
// loaded document.
func (s *Session) SetCurrentPage(index int) error {
	s.mu.Lock()
	pageCount := s.state.PageCount
	s.mu.Unlock()
	if index < 0 || index >= pageCount {
		return fmt.Errorf("session: page %d out of range [0, %d)", index, pageCount)
	}
	s.Dispatch(project.SetCurrentPage{Index: index})
	return nil
}

// DetectPage renders one page, runs combined system/staff detection on the
// pool and merges the result into the project, replacing that page's
// previous structure as one undo step.
func (s *Session) DetectPage(ctx context.Context, pageIndex int) error {
	pending, err := s.submitPage(ctx, pageIndex)
	if err != nil {
		return err
	}
	resp, err := pending.future.Await(ctx)
	if err != nil {
		return fmt.Errorf("session: detect page %d: %w", pageIndex, err)
	}
	systems, staffs := s.recordsFromPage(resp.Page, pageIndex, pending.m)
	s.mergePages(map[int]pageStructure{pageIndex: {systems, staffs}})
	return nil
}

// DetectAllPages runs combined detection for every page of the loaded
// document concurrently and merges all results as a single undo step.
func (s *Session) DetectAllPages(ctx context.Context) error {
	s.mu.Lock()
	pageCount := s.state.PageCount
	s.mu.Unlock()
	if pageCount == 0 {
		return fmt.Errorf("session: no document loaded")
	}

	submitted := make([]*pendingPage, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		pending, err := s.submitPage(ctx, i)
		if err != nil {
			return err
		}
		submitted = append(submitted, pending)
	}

	merged := make(map[int]pageStructure, pageCount)
	for i, pending := range submitted {
		resp, err := pending.future.Await(ctx)
		if err != nil {
			return fmt.Errorf("session: detect page %d: %w", i, err)
		}
		systems, staffs := s.recordsFromPage(resp.Page, i, pending.m)
		merged[i] = pageStructure{systems, staffs}
	}
	s.mergePages(merged)
	return nil
}

// SuggestLabels renders one page and runs the labeling engine over the label
// strip of every staff on that page. Suggestions are returned, not applied;
// apply them with UpdateStaff actions.
func (s *Session) SuggestLabels(ctx context.Context, pageIndex int) ([]labeling.Suggestion, error) {
	s.mu.Lock()
	var onPage []project.Staff
	for _, st := range s.state.Staffs {
		if st.PageIndex == pageIndex {
			onPage = append(onPage, st)
		}
	}
	dims := s.state.PageDimensions
	s.mu.Unlock()

	if len(onPage) == 0 {
		return nil, nil
	}
	if pageIndex < 0 || pageIndex >= len(dims) {
		return nil, fmt.Errorf("session: page %d out of range", pageIndex)
	}

	pix, err := s.raster.RenderPage(ctx, pageIndex)
	if err != nil {
		return nil, fmt.Errorf("session: render page %d: %w", pageIndex, err)
	}
	pm, err := coords.NewPageMap(dims[pageIndex].Height, float64(pix.Height)/dims[pageIndex].Height)
	if err != nil {
		return nil, err
	}

	suggestions := make([]labeling.Suggestion, 0, len(onPage))
	for _, st := range onPage {
		in, err := labeling.StripInput(pix, st.ID, pm.ToPixels(st.Top, st.Bottom), s.cfg.Labeling.StripWidth)
		if err != nil {
			return nil, err
		}
		in.Languages = s.cfg.Labeling.Languages
		sg, err := s.labeler.Recognize(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("session: label staff %s: %w", st.ID, err)
		}
		suggestions = append(suggestions, sg)
	}
	return suggestions, nil
}

// Parts returns the per-instrument parts derivable from the current staves.
func (s *Session) Parts() []export.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	return export.Parts(s.state.Staffs)
}

// ExportBundle writes every part as a PDF entry in one ZIP archive.
func (s *Session) ExportBundle(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	src := s.state.SourcePDF
	staffs := s.state.Staffs
	s.mu.Unlock()
	if len(src) == 0 {
		return fmt.Errorf("session: no source document to export")
	}
	parts := export.Parts(staffs)
	if len(parts) == 0 {
		return fmt.Errorf("session: nothing to export")
	}
	return export.WriteBundle(ctx, export.NewPDF(src), parts, w)
}

type pageStructure struct {
	systems []project.System
	staffs  []project.Staff
}

type pendingPage struct {
	m      *coords.PageMap
	future *task.Future
}

// submitPage renders a page, submits its detection request and prepares the
// coordinate conversion for the response.
func (s *Session) submitPage(ctx context.Context, pageIndex int) (*pendingPage, error) {
	s.mu.Lock()
	dims := s.state.PageDimensions
	s.mu.Unlock()
	if pageIndex < 0 || pageIndex >= len(dims) {
		return nil, fmt.Errorf("session: page %d out of range [0, %d)", pageIndex, len(dims))
	}

	pix, err := s.raster.RenderPage(ctx, pageIndex)
	if err != nil {
		return nil, fmt.Errorf("session: render page %d: %w", pageIndex, err)
	}
	if err := pix.Validate(); err != nil {
		return nil, err
	}
	m, err := coords.NewPageMap(dims[pageIndex].Height, float64(pix.Height)/dims[pageIndex].Height)
	if err != nil {
		return nil, err
	}

	future := s.pool.Submit(task.Request{
		Kind:      task.KindDetectPage,
		PageIndex: pageIndex,
		Data:      pix.Data,
		Width:     pix.Width,
		Height:    pix.Height,
		SystemGap: s.cfg.Detection.SystemGap,
		PartGap:   s.cfg.Detection.PartGap,
	})
	return &pendingPage{m: m, future: future}, nil
}

// recordsFromPage converts pipeline output into document-space records with
// fresh IDs.
func (s *Session) recordsFromPage(page []segment.SystemParts, pageIndex int, m *coords.PageMap) ([]project.System, []project.Staff) {
	s.mu.Lock()
	defer s.mu.Unlock()

	systems := make([]project.System, 0, len(page))
	var staffs []project.Staff
	for _, sp := range page {
		s.nextID++
		sysID := fmt.Sprintf("sys-%d", s.nextID)
		top, bottom := m.ToDoc(sp.System)
		systems = append(systems, project.System{
			ID:        sysID,
			PageIndex: pageIndex,
			Top:       top,
			Bottom:    bottom,
		})
		for _, sb := range sp.Staffs {
			s.nextID++
			top, bottom := m.ToDoc(sb)
			staffs = append(staffs, project.Staff{
				ID:        fmt.Sprintf("staff-%d", s.nextID),
				PageIndex: pageIndex,
				Top:       top,
				Bottom:    bottom,
				SystemID:  sysID,
			})
		}
	}
	return systems, staffs
}

// mergePages replaces the structure of the given pages while preserving
// every other page, dispatched as a single undoable action.
func (s *Session) mergePages(pages map[int]pageStructure) {
	s.mu.Lock()
	var systems []project.System
	var staffs []project.Staff
	for _, sys := range s.state.Systems {
		if _, replaced := pages[sys.PageIndex]; !replaced {
			systems = append(systems, sys)
		}
	}
	for _, st := range s.state.Staffs {
		if _, replaced := pages[st.PageIndex]; !replaced {
			staffs = append(staffs, st)
		}
	}
	for i := 0; i < len(s.state.PageDimensions); i++ {
		if ps, ok := pages[i]; ok {
			systems = append(systems, ps.systems...)
			staffs = append(staffs, ps.staffs...)
		}
	}
	s.mu.Unlock()

	s.log.Info("page structure updated",
		observability.Int("systems", len(systems)),
		observability.Int("staffs", len(staffs)))
	s.Dispatch(project.SetStaffsAndSystems{Staffs: staffs, Systems: systems})
}
