package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goreportcsv/internal/detect"
	"github.com/hyperifyio/goreportcsv/internal/extract"
	"github.com/hyperifyio/goreportcsv/internal/render"
	sel "github.com/hyperifyio/goreportcsv/internal/select"
)

// State names the phase of the conversion machine.
type State int

const (
	// Empty means no upload is held.
	Empty State = iota
	// Uploaded means raw bytes are decoded but no table is extracted yet.
	Uploaded
	// Extracted means a qualifying table grid is available.
	Extracted
	// Selected means a row range has been applied to the grid.
	Selected
	// Ready means CSV bytes are finalized and downloadable.
	Ready
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Uploaded:
		return "uploaded"
	case Extracted:
		return "extracted"
	case Selected:
		return "selected"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrState indicates an operation invoked in a phase that cannot serve it.
var ErrState = errors.New("invalid session state")

// ErrNoCSV indicates a download attempt before any CSV was finalized.
var ErrNoCSV = errors.New("no csv ready")

// Session owns the one active conversion: the uploaded bytes, the decoded
// document, the extracted grid, the chosen row mode and the finalized CSV.
// It is the explicit state holder handlers receive instead of ambient
// globals, and it serializes interactions with a mutex because HTTP handlers
// may race. Exactly one upload tuple is held at a time; a new upload replaces
// everything atomically.
type Session struct {
	mu sync.Mutex

	previewCap int
	extractor  extract.Extractor

	state     State
	uploadID  string
	filename  string
	raw       []byte
	doc       detect.Document
	grid      extract.Grid
	mode      sel.Mode
	selection sel.Selection
	csv       []byte
	csvName   string
	lastErr   string
}

// New returns an empty session. previewCap bounds the number of rows exposed
// in snapshot previews; zero or negative means unbounded.
func New(previewCap int) *Session {
	return &Session{
		previewCap: previewCap,
		extractor:  extract.FirstQualifying{},
	}
}

// Upload replaces all session state with the given file and decodes it,
// accepting the detector's top charset guess with a UTF-8 fallback. The
// replacement is atomic: either the new tuple is committed in full or the
// prior state stays untouched.
func (s *Session) Upload(filename string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := make([]byte, len(raw))
	copy(owned, raw)
	doc, err := detect.Decode(owned)
	if err != nil {
		return fmt.Errorf("decode upload: %w", err)
	}

	s.state = Uploaded
	s.uploadID = uuid.NewString()
	s.filename = filename
	s.raw = owned
	s.doc = doc
	s.grid = extract.Grid{}
	s.mode = nil
	s.selection = sel.Selection{}
	s.csv = nil
	s.csvName = ""
	s.lastErr = ""

	log.Info().
		Str("upload_id", s.uploadID).
		Str("filename", filename).
		Int("bytes", len(owned)).
		Str("encoding", doc.Encoding).
		Msg("upload accepted")
	return nil
}

// Extract locates the first qualifying table in the uploaded document. When
// no table qualifies the session returns to Empty and the error carries
// extract.ErrNoTable for the caller to surface.
func (s *Session) Extract() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Uploaded {
		return fmt.Errorf("%w: extract requires a fresh upload, session is %s", ErrState, s.state)
	}
	grid, err := s.extractor.Extract(s.doc.Text)
	if err != nil {
		id := s.uploadID
		s.clearLocked()
		s.lastErr = err.Error()
		log.Warn().Err(err).Str("upload_id", id).Msg("extraction failed, session emptied")
		return fmt.Errorf("extract table: %w", err)
	}
	s.grid = grid
	s.state = Extracted
	s.lastErr = ""
	log.Info().
		Str("upload_id", s.uploadID).
		Int("rows", grid.RowCount()).
		Int("columns", grid.MaxColumns()).
		Bool("ragged", grid.Ragged()).
		Msg("table extracted")
	return nil
}

// Choose applies a row-selection mode to the extracted grid. It is
// re-enterable: changing the mode re-runs selection, and a finalized CSV is
// discarded because it no longer matches. Invalid manual bounds leave the
// session exactly where it was, awaiting a corrected mode.
func (s *Session) Choose(m sel.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Extracted, Selected, Ready:
	default:
		return fmt.Errorf("%w: choose requires an extracted table, session is %s", ErrState, s.state)
	}
	selection, err := sel.Apply(s.grid, m)
	if err != nil {
		s.lastErr = err.Error()
		log.Warn().Err(err).Str("upload_id", s.uploadID).Msg("row selection rejected")
		return fmt.Errorf("choose rows: %w", err)
	}
	s.mode = m
	s.selection = selection
	s.csv = nil
	s.csvName = ""
	s.state = Selected
	s.lastErr = ""
	log.Info().
		Str("upload_id", s.uploadID).
		Str("mode", m.String()).
		Int("selected", selection.RowCount()).
		Msg("rows selected")
	return nil
}

// Finalize serializes the current selection into downloadable CSV bytes and
// derives the suggested filename from the uploaded one.
func (s *Session) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Selected {
		return fmt.Errorf("%w: finalize requires a selection, session is %s", ErrState, s.state)
	}
	data, err := render.CSV(s.selection)
	if err != nil {
		return fmt.Errorf("serialize csv: %w", err)
	}
	s.csv = data
	s.csvName = render.Filename(s.filename)
	s.state = Ready
	log.Info().
		Str("upload_id", s.uploadID).
		Str("filename", s.csvName).
		Int("bytes", len(data)).
		Msg("csv ready")
	return nil
}

// Download hands out the finalized CSV and its suggested filename. The bytes
// stay available for repeated downloads until the next upload, mode change
// or reset.
func (s *Session) Download() (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Ready || s.csv == nil {
		return "", nil, fmt.Errorf("%w: session is %s", ErrNoCSV, s.state)
	}
	return s.csvName, s.csv, nil
}

// Reset discards everything and returns the session to Empty.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.uploadID
	s.clearLocked()
	log.Debug().Str("upload_id", id).Msg("session reset")
}

func (s *Session) clearLocked() {
	s.state = Empty
	s.uploadID = ""
	s.filename = ""
	s.raw = nil
	s.doc = detect.Document{}
	s.grid = extract.Grid{}
	s.mode = nil
	s.selection = sel.Selection{}
	s.csv = nil
	s.csvName = ""
	s.lastErr = ""
}

// Snapshot is the display view of the session: everything the UI renders and
// nothing it must not mutate.
type Snapshot struct {
	State           string     `json:"state"`
	UploadID        string     `json:"upload_id,omitempty"`
	Filename        string     `json:"filename,omitempty"`
	Encoding        string     `json:"encoding,omitempty"`
	TotalRows       int        `json:"total_rows"`
	SelectedRows    int        `json:"selected_rows"`
	Mode            string     `json:"mode,omitempty"`
	Header          []string   `json:"header,omitempty"`
	PreviewFull     [][]string `json:"preview_full,omitempty"`
	PreviewSelected [][]string `json:"preview_selected,omitempty"`
	SuggestedName   string     `json:"suggested_name,omitempty"`
	CSVReady        bool       `json:"csv_ready"`
	Error           string     `json:"error,omitempty"`
}

// Snapshot reports the current state for the display boundary: detected
// encoding, row counts, bounded grid previews and the suggested download
// name.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:        s.state.String(),
		UploadID:     s.uploadID,
		Filename:     s.filename,
		TotalRows:    s.grid.RowCount(),
		SelectedRows: s.selection.RowCount(),
		CSVReady:     s.state == Ready,
		Error:        s.lastErr,
	}
	if s.state >= Uploaded {
		snap.Encoding = s.doc.Encoding
	}
	if s.mode != nil {
		snap.Mode = s.mode.String()
	}
	if s.state >= Extracted {
		snap.Header = append([]string(nil), s.grid.Header...)
		snap.PreviewFull = previewRows(s.grid.Rows, s.previewCap)
	}
	if s.state >= Selected {
		snap.PreviewSelected = previewRows(s.selection.Rows, s.previewCap)
	}
	if s.state == Ready {
		snap.SuggestedName = s.csvName
	}
	return snap
}

// previewRows bounds rows to at most limit entries without copying cell data.
func previewRows(rows [][]string, limit int) [][]string {
	n := len(rows)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([][]string, n)
	copy(out, rows[:n])
	return out
}
