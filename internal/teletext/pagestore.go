package teletext

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SarahRoseLives/hacktv/internal/herr"
)

// Page is one Level-1 teletext page: 24 rows of 40 columns.
type Page struct {
	Number  int // hex 0x100-0x8FF
	Subpage int
	Lines   [24][40]byte
}

// pageKey identifies a page+subpage in the store.
type pageKey struct {
	Number  int
	Subpage int
}

// PageStore holds the set of pages loaded from a directory of `.tti`
// (EP1-format Level-1 teletext) files, with an insertion cursor the
// composer advances line by line. Row 0 is sent as the page stores it;
// no clock is written into the header row.
type PageStore struct {
	pages  map[pageKey]*Page
	order  []pageKey
	cursor int
}

// NewPageStore creates an empty page store.
func NewPageStore() *PageStore {
	return &PageStore{pages: make(map[pageKey]*Page)}
}

// LoadDir reads every `.tti` file in dir, one file per page, parsing the
// EP1 `PN`/`SP`/`CY`/`OL` line tags.
func (s *PageStore) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return herr.Wrap(herr.IoError, "teletext: read page directory", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".tti") {
			continue
		}
		if err := s.loadFile(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (s *PageStore) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return herr.Wrap(herr.IoError, "teletext: open page file", err)
	}
	defer f.Close()

	page := &Page{Number: 0x100, Subpage: 0}
	for i := range page.Lines {
		for j := range page.Lines[i] {
			page.Lines[i][j] = ' '
		}
	}

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		tag, val, found := strings.Cut(line, ",")
		if !found {
			continue
		}
		switch tag {
		case "PN":
			if n, err := strconv.ParseInt(strings.TrimSpace(val), 16, 32); err == nil {
				page.Number = int(n)
			}
		case "SP":
			if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
				page.Subpage = n
			}
		case "CY":
			// Cycle time, advisory only; not needed to render a page.
		case "OL":
			row, text, ok := strings.Cut(val, ",")
			if !ok {
				continue
			}
			r, err := strconv.Atoi(strings.TrimSpace(row))
			if err != nil || r < 0 || r >= len(page.Lines) {
				continue
			}
			copy(page.Lines[r][:], text)
		}
	}
	if err := sc.Err(); err != nil {
		return herr.Wrap(herr.IoError, "teletext: scan page file", err)
	}

	key := pageKey{page.Number, page.Subpage}
	if _, exists := s.pages[key]; !exists {
		s.order = append(s.order, key)
	}
	s.pages[key] = page
	return nil
}

// subtitlePage is the page number live subtitle rows are transmitted on,
// the conventional UK/European teletext subtitle page.
const subtitlePage = 0x888

// SetSubtitleText replaces the subtitle page's visible rows with text,
// word-wrapped to the 40-column raster. An empty text blanks the page
// but keeps it in rotation so receivers holding page 888 see the cue
// clear rather than the page vanish.
func (s *PageStore) SetSubtitleText(text string) {
	key := pageKey{subtitlePage, 0}
	page, ok := s.pages[key]
	if !ok {
		page = &Page{Number: subtitlePage}
		s.pages[key] = page
		s.order = append(s.order, key)
	}
	for i := range page.Lines {
		for j := range page.Lines[i] {
			page.Lines[i][j] = ' '
		}
	}
	row := 20
	for _, line := range wrapText(text, 40) {
		if row >= len(page.Lines) {
			break
		}
		copy(page.Lines[row][:], line)
		row++
	}
}

func wrapText(text string, width int) []string {
	var lines []string
	for _, src := range strings.Split(text, "\n") {
		for len(src) > width {
			cut := strings.LastIndexByte(src[:width], ' ')
			if cut <= 0 {
				cut = width
			}
			lines = append(lines, strings.TrimSpace(src[:cut]))
			src = strings.TrimSpace(src[cut:])
		}
		if src != "" {
			lines = append(lines, src)
		}
	}
	return lines
}

// Len returns the number of loaded pages.
func (s *PageStore) Len() int { return len(s.order) }

// Lookup returns the page with the given number/subpage, if loaded.
func (s *PageStore) Lookup(number, subpage int) (*Page, bool) {
	p, ok := s.pages[pageKey{number, subpage}]
	return p, ok
}

// NextRowPacket advances the insertion cursor by one row and returns the
// Packet carrying that row of the current page in rotation, cycling
// through every loaded page's 24 rows before repeating; this cursor
// decides what each VBI teletext line transmits.
func (s *PageStore) NextRowPacket() (Packet, bool) {
	if len(s.order) == 0 {
		return Packet{}, false
	}
	const rowsPerPage = 24
	total := len(s.order) * rowsPerPage
	idx := s.cursor % total
	s.cursor++

	key := s.order[idx/rowsPerPage]
	row := idx % rowsPerPage
	page := s.pages[key]

	magazine := (page.Number >> 8) & 0x7
	if magazine == 0 {
		magazine = 8
	}
	p := Packet{Magazine: magazine, Row: row}
	copy(p.Payload[:], page.Lines[row][:])
	return p, true
}
