package fits

import (
	"fmt"
	"strings"

	"github.com/astrogo/fitsio"

	"github.com/robert-malhotra/go-acalib/nddata"
	"github.com/robert-malhotra/go-acalib/wcs"
)

// structuralKeys describe the HDU layout and are regenerated on write.
var structuralKeys = map[string]bool{
	"SIMPLE":   true,
	"XTENSION": true,
	"BITPIX":   true,
	"NAXIS":    true,
	"EXTEND":   true,
	"PCOUNT":   true,
	"GCOUNT":   true,
	"TFIELDS":  true,
	"THEAP":    true,
	"BLANK":    true,
	"END":      true,
}

// indexedStructural are structural keyword families followed by an index.
var indexedStructural = []string{
	"NAXIS", "TTYPE", "TFORM", "TUNIT", "TDIM", "TNULL",
	"TSCAL", "TZERO", "TDISP", "TBCOL",
}

// staleKeys no longer hold once the payload is rewritten.
var staleKeys = map[string]bool{
	"CHECKSUM": true,
	"DATASUM":  true,
}

func isStructural(key string) bool {
	if structuralKeys[key] {
		return true
	}
	for _, p := range indexedStructural {
		if rest, ok := strings.CutPrefix(key, p); ok && rest != "" && isDigits(rest) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isCommentary(key string) bool {
	return key == "COMMENT" || key == "HISTORY" || key == ""
}

// headerMetadata copies the non-structural cards of hdr. Keyed cards keep
// their first occurrence; COMMENT, HISTORY and blank cards are collected in
// header order.
func headerMetadata(hdr *fitsio.Header) *nddata.Metadata {
	m := nddata.NewMetadata()
	for i := 0; ; i++ {
		card := cardAt(hdr, i)
		if card == nil || card.Name == "END" {
			break
		}
		key := card.Name
		switch {
		case isCommentary(key):
			text := card.Comment
			if s, ok := card.Value.(string); ok && text == "" {
				text = s
			}
			if key == "" && text == "" {
				continue
			}
			m.AddCommentary(key, text)
		case isStructural(key), m.Has(key):
		default:
			m.SetWithComment(key, card.Value, card.Comment)
		}
	}
	return m
}

// cardAt returns the i-th card of hdr, or nil past the last one.
// fitsio has no card count and Header.Card panics out of range.
func cardAt(hdr *fitsio.Header, i int) (card *fitsio.Card) {
	defer func() {
		if recover() != nil {
			card = nil
		}
	}()
	return hdr.Card(i)
}

// cardList is an ordered set of header cards where setting an existing key
// replaces it in place.
type cardList struct {
	cards []fitsio.Card
	index map[string]int
}

func newCardList() *cardList {
	return &cardList{index: make(map[string]int)}
}

func (l *cardList) set(name string, value any, comment string) {
	if i, ok := l.index[name]; ok {
		l.cards[i].Value = value
		if comment != "" {
			l.cards[i].Comment = comment
		}
		return
	}
	l.index[name] = len(l.cards)
	l.cards = append(l.cards, fitsio.Card{Name: name, Value: value, Comment: comment})
}

func (l *cardList) delete(name string) {
	i, ok := l.index[name]
	if !ok {
		return
	}
	l.cards = append(l.cards[:i], l.cards[i+1:]...)
	delete(l.index, name)
	for k, j := range l.index {
		if j > i {
			l.index[k] = j - 1
		}
	}
}

func (l *cardList) addCommentary(name, text string) {
	l.cards = append(l.cards, fitsio.Card{Name: name, Comment: text})
}

func (l *cardList) addWCS(w *wcs.WCS) {
	if w == nil {
		return
	}
	for _, kw := range w.Keywords() {
		l.set(kw.Name, kw.Value, kw.Comment)
	}
}

// overlay copies m on top of the cards already present. Metadata wins over
// earlier cards. Structural and stale keys are skipped, as are the keys in
// reserved.
func (l *cardList) overlay(m *nddata.Metadata, reserved ...string) error {
	for key, value := range m.All() {
		if isStructural(key) || staleKeys[key] || containsKey(reserved, key) {
			continue
		}
		if len(key) > 8 {
			return fmt.Errorf("%w: keyword %q is longer than 8 characters", ErrInvalidHDU, key)
		}
		l.set(key, value, m.Comment(key))
	}
	for _, c := range m.Commentary() {
		l.addCommentary(c.Key, c.Text)
	}
	return nil
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// appendTo adds the cards to hdr, skipping any key hdr already defines.
func (l *cardList) appendTo(hdr *fitsio.Header) error {
	cards := make([]fitsio.Card, 0, len(l.cards))
	for _, c := range l.cards {
		if !isCommentary(c.Name) && hdr.Get(c.Name) != nil {
			continue
		}
		cards = append(cards, c)
	}
	if err := hdr.Append(cards...); err != nil {
		return fmt.Errorf("building header: %w", err)
	}
	return nil
}

// extension names the HDU when it is written as part of a container.
type extension struct {
	name    string
	version int
}

func (e *extension) apply(l *cardList) {
	if e == nil {
		return
	}
	l.set("EXTNAME", e.name, "extension name")
	l.set("EXTVER", e.version, "extension version")
}
