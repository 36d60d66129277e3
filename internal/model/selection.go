package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key addresses one sub-dimension by its position in the catalog.
type Key struct {
	Dimension    int `json:"dimension"`
	SubDimension int `json:"subDimension"`
}

// Selection maps sub-dimensions to a chosen level in [1, L]. A sub-dimension
// without an entry is unselected; unselected is never stored as 0.
//
// The zero value is an empty selection. Copies share storage, use Clone to
// detach.
type Selection struct {
	levels map[Key]int
}

func NewSelection() Selection {
	return Selection{levels: make(map[Key]int)}
}

// Get returns the level for the sub-dimension and whether it is selected.
func (s Selection) Get(dim, sub int) (int, bool) {
	lvl, ok := s.levels[Key{dim, sub}]
	return lvl, ok
}

// Set records a level. Levels below 1 are rejected; the catalog range is
// checked by Validate.
func (s *Selection) Set(dim, sub, level int) error {
	if dim < 0 || sub < 0 {
		return fmt.Errorf("%w: negative index (%d, %d)", ErrInvalidSelection, dim, sub)
	}
	if level < 1 {
		return fmt.Errorf("%w: level %d is below 1", ErrInvalidSelection, level)
	}
	if s.levels == nil {
		s.levels = make(map[Key]int)
	}
	s.levels[Key{dim, sub}] = level
	return nil
}

// Clear marks the sub-dimension unselected.
func (s *Selection) Clear(dim, sub int) {
	delete(s.levels, Key{dim, sub})
}

// Len is the number of selected sub-dimensions.
func (s Selection) Len() int {
	return len(s.levels)
}

// Keys returns the selected sub-dimensions in catalog order.
func (s Selection) Keys() []Key {
	keys := make([]Key, 0, len(s.levels))
	for k := range s.levels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Dimension != keys[j].Dimension {
			return keys[i].Dimension < keys[j].Dimension
		}
		return keys[i].SubDimension < keys[j].SubDimension
	})
	return keys
}

func (s Selection) Clone() Selection {
	out := Selection{levels: make(map[Key]int, len(s.levels))}
	for k, v := range s.levels {
		out.levels[k] = v
	}
	return out
}

func (s Selection) Equal(other Selection) bool {
	if len(s.levels) != len(other.levels) {
		return false
	}
	for k, v := range s.levels {
		if ov, ok := other.levels[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Validate checks every entry against the catalog: indices must exist and the
// level must be within [1, L] of that sub-dimension.
func (s Selection) Validate(c *Catalog) error {
	for _, k := range s.Keys() {
		maxLevel := c.MaxLevel(k.Dimension, k.SubDimension)
		if maxLevel == 0 {
			return fmt.Errorf("%w: unknown sub-dimension (%d, %d)", ErrInvalidSelection, k.Dimension, k.SubDimension)
		}
		if lvl := s.levels[k]; lvl < 1 || lvl > maxLevel {
			return fmt.Errorf("%w: level %d for (%d, %d) outside [1, %d]", ErrInvalidSelection, lvl, k.Dimension, k.SubDimension, maxLevel)
		}
	}
	return nil
}

// wireSelection is the stored form:
//
//	{"selectedLevels": {"0": {"0": 3, "1": ""}, "1": {"0": 1}}}
//
// A blank string marks an unselected sub-dimension.
type wireSelection struct {
	SelectedLevels map[string]map[string]any `json:"selectedLevels"`
}

// MarshalJSON emits only the selected entries.
func (s Selection) MarshalJSON() ([]byte, error) {
	w := wireSelection{SelectedLevels: make(map[string]map[string]any)}
	for k, v := range s.levels {
		dk := strconv.Itoa(k.Dimension)
		if w.SelectedLevels[dk] == nil {
			w.SelectedLevels[dk] = make(map[string]any)
		}
		w.SelectedLevels[dk][strconv.Itoa(k.SubDimension)] = v
	}
	return json.Marshal(w)
}

// EncodeSelection serializes a selection over the full catalog grid, writing a
// blank for every unselected sub-dimension. This is the form snapshots are
// stored in.
func EncodeSelection(c *Catalog, s Selection) ([]byte, error) {
	w := wireSelection{SelectedLevels: make(map[string]map[string]any, len(c.Dimensions))}
	for d, dim := range c.Dimensions {
		row := make(map[string]any, len(dim.SubDimensions))
		for sub := range dim.SubDimensions {
			if lvl, ok := s.Get(d, sub); ok {
				row[strconv.Itoa(sub)] = lvl
			} else {
				row[strconv.Itoa(sub)] = ""
			}
		}
		w.SelectedLevels[strconv.Itoa(d)] = row
	}
	// entries outside the catalog are kept rather than silently dropped
	for _, k := range s.Keys() {
		if c.MaxLevel(k.Dimension, k.SubDimension) == 0 {
			dk := strconv.Itoa(k.Dimension)
			if w.SelectedLevels[dk] == nil {
				w.SelectedLevels[dk] = make(map[string]any)
			}
			w.SelectedLevels[dk][strconv.Itoa(k.SubDimension)] = s.levels[k]
		}
	}
	return json.Marshal(w)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeSelection(data)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// DecodeSelection parses the stored form. Blank strings, null and missing
// entries are unselected; numeric strings are accepted. Anything else fails
// with ErrSerialization.
func DecodeSelection(data []byte) (Selection, error) {
	out := NewSelection()
	if len(bytes.TrimSpace(data)) == 0 {
		return out, fmt.Errorf("%w: empty payload", ErrSerialization)
	}

	var w struct {
		SelectedLevels map[string]map[string]json.RawMessage `json:"selectedLevels"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return out, fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	for dk, row := range w.SelectedLevels {
		dim, ok := parseIndex(dk)
		if !ok {
			return out, fmt.Errorf("%w: dimension key %q is not an index", ErrSerialization, dk)
		}
		for sk, raw := range row {
			sub, ok := parseIndex(sk)
			if !ok {
				return out, fmt.Errorf("%w: sub-dimension key %q is not an index", ErrSerialization, sk)
			}
			lvl, selected, err := decodeLevel(raw)
			if err != nil {
				return out, fmt.Errorf("%w: selectedLevels[%s][%s]: %v", ErrSerialization, dk, sk, err)
			}
			if selected {
				out.levels[Key{dim, sub}] = lvl
			}
		}
	}
	return out, nil
}

// parseIndex accepts only the canonical decimal form, so "00" or "+0"
// cannot alias "0".
func parseIndex(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 || strconv.Itoa(n) != key {
		return 0, false
	}
	return n, true
}

func decodeLevel(raw json.RawMessage) (int, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false, nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, false, nil
		}
		lvl, err := strconv.Atoi(text)
		if err != nil {
			return 0, false, fmt.Errorf("level %q is not an integer", text)
		}
		return checkLevel(lvl)
	}

	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return 0, false, fmt.Errorf("level must be a number or a blank string")
	}
	lvl, err := strconv.Atoi(num.String())
	if err != nil {
		return 0, false, fmt.Errorf("level %s is not an integer", num.String())
	}
	return checkLevel(lvl)
}

func checkLevel(lvl int) (int, bool, error) {
	if lvl < 1 {
		return 0, false, fmt.Errorf("level %d is below 1", lvl)
	}
	return lvl, true, nil
}
