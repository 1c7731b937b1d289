package dialog_service

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
)

var ErrUnknownPreset = errors.New("not a preset tip amount")

// DefaultPresets preset tip amounts in the smallest WAL unit
var DefaultPresets = []uint64{50000, 100000, 500000}

// FormState copy of the tip form fields
type FormState struct {
	SearchQuery  string `json:"searchQuery"`
	CustomAmount string `json:"customAmount"`
	Preset       uint64 `json:"preset,omitempty"` // 0 when none is selected
	Error        string `json:"error,omitempty"`
}

// TipForm search query and amount fields of the tip dialog
type TipForm struct {
	mu      sync.Mutex
	presets []uint64
	state   FormState
}

// NewTipForm form with presets; nil selects DefaultPresets
func NewTipForm(presets []uint64) *TipForm {
	if len(presets) == 0 {
		presets = DefaultPresets
	}
	return &TipForm{presets: presets}
}

// Presets selectable amounts
func (f *TipForm) Presets() []uint64 {
	return append([]uint64(nil), f.presets...)
}

// SetSearchQuery stores the trimmed query
func (f *TipForm) SetSearchQuery(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.SearchQuery = strings.TrimSpace(q)
}

// SetCustomAmount stores the custom amount text and clears the preset
func (f *TipForm) SetCustomAmount(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.CustomAmount = text
	f.state.Preset = 0
}

// SelectPreset selects amount, or clears the selection with 0, and overwrites the custom text
func (f *TipForm) SelectPreset(amount uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Preset = amount
	if amount == 0 {
		f.state.CustomAmount = ""
		return
	}
	f.state.CustomAmount = strconv.FormatUint(amount, 10)
}

// IsPreset reports whether amount is one of the selectable presets
func (f *TipForm) IsPreset(amount uint64) bool {
	return slices.Contains(f.presets, amount)
}

// Fill sets query and amount in one step and returns the effective amount.
// A non-zero preset must be one of Presets; otherwise custom is used.
func (f *TipForm) Fill(query, custom string, preset uint64) (uint64, error) {
	if preset > 0 && !f.IsPreset(preset) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownPreset, preset)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.SearchQuery = strings.TrimSpace(query)
	f.state.Error = ""
	if preset > 0 {
		f.state.Preset = preset
		f.state.CustomAmount = strconv.FormatUint(preset, 10)
		return preset, nil
	}
	f.state.Preset = 0
	f.state.CustomAmount = custom
	return leadingUint(custom), nil
}

// SetError stores a message shown next to the form
func (f *TipForm) SetError(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Error = msg
}

// Amount effective tip amount: the preset, else the leading digits of the custom text, else 0
func (f *TipForm) Amount() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Preset > 0 {
		return f.state.Preset
	}
	return leadingUint(f.state.CustomAmount)
}

// State copy of the form fields
func (f *TipForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Reset clears every field
func (f *TipForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormState{}
}

func leadingUint(text string) uint64 {
	text = strings.TrimSpace(text)
	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseUint(text[:end], 10, 64)
	if err != nil {
		return 0
	}
	return v
}
