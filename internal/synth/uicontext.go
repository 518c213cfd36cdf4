package synth

import (
	"fmt"
	"sort"
	"strings"
)

// UIContext is the recognized subset of the client's UI-state document. Every
// member is optional; unknown top-level keys are ignored at parse time.
type UIContext struct {
	Route        string
	ActivePanel  string
	Sidebar      *SidebarState
	Modals       map[string]bool
	Composer     *ComposerState
	FeatureFlags map[string]bool
	Theme        string
	SynthMode    string
	Notes        []string
}

type SidebarState struct {
	Collapsed bool
}

type ComposerState struct {
	Attachments     int
	OptionsMenuOpen bool
	Focused         bool
}

// ParseUIContext extracts the recognized fields from an arbitrary client
// document. Fields that are absent or of the wrong shape are skipped, never
// rejected.
func ParseUIContext(raw map[string]any) *UIContext {
	if raw == nil {
		return nil
	}
	ui := &UIContext{}

	ui.Route, _ = raw["route"].(string)
	ui.ActivePanel, _ = raw["activePanel"].(string)

	if sidebar, ok := raw["sidebar"].(map[string]any); ok {
		if collapsed, ok := sidebar["collapsed"].(bool); ok {
			ui.Sidebar = &SidebarState{Collapsed: collapsed}
		}
	}

	if modals, ok := raw["modals"].(map[string]any); ok {
		ui.Modals = boolMap(modals)
	}

	if composer, ok := raw["composer"].(map[string]any); ok {
		state := &ComposerState{}
		if n, ok := asInt(composer["attachments"]); ok {
			state.Attachments = n
		}
		state.OptionsMenuOpen, _ = composer["optionsMenuOpen"].(bool)
		state.Focused, _ = composer["focused"].(bool)
		ui.Composer = state
	}

	if flags, ok := raw["featureFlags"].(map[string]any); ok {
		ui.FeatureFlags = boolMap(flags)
	}

	ui.Theme, _ = raw["theme"].(string)
	ui.SynthMode, _ = raw["synthMode"].(string)

	if notes, ok := raw["notes"].([]any); ok {
		for _, n := range notes {
			if s, ok := n.(string); ok {
				ui.Notes = append(ui.Notes, s)
			}
		}
	}

	return ui
}

// Render produces the deterministic bullet list describing the UI state, in
// fixed field order. Returns "" when nothing renders.
func (ui *UIContext) Render() string {
	if ui == nil {
		return ""
	}
	var lines []string

	if ui.Route != "" {
		lines = append(lines, fmt.Sprintf("- Route: %s", ui.Route))
	}
	if ui.ActivePanel != "" {
		lines = append(lines, fmt.Sprintf("- Active panel: %s", ui.ActivePanel))
	}
	if ui.Sidebar != nil && ui.Sidebar.Collapsed {
		lines = append(lines, "- Sidebar is collapsed")
	}
	for _, name := range sortedKeys(ui.Modals) {
		if ui.Modals[name] {
			lines = append(lines, fmt.Sprintf("- Modal open: %s", name))
		}
	}
	if ui.Composer != nil {
		if ui.Composer.Attachments > 0 {
			lines = append(lines, fmt.Sprintf("- Composer has %d attachment(s)", ui.Composer.Attachments))
		}
		if ui.Composer.OptionsMenuOpen {
			lines = append(lines, "- Composer options menu is open")
		}
		if ui.Composer.Focused {
			lines = append(lines, "- Composer is focused")
		}
	}
	for _, name := range sortedKeys(ui.FeatureFlags) {
		state := "disabled"
		if ui.FeatureFlags[name] {
			state = "enabled"
		}
		lines = append(lines, fmt.Sprintf("- Feature %q is %s", name, state))
	}
	if ui.Theme != "" {
		lines = append(lines, fmt.Sprintf("- Theme: %s", ui.Theme))
	}
	if ui.SynthMode != "" {
		lines = append(lines, fmt.Sprintf("- Synth mode: %s", ui.SynthMode))
	}
	for _, note := range ui.Notes {
		trimmed := strings.TrimSpace(note)
		if trimmed == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- Note: %s", trimmed))
	}

	return strings.Join(lines, "\n")
}

func boolMap(raw map[string]any) map[string]bool {
	out := make(map[string]bool, len(raw))
	for k, v := range raw {
		if b, ok := v.(bool); ok {
			out[k] = b
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
