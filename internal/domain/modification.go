package domain

import (
	"strings"
	"time"
)

// EditCommand enumerates live-edit actions recorded against a job.
type EditCommand string

const (
	EditSetText  EditCommand = "setText"
	EditSetHTML  EditCommand = "setHTML"
	EditSetImage EditCommand = "setImage"
	EditSetStyle EditCommand = "setStyle"
)

// DefaultEditPage is recorded when the editor does not name a page.
const DefaultEditPage = "current"

// ParseEditCommand accepts both the editor's camelCase names and the
// kebab-case spelling (set-text, set-html, ...).
func ParseEditCommand(raw string) (EditCommand, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "-", ""))
	switch key {
	case "settext":
		return EditSetText, true
	case "sethtml":
		return EditSetHTML, true
	case "setimage":
		return EditSetImage, true
	case "setstyle":
		return EditSetStyle, true
	default:
		return "", false
	}
}

// EditModification is an append-only record of one editor action.
type EditModification struct {
	ID        string      `json:"id"`
	Command   EditCommand `json:"command"`
	Selector  string      `json:"selector"`
	Value     string      `json:"value"`
	Page      string      `json:"page"`
	Timestamp time.Time   `json:"timestamp"`
}
