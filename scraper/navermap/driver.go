package navermap

import "github.com/g33150641-hub/matziprank/utils"

// Driver is the narrow browser surface the walker and extractors depend on.
// The map portal has no API contract, so everything above this interface is
// selector and text based; tests implement Driver over fixed HTML snapshots
// instead of a live session.
//
// Frame context is sticky: after SwitchFrame succeeds, every lookup runs
// inside that frame until TopFrame or the next SwitchFrame. Callers are
// responsible for restoring the results frame after each item.
type Driver interface {
	// Navigate loads a URL in the top-level document.
	Navigate(url string) error

	// SwitchFrame enters the named iframe, reporting whether its document
	// is present and rendered.
	SwitchFrame(name string) bool

	// TopFrame returns lookup context to the top-level document.
	TopFrame()

	// Count reports how many elements currently match the selector.
	Count(sel string) int

	// Text returns the visible text of the first match; ok is false when no
	// match exists or its text is empty.
	Text(sel string) (text string, ok bool)

	// TextAll returns the visible text of up to limit matches.
	TextAll(sel string, limit int) []string

	// Click simulates a click on the first match.
	Click(sel string) bool

	// ClickText clicks the first selector match whose visible text equals
	// the given string.
	ClickText(sel, text string) bool

	// TypeKeys enters text into the first match one key at a time, pausing
	// a random duration from the range between keys.
	TypeKeys(sel, text string, delay utils.DelayRange) bool

	// PressEnter sends the Enter key to the first match.
	PressEnter(sel string) bool

	// ScrollBottom scrolls the matched container (or the frame itself) to
	// its bottom, triggering lazy rendering.
	ScrollBottom(sel string)

	// PageSource returns the current frame's full markup.
	PageSource() string

	// BodyText returns the current frame's visible body text.
	BodyText() string

	// Close tears the session down. Safe to call more than once.
	Close()
}
