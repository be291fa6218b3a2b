// Package clipboard adapts the host clipboard to the controller's
// write-text capability.
package clipboard

import "github.com/atotto/clipboard"

// System writes through the operating system clipboard.
type System struct{}

// WriteText copies text to the clipboard.
func (System) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
