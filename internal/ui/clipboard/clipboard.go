// Package clipboard copies text to the system clipboard.
package clipboard

import "github.com/atotto/clipboard"

// Clipboard defines the interface for clipboard operations.
type Clipboard interface {
	Copy(text string) error
}

// System implements Clipboard using the system clipboard.
type System struct{}

// Copy copies text to the system clipboard.
func (System) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Mock records copied text for tests.
type Mock struct {
	Copied []string
	Err    error
}

// Copy records text, or returns Err when set.
func (m *Mock) Copy(text string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Copied = append(m.Copied, text)
	return nil
}
