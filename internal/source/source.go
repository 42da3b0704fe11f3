package source

import "fmt"

// Locator returns the source of the template id
type Locator interface {
	Source(id string) (string, bool, error)
}

// Map is an in-memory Locator
type Map map[string]string

// Source implements Locator.
func (m Map) Source(id string) (string, bool, error) {
	src, ok := m[id]
	return src, ok, nil
}

// Chain asks each Locator in turn. The first one with a source wins.
type Chain []Locator

// Source implements Locator.
func (c Chain) Source(id string) (string, bool, error) {
	for _, l := range c {
		src, ok, err := l.Source(id)
		if err != nil {
			return "", false, fmt.Errorf("failed to locate template %s: %w", id, err)
		}
		if ok {
			return src, true, nil
		}
	}
	return "", false, nil
}
