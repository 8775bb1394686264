// Package platform models the runtime platform's built-in class namespace.
package platform

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// builtinPrefixes covers the packages the platform always provides.
var builtinPrefixes = []string{
	"java.",
	"javax.",
	"jdk.",
	"sun.",
	"com.sun.",
	"org.ietf.jgss.",
	"org.w3c.dom.",
	"org.xml.sax.",
}

// Catalog answers membership queries against the platform's built-in class
// set: package prefixes for the bootstrap namespace, plus optional exact
// class names loaded from a class-list file.
type Catalog struct {
	prefixes []string
	exact    map[string]bool
}

// NewCatalog returns the default prefix-only catalog.
func NewCatalog() *Catalog {
	return &Catalog{prefixes: builtinPrefixes}
}

// NewCatalogFromFile extends the default catalog with exact class names read
// from a file, one dotted name per line, '#' comments and blanks ignored.
func NewCatalogFromFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening platform class list: %w", err)
	}
	defer f.Close()

	c := NewCatalog()
	c.exact = make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c.exact[line] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading platform class list: %w", err)
	}
	return c, nil
}

// Contains reports whether the dotted class name belongs to the platform.
func (c *Catalog) Contains(class string) bool {
	if c.exact[class] {
		return true
	}
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}
	return false
}
