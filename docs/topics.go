// Package docs embeds the user documentation of hsw, one markdown file per
// topic, and readme.md as the index.
package docs

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// Index is the topic listing the others.
const Index = "readme"

// All stands for every topic but the index.
const All = "*"

// Topic returns the markdown content of a topic.
func Topic(name string) (string, error) {
	content, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Topics returns the content of the given topics one after the other, All
// expands to every topic.
func Topics(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		expanded := []string{name}
		if name == All {
			var err error
			if expanded, err = Names(); err != nil {
				return "", err
			}
		}
		for _, name := range expanded {
			content, err := Topic(name)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// Names returns the topics in alphabetical order, without the index.
func Names() ([]string, error) {
	matches, err := fs.Glob(files, "*.md")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if name := strings.TrimSuffix(path.Base(m), ".md"); name != Index {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Title returns the first heading of a topic, or its name when it has none.
func Title(name string) (string, error) {
	content, err := Topic(name)
	if err != nil {
		return "", err
	}
	s := bufio.NewScanner(strings.NewReader(content))
	for s.Scan() {
		if title, ok := strings.CutPrefix(s.Text(), "# "); ok {
			return strings.TrimSpace(title), nil
		}
	}
	return name, nil
}
