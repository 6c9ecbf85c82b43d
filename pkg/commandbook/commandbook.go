// Package commandbook loads the external command vocabulary that point-node
// commands are resolved against. The book is an opaque lookup table owned by
// the bot; this package only answers "is this a known command name".
package commandbook

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/salem909/auton-maple/pkg/models"
)

// bookFile is the on-disk YAML shape:
//
//	commands:
//	  attack:
//	    params: [skill, direction]
//	  feed_pet: {}
type bookFile struct {
	Commands map[string]commandEntry `yaml:"commands"`
}

type commandEntry struct {
	Params      []string `yaml:"params"`
	Description string   `yaml:"description"`
}

// Book is the loaded command vocabulary. Lookups are case-insensitive, since
// the CSV parser lower-cases command names.
type Book struct {
	commands map[string]commandEntry
}

// Load reads a command book from a YAML file.
func Load(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read command book %s: %w", path, err)
	}

	var file bookFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse command book %s: %w", path, err)
	}

	book := &Book{commands: make(map[string]commandEntry, len(file.Commands))}
	for name, entry := range file.Commands {
		book.commands[strings.ToLower(name)] = entry
	}

	return book, nil
}

// Has reports whether the command name exists in the book.
func (b *Book) Has(name string) bool {
	_, ok := b.commands[strings.ToLower(name)]

	return ok
}

// Params returns the declared parameter names for a command, or nil when the
// command is unknown or declares none.
func (b *Book) Params(name string) []string {
	return b.commands[strings.ToLower(name)].Params
}

// Names returns all command names, sorted.
func (b *Book) Names() []string {
	names := make([]string, 0, len(b.commands))
	for name := range b.commands {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Check reports every command in the routine whose name is not in the book,
// one message per occurrence. An empty result means the routine only uses
// known commands.
func (b *Book) Check(routine *models.Routine) []string {
	var issues []string

	for _, node := range routine.Nodes {
		point, ok := node.(*models.PointNode)
		if !ok {
			continue
		}

		for _, cmd := range point.Commands {
			if !b.Has(cmd.Type) {
				issues = append(issues, fmt.Sprintf("node %s: unknown command %q", point.ID, cmd.Type))
			}
		}
	}

	return issues
}
