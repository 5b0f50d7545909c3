package rpc

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/pivx-labs/pivxd/errors"
)

// CommandFunc is the handler signature for every RPC command. Params is the
// raw JSON params value from the request (array or object); each handler
// decodes and validates its own parameters. When helpRequested is true the
// handler must return its one-line usage text as a string instead of
// executing, so the handler stays the single source of truth for its own
// documentation.
type CommandFunc func(ctx context.Context, params json.RawMessage, helpRequested bool) (interface{}, error)

// Command describes one registered RPC command. A descriptor is immutable
// once registered.
type Command struct {
	// Category groups commands in help output, e.g. "control" or "wallet".
	Category string

	// Name is the unique dispatch key. Dispatch is case-sensitive.
	Name string

	// Handler executes the command.
	Handler CommandFunc

	// SafeModeOK marks a command that may run while the node is in safe
	// mode. Commands without it are refused with a safe mode error.
	SafeModeOK bool
}

// commandTable holds the name to descriptor mapping. Registration is only
// allowed until the table is frozen at server start. After the freeze the
// table is effectively read only and safe for concurrent lookups.
type commandTable struct {
	mu         sync.RWMutex
	commands   map[string]*Command
	categories []string
	frozen     bool
}

func newCommandTable() *commandTable {
	return &commandTable{
		commands: make(map[string]*Command),
	}
}

// register adds a descriptor to the table. It fails without modifying the
// table when the table is already frozen or the name is already taken.
func (t *commandTable) register(cmd *Command) error {
	if cmd == nil || cmd.Name == "" || cmd.Handler == nil {
		return errors.NewRegistrationRejectedError("command must have a name and a handler")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		return errors.NewRegistrationRejectedError("command table is frozen, cannot register %s", cmd.Name)
	}

	if _, ok := t.commands[cmd.Name]; ok {
		return errors.NewRegistrationRejectedError("command %s is already registered", cmd.Name)
	}

	t.commands[cmd.Name] = cmd

	if !t.hasCategory(cmd.Category) {
		t.categories = append(t.categories, cmd.Category)
	}

	return nil
}

// hasCategory must be called with the lock held.
func (t *commandTable) hasCategory(category string) bool {
	for _, c := range t.categories {
		if c == category {
			return true
		}
	}

	return false
}

func (t *commandTable) lookup(name string) (*Command, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cmd, ok := t.commands[name]

	return cmd, ok
}

// freeze marks the table running. The transition is one way: every
// registration attempt afterwards fails.
func (t *commandTable) freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.frozen = true
}

func (t *commandTable) isFrozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.frozen
}

func (t *commandTable) size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.commands)
}

// byCategory returns the category names in first-registration order together
// with the commands of each category, sorted by name within the category.
func (t *commandTable) byCategory() ([]string, map[string][]*Command) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	categories := make([]string, len(t.categories))
	copy(categories, t.categories)

	grouped := make(map[string][]*Command, len(categories))
	for _, cmd := range t.commands {
		grouped[cmd.Category] = append(grouped[cmd.Category], cmd)
	}

	for _, cmds := range grouped {
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	}

	return categories, grouped
}
