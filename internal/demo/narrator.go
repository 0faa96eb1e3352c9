package demo

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const separatorWidth = 80

// Narrator writes the human readable walkthrough. It is safe for concurrent
// use because subscription callbacks write from their own goroutine.
type Narrator struct {
	mu  sync.Mutex
	out io.Writer
}

// NewNarrator creates a narrator writing to out
func NewNarrator(out io.Writer) *Narrator {
	return &Narrator{out: out}
}

// Connecting announces the connection step
func (n *Narrator) Connecting() {
	n.lines("", "🔌  Connecting to Valkey...", "")
}

// Section prints a separator followed by a section title
func (n *Narrator) Section(title string) {
	n.lines(strings.Repeat("-", separatorWidth), "🌟 "+title, "")
}

// Step announces a command about to be sent
func (n *Narrator) Step(format string, args ...any) {
	n.lines("➡️  " + fmt.Sprintf(format, args...))
}

// Result reports something received from the server
func (n *Narrator) Result(format string, args ...any) {
	n.lines("⬅️  " + fmt.Sprintf(format, args...))
}

// Blank prints an empty line
func (n *Narrator) Blank() {
	n.lines("")
}

// Goodbye announces the disconnection of the named clients
func (n *Narrator) Goodbye(names ...string) {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = `"` + name + `"`
	}

	n.lines(strings.Repeat("-", separatorWidth), "👋 Disconnecting "+joinAnd(quoted)+" clients", "")
}

// Failure reports the error that stopped the walkthrough
func (n *Narrator) Failure(err error) {
	n.lines("", "🐞 An error occurred!", err.Error())
}

func (n *Narrator) lines(lines ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, l := range lines {
		_, _ = fmt.Fprintln(n.out, l)
	}
}

// joinAnd joins items as `a, b and c`
func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}

	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}
