package demo

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vango-dev/imui/pkg/imui"
)

// Tab filters the todo list.
type Tab int

const (
	TabAll Tab = iota
	TabActive
	TabCompleted
)

var tabNames = [...]string{"All", "Active", "Completed"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "unknown"
	}
	return tabNames[t]
}

func (t Tab) shows(item Item) bool {
	switch t {
	case TabActive:
		return !item.Completed
	case TabCompleted:
		return item.Completed
	}
	return true
}

// Check button labels.
const (
	checkedLabel   = "[x]"
	uncheckedLabel = "[ ]"
)

// Todo is a to-do list. Item rows are keyed by the store's item IDs, so a
// row keeps its widgets when items before it are removed or hidden.
//
// Layout, by ID path:
//
//	1       panel
//	1/1     input row: 1/1/1 "Task:" label, 1/1/2 textbox, 1/1/3 "Add" button
//	1/2     tabs: 1/2/1 All, 1/2/2 Active, 1/2/3 Completed
//	1/3     item rows: 1/3/<item>/1 check, 1/3/<item>/2 edit, 1/3/<item>/3 label
//	1/4     "N items left" label
type Todo struct {
	store  TodoStore
	logger *slog.Logger

	items []Item
	tab   Tab
	input string
}

// NewTodo loads the items in store.
func NewTodo(store TodoStore, logger *slog.Logger) (*Todo, error) {
	items, err := store.Items()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load todo items: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Todo{store: store, logger: logger, items: items}, nil
}

// Items returns the current items.
func (t *Todo) Items() []Item {
	return t.items
}

// Tab returns the selected tab.
func (t *Todo) Tab() Tab {
	return t.tab
}

func (t *Todo) Title() string { return "To-do List" }

func (t *Todo) Render(s *imui.Session) {
	s.Panel(1, imui.FlagMediumSpacing|imui.FlagGray)

	// Input row.
	s.Panel(1, imui.FlagHorizontal|imui.FlagMediumSpacing|imui.FlagGray|imui.FlagHFill)
	s.Label(1, 0, "Task:")
	t.input = s.Textbox(2, imui.FlagHFill, t.input)
	if s.Button(3, 0, "Add") {
		t.add(s)
	}
	s.Pop()

	// Tabs.
	s.Panel(2, imui.FlagHorizontal|imui.FlagMediumSpacing|imui.FlagGray|imui.FlagHFill)
	for i, name := range tabNames {
		var flags imui.Flags
		if Tab(i) == t.tab {
			flags |= imui.FlagChecked
		}
		if s.Button(imui.ID(i+1), flags, name) && Tab(i) != t.tab {
			t.tab = Tab(i)
			s.Invalidate()
		}
	}
	s.Pop()

	// Items.
	s.Panel(3, imui.FlagWhite|imui.FlagMediumSpacing|imui.FlagHFill|imui.FlagVFill|imui.FlagScroll)
	for i := 0; i < len(t.items); i++ {
		item := t.items[i]
		if !t.tab.shows(item) {
			continue
		}

		s.Panel(imui.ID(item.ID), imui.FlagHorizontal|imui.FlagHFill|imui.FlagMediumSpacing)
		label := uncheckedLabel
		if item.Completed {
			label = checkedLabel
		}
		if s.Button(1, imui.FlagSmall, label) {
			t.toggle(s, i)
		}
		edited := s.Button(2, imui.FlagSmall, "edit")
		s.Label(3, imui.FlagHFill, item.Text)
		s.Pop()

		if edited && t.edit(s, i) {
			i--
		}
	}
	s.Pop()

	s.Label(4, 0, fmt.Sprintf("%d items left", t.active()))
	s.Pop()
}

// add stores the input as a new item and clears the textbox.
func (t *Todo) add(s *imui.Session) {
	text := strings.TrimSpace(t.input)
	if text == "" {
		return
	}
	item, err := t.store.Add(text)
	if err != nil {
		t.logger.Error("todo add failed", "error", err)
		return
	}
	t.items = append(t.items, item)
	t.input = ""
	if t.tab == TabCompleted {
		t.tab = TabAll
	}
	s.Invalidate()
}

func (t *Todo) toggle(s *imui.Session, i int) {
	item := t.items[i]
	item.Completed = !item.Completed
	if err := t.store.Put(item); err != nil {
		t.logger.Error("todo update failed", "id", item.ID, "error", err)
		return
	}
	t.items[i] = item
	s.Invalidate()
}

// edit moves an item back into the textbox and removes it from the list.
// It reports whether the item was removed.
func (t *Todo) edit(s *imui.Session, i int) bool {
	item := t.items[i]
	if err := t.store.Delete(item.ID); err != nil {
		t.logger.Error("todo delete failed", "id", item.ID, "error", err)
		return false
	}
	t.items = append(t.items[:i], t.items[i+1:]...)
	t.input = item.Text
	s.Invalidate()
	return true
}

func (t *Todo) active() int {
	n := 0
	for _, item := range t.items {
		if !item.Completed {
			n++
		}
	}
	return n
}

func (t *Todo) Close() error {
	return t.store.Close()
}
