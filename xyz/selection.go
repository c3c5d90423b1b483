// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"slices"
	"sync"
)

// Selection is the ordered set of selected nodes.
type Selection struct {
	mu    sync.RWMutex
	nodes []Node

	handlersMu sync.Mutex
	handlers   handlerList
}

// Add adds the node to the selection. It does nothing if the node is
// nil, already selected, or disabled.
func (s *Selection) Add(n Node) {
	if n == nil || !n.AsNodeBase().IsEnabled() {
		return
	}
	s.mu.Lock()
	if slices.Contains(s.nodes, n) {
		s.mu.Unlock()
		return
	}
	s.nodes = append(s.nodes, n)
	s.mu.Unlock()
	s.changed(n)
}

// Remove removes the node from the selection.
func (s *Selection) Remove(n Node) {
	s.mu.Lock()
	idx := slices.Index(s.nodes, n)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.nodes = slices.Delete(s.nodes, idx, idx+1)
	s.mu.Unlock()
	s.changed(n)
}

// Clear removes all nodes from the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	had := len(s.nodes) > 0
	s.nodes = nil
	s.mu.Unlock()
	if had {
		s.changed(nil)
	}
}

// Nodes returns the selected nodes in the order they were selected.
func (s *Selection) Nodes() []Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.nodes)
}

// Len returns the number of selected nodes.
func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// IsSelected returns whether the node is selected, or belongs to a
// selected group: a selected parent with the [IsGroup] capability.
func (s *Selection) IsSelected(n Node) bool {
	if n == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if slices.Contains(s.nodes, n) {
		return true
	}
	for p := n.AsNodeBase().parentBase(); p != nil; p = p.parentBase() {
		if slices.Contains(s.nodes, p.This) && p.HasDecoration(IsGroup) {
			return true
		}
	}
	return false
}

// OnChanged adds a function that is called after the selection changed.
// The event source is the added or removed node, or nil after Clear.
func (s *Selection) OnChanged(fn func(e Event)) HandlerID {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	return s.handlers.add(fn)
}

// Disconnect removes the handler with the given id.
func (s *Selection) Disconnect(id HandlerID) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers.remove(id)
}

func (s *Selection) changed(n Node) {
	s.handlersMu.Lock()
	fns := s.handlers.snapshot()
	s.handlersMu.Unlock()
	for _, fn := range fns {
		fn(Event{Kind: SelectionChanged, Source: n})
	}
}
