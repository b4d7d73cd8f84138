// Copyright 2026 The Tripdash Authors
// SPDX-License-Identifier: MIT

// Package chart renders the dashboard charts and owns their lifetimes.
package chart

import (
	"fmt"
	"log/slog"
	"sync"
)

// Handle is a live rendering resource.
type Handle interface {
	Close() error
}

// Slot holds at most one live Handle for a named chart position. Replacing
// the chart always releases the previous handle before the new one is
// built, so a slot never holds two resources and a failed build leaves it
// empty rather than stale.
type Slot struct {
	mu   sync.Mutex
	name string
	cur  Handle
}

// NewSlot returns an empty slot.
func NewSlot(name string) *Slot {
	return &Slot{name: name}
}

// Name returns the slot name.
func (s *Slot) Name() string { return s.name }

// Current returns the live handle, or nil.
func (s *Slot) Current() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Replace releases the current handle and installs the one returned by
// build. If build fails or panics the slot stays empty.
func (s *Slot) Replace(build func() (Handle, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()

	h, err := build()
	if err != nil {
		if h != nil {
			_ = h.Close()
		}
		return fmt.Errorf("chart %s: %w", s.name, err)
	}
	s.cur = h
	return nil
}

// Clear releases the current handle, leaving the slot empty.
func (s *Slot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseLocked()
}

// Close releases the current handle and reports its close error.
func (s *Slot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return nil
	}
	err := s.cur.Close()
	s.cur = nil
	return err
}

func (s *Slot) releaseLocked() {
	if s.cur == nil {
		return
	}
	if err := s.cur.Close(); err != nil {
		slog.Warn("releasing chart", "slot", s.name, "error", err)
	}
	s.cur = nil
}

// Render replaces the slot's chart with a freshly rendered image. dir is
// passed to NewImage.
func (s *Slot) Render(dir string, render func() ([]byte, error)) error {
	return s.Replace(func() (Handle, error) {
		png, err := render()
		if err != nil {
			return nil, err
		}
		img, err := NewImage(dir, s.name, png)
		if err != nil {
			return nil, err
		}
		return img, nil
	})
}
