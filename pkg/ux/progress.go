// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress renders benchmark progress. Its Update method matches the
// benchmark progress callback signature.
//
// With live progress enabled it redraws one line in place; otherwise each
// message is printed on its own line, and repeated identical lines are
// suppressed.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	width int
	live  bool
	last  string
	drawn bool
}

// NewProgress creates a progress renderer writing to w. A nil w uses the
// package output.
func NewProgress(w io.Writer) *Progress {
	if w == nil {
		w, _ = writers()
	}
	return &Progress{w: w, width: 30, live: ShouldShowProgress()}
}

// Update reports pct complete with a message.
func (p *Progress) Update(pct int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.live {
		fmt.Fprintf(p.w, "\r\033[K%s %s", ProgressBar(pct, p.width), message)
		p.drawn = true
		return
	}
	line := fmt.Sprintf("PROGRESS: %3d%% %s", max(0, min(100, pct)), message)
	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprintln(p.w, line)
}

// Done ends a live line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.live && p.drawn {
		fmt.Fprint(p.w, "\n")
		p.drawn = false
	}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is an animated indicator for open-ended waits, such as watching
// a dataset file for changes.
type Spinner struct {
	message   string
	w         io.Writer
	stop      chan struct{}
	done      chan struct{}
	mu        sync.Mutex
	isRunning bool
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	w, _ := writers()
	return &Spinner{
		message: message,
		w:       w,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start begins the animation. Without live progress it prints the
// message once.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	if !ShouldShowProgress() {
		fmt.Fprintf(s.w, "PROGRESS: %s\n", s.message)
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i = (i + 1) % len(spinnerFrames) {
			select {
			case <-s.stop:
				fmt.Fprint(s.w, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				msg := s.message
				s.mu.Unlock()
				fmt.Fprintf(s.w, "\r%s %s", Styles.Highlight.Render(spinnerFrames[i]), msg)
			}
		}
	}()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stop)
	<-s.done
}

// UpdateMessage changes the spinner message while running
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}
