package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/findable/internal/core/domain"
	"github.com/custodia-labs/findable/internal/core/ports/driven"
	"github.com/custodia-labs/findable/internal/core/ports/driving"
	"github.com/custodia-labs/findable/internal/logger"
)

// Ensure FrameService implements both sides: it is driven like a single
// document, so a FindService can run over a page with frames.
var (
	_ driving.FrameService = (*FrameService)(nil)
	_ driven.Document      = (*FrameService)(nil)
	_ driven.ImageSource   = (*FrameService)(nil)
)

// FrameService routes a global match index over several independently
// highlighted documents, such as a page and its frames. Units keep their
// own markers and cursors; only the global cursor lives here.
type FrameService struct {
	mu     sync.Mutex
	units  []driven.Document
	counts []int
	total  int
	cursor int
}

// NewFrameService coordinates units in the order given. The first unit is
// normally the top-level document.
func NewFrameService(units ...driven.Document) *FrameService {
	return &FrameService{
		units:  units,
		counts: make([]int, len(units)),
		cursor: domain.NoSelection,
	}
}

// Units returns the number of coordinated documents.
func (s *FrameService) Units() int {
	return len(s.units)
}

// Highlight runs the pass in every unit and selects the first match overall.
func (s *FrameService) Highlight(group domain.TermGroup) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = 0
	s.cursor = domain.NoSelection
	for i, u := range s.units {
		n, err := u.Highlight(group)
		if err != nil {
			s.clearLocked()
			return 0, fmt.Errorf("highlight unit %d: %w", i, err)
		}
		s.counts[i] = n
		s.total += n
	}
	logger.Debug("Frames: %d units, counts %v", len(s.units), s.counts)

	if s.total > 0 {
		s.selectLocked(0)
	}
	return s.total, nil
}

// Next moves to the next match across units, wrapping around.
func (s *FrameService) Next() domain.Position {
	return s.step(1)
}

// Previous moves to the previous match across units, wrapping around.
func (s *FrameService) Previous() domain.Position {
	return s.step(-1)
}

func (s *FrameService) step(delta int) domain.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == 0 {
		return domain.EmptyPosition()
	}
	s.selectLocked(((s.cursor+delta)%s.total + s.total) % s.total)
	return s.positionLocked()
}

// GoTo selects the match with the given global index, clamped.
func (s *FrameService) GoTo(index int) domain.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == 0 {
		return domain.EmptyPosition()
	}
	switch {
	case index < 0:
		index = 0
	case index >= s.total:
		index = s.total - 1
	}
	s.selectLocked(index)
	return s.positionLocked()
}

// Locate maps a global index to the owning unit and its local index.
func (s *FrameService) Locate(index int) (unit, local int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locateLocked(index)
}

func (s *FrameService) locateLocked(index int) (unit, local int, ok bool) {
	if index < 0 {
		return 0, 0, false
	}
	for i, n := range s.counts {
		if index < n {
			return i, index, true
		}
		index -= n
	}
	return 0, 0, false
}

// selectLocked makes the global index current in its unit and clears
// the current flag everywhere else.
func (s *FrameService) selectLocked(index int) {
	unit, local, ok := s.locateLocked(index)
	if !ok {
		return
	}
	for i, u := range s.units {
		if i != unit {
			u.Deselect()
		}
	}
	s.units[unit].GoTo(local)
	s.cursor = index
}

// Deselect clears the current flag in every unit.
func (s *FrameService) Deselect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.units {
		u.Deselect()
	}
}

// Clear removes every marker in every unit.
func (s *FrameService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *FrameService) clearLocked() {
	for i, u := range s.units {
		u.Clear()
		s.counts[i] = 0
	}
	s.total = 0
	s.cursor = domain.NoSelection
}

// Position returns the global navigation state.
func (s *FrameService) Position() domain.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *FrameService) positionLocked() domain.Position {
	if s.total == 0 {
		return domain.EmptyPosition()
	}
	return domain.Position{Current: s.cursor, Total: s.total}
}

// Images lists the images of every unit that has them, in unit order.
func (s *FrameService) Images() []domain.Image {
	var images []domain.Image
	for _, u := range s.units {
		if src, ok := u.(driven.ImageSource); ok {
			images = append(images, src.Images()...)
		}
	}
	return images
}

// Text joins the text of every unit, separated by blank lines.
func (s *FrameService) Text() string {
	parts := make([]string, 0, len(s.units))
	for _, u := range s.units {
		if t := strings.TrimSpace(u.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
