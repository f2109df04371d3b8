package session

import (
	"github.com/terrasight/terrasight/internal/region"
)

// UnknownRegion is reported whenever administrative-region detection fails.
// Detection failure never blocks an analysis run.
const UnknownRegion = "unknown"

// Session carries the state of one interactive analysis session: the current
// region of interest, whether an analysis has run, which module ran last and
// with which parameters, and the administrative region detected for the ROI.
// It is mutated only by user-initiated actions.
type Session struct {
	ROI            *region.ROI
	Executed       bool
	ActiveModule   string
	DetectedRegion string
	Params         any
}

func New() *Session {
	return &Session{DetectedRegion: UnknownRegion}
}

// SetROI replaces the current region of interest and invalidates everything
// derived from the previous one.
func (s *Session) SetROI(roi *region.ROI) {
	s.ROI = roi
	s.Executed = false
	s.DetectedRegion = UnknownRegion
	s.Params = nil
}

// MarkExecuted records a completed run of the named module.
func (s *Session) MarkExecuted(module string, params any) {
	s.Executed = true
	s.ActiveModule = module
	s.Params = params
}

// Reset restores the session to its initial state.
func (s *Session) Reset() {
	*s = Session{DetectedRegion: UnknownRegion}
}

// HasROI reports whether an analysis can run.
func (s *Session) HasROI() bool {
	return s.ROI != nil
}
