package domain

import (
	"context"
	"sync"
	"time"
)

type Span struct {
	Name    string
	startTs time.Time
	Elapsed *int64
	profile *Profile
}

func (s *Span) End() {
	s.profile.mu.Lock()
	defer s.profile.mu.Unlock()
	if s.Elapsed == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.Elapsed = &t
	}
}

const ContextProfileKey = "performanceProfile"

// Profile is simply a list of spans. Safe for concurrent use so battery
// tests can record their own timings.
type Profile struct {
	mu      sync.Mutex
	Spans   []*Span
	startTs time.Time
	TotalMs *int64
}

func NewProfile() (newProfile *Profile, endNewProfile func()) {
	newProfile = &Profile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}
	return newProfile, newProfile.End
}

func (p *Profile) End() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.TotalMs == nil {
		t := time.Since(p.startTs).Milliseconds()
		p.TotalMs = &t
	}
}

// StartSpan records a new span and returns its end func
func (p *Profile) StartSpan(name string) (*Span, func()) {
	s := &Span{
		Name:    name,
		startTs: time.Now(),
		profile: p,
	}
	p.mu.Lock()
	p.Spans = append(p.Spans, s)
	p.mu.Unlock()
	return s, s.End
}

// Snapshot returns ended spans by name in start order
func (p *Profile) Snapshot() []Span {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Span, 0, len(p.Spans))
	for _, s := range p.Spans {
		if s.Elapsed != nil {
			out = append(out, Span{Name: s.Name, startTs: s.startTs, Elapsed: s.Elapsed})
		}
	}
	return out
}

// GetProfile returns the profile stored on ctx, or a fresh one
func GetProfile(ctx context.Context) *Profile {
	if profile, ok := ctx.Value(ContextProfileKey).(*Profile); ok {
		return profile
	}
	profile, _ := NewProfile()
	return profile
}
