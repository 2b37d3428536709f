package domain

import (
	"context"
	"encoding/json"
	"time"
)

const ContextProfileKey = "performanceProfile"

// Profile times the stages of one optimization call. It is carried on the
// request ctx and is what ultimately populates optimization_time_ms.
// Not thread safe - one profile per request.
type Profile struct {
	Spans   []*Span
	startTs time.Time
	TotalMs *int64
}

type Span struct {
	Name    string    `json:"name"`
	startTs time.Time `json:"-"`

	Elapsed *int64 `json:"elapsed"`
}

func NewProfile() (newProfile *Profile, endNewProfile func()) {
	newProfile = &Profile{
		Spans:   []*Span{},
		startTs: time.Now(),
	}

	return newProfile, newProfile.End
}

// GetProfile returns the ctx-carried profile, or a detached one when the
// caller never attached any, so callees can always record spans.
func GetProfile(ctx context.Context) *Profile {
	if profile, ok := ctx.Value(ContextProfileKey).(*Profile); ok {
		return profile
	}
	profile, _ := NewProfile()
	return profile
}

func NewCtxWithProfile(ctx context.Context, profile *Profile) context.Context {
	return context.WithValue(ctx, ContextProfileKey, profile)
}

func (p *Profile) End() {
	t := time.Since(p.startTs).Milliseconds()
	if p.TotalMs == nil {
		p.TotalMs = &t
	}
}

// ElapsedMs reports the running total without ending the profile.
func (p *Profile) ElapsedMs() int64 {
	if p.TotalMs != nil {
		return *p.TotalMs
	}
	return time.Since(p.startTs).Milliseconds()
}

func (s *Span) End() {
	if s.Elapsed == nil {
		t := time.Since(s.startTs).Milliseconds()
		s.Elapsed = &t
	}
}

func NewSpan(name string) (*Span, func()) {
	newSpan := &Span{
		Name:    name,
		startTs: time.Now(),
	}
	return newSpan, newSpan.End
}

// StartNewSpan ends the last span and begins a new one
// not thread safe
func (p *Profile) StartNewSpan(name string) (newSpan *Span, endSpan func()) {
	newSpan, endSpan = NewSpan(name)
	if len(p.Spans) > 0 {
		p.Spans[len(p.Spans)-1].End()
	}
	p.Spans = append(p.Spans, newSpan)
	return newSpan, endSpan
}

func (p *Profile) ToJsonBytes() ([]byte, error) {
	bytes, err := json.Marshal(p.Spans)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
