package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

const (
	AudioKey    = "frycards_sound_prefs"
	TutorialKey = "frycards_tutorial_done"
)

type Audio struct {
	SFXVolume          float64 `json:"sfxVolume"`
	MusicVolume        float64 `json:"musicVolume"`
	IsMuted            bool    `json:"isMuted"`
	LowPerformanceMode bool    `json:"lowPerformanceMode"`
}

func DefaultAudio() Audio {
	return Audio{SFXVolume: 0.6, MusicVolume: 0.3}
}

// AudioPatch carries the fields to change; nil fields keep their value.
type AudioPatch struct {
	SFXVolume          *float64 `json:"sfxVolume,omitempty"`
	MusicVolume        *float64 `json:"musicVolume,omitempty"`
	IsMuted            *bool    `json:"isMuted,omitempty"`
	LowPerformanceMode *bool    `json:"lowPerformanceMode,omitempty"`
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}

// Apply returns a with the patch fields set. Volumes are clamped to [0,1].
func (p AudioPatch) Apply(a Audio) Audio {
	if p.SFXVolume != nil {
		a.SFXVolume = clampVolume(*p.SFXVolume)
	}
	if p.MusicVolume != nil {
		a.MusicVolume = clampVolume(*p.MusicVolume)
	}
	if p.IsMuted != nil {
		a.IsMuted = *p.IsMuted
	}
	if p.LowPerformanceMode != nil {
		a.LowPerformanceMode = *p.LowPerformanceMode
	}
	return a
}

// EffectiveSFX is the volume a sound effect of the given gain plays at.
func (a Audio) EffectiveSFX(gain float64) float64 {
	if a.IsMuted {
		return 0
	}
	return min(a.SFXVolume*gain, 1)
}

// LoadAudio returns the stored audio prefs. Missing fields take their
// defaults and a corrupt blob loads as defaults.
func (s *Store) LoadAudio(ctx context.Context) (Audio, error) {
	a := DefaultAudio()
	b, err := s.Get(ctx, AudioKey)
	if errors.Is(err, ErrNotFound) {
		return a, nil
	}
	if err != nil {
		return a, err
	}
	var p AudioPatch
	if err := json.Unmarshal(b, &p); err != nil {
		slog.Warn("discarding corrupt audio prefs", slog.String("error", err.Error()))
		return a, nil
	}
	return p.Apply(a), nil
}

// PatchAudio merges p into the stored prefs and returns the result.
func (s *Store) PatchAudio(ctx context.Context, p AudioPatch) (Audio, error) {
	cur, err := s.LoadAudio(ctx)
	if err != nil {
		return Audio{}, err
	}
	next := p.Apply(cur)
	if err := s.PutJSON(ctx, AudioKey, next); err != nil {
		return Audio{}, err
	}
	return next, nil
}

func (s *Store) TutorialDone(ctx context.Context) (bool, error) {
	var done bool
	err := s.GetJSON(ctx, TutorialKey, &done)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return done, nil
}

func (s *Store) SetTutorialDone(ctx context.Context, done bool) error {
	return s.PutJSON(ctx, TutorialKey, done)
}
