package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func TestStore_PutGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "k", []byte(`{"a":1}`)))
	require.NoError(t, s.Put(ctx, "k", []byte(`{"a":2}`)))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_Memory(t *testing.T) {
	t.Parallel()

	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.PutJSON(context.Background(), "x", []int{1, 2}))

	var out []int
	require.NoError(t, s.GetJSON(context.Background(), "x", &out))
	assert.Equal(t, []int{1, 2}, out)

	_, err = Open(" ")
	assert.Error(t, err)
}

func TestAudio_DefaultsAndPatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	a, err := s.LoadAudio(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultAudio(), a)

	a, err = s.PatchAudio(ctx, AudioPatch{MusicVolume: f(0.8)})
	require.NoError(t, err)
	assert.Equal(t, Audio{SFXVolume: 0.6, MusicVolume: 0.8}, a)

	a, err = s.PatchAudio(ctx, AudioPatch{IsMuted: b(true), SFXVolume: f(3)})
	require.NoError(t, err)
	assert.Equal(t, Audio{SFXVolume: 1, MusicVolume: 0.8, IsMuted: true}, a)

	again, err := s.LoadAudio(ctx)
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestAudio_PartialBlobKeepsDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Put(ctx, AudioKey, []byte(`{"lowPerformanceMode":true}`)))
	a, err := s.LoadAudio(ctx)
	require.NoError(t, err)
	assert.Equal(t, Audio{SFXVolume: 0.6, MusicVolume: 0.3, LowPerformanceMode: true}, a)
}

func TestAudio_CorruptBlob(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Put(ctx, AudioKey, []byte(`{not json`)))
	a, err := s.LoadAudio(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultAudio(), a)
}

func TestAudio_EffectiveSFX(t *testing.T) {
	t.Parallel()

	a := DefaultAudio()
	assert.InDelta(t, 0.3, a.EffectiveSFX(0.5), 1e-9)
	assert.Equal(t, 1.0, Audio{SFXVolume: 0.9}.EffectiveSFX(2))
	assert.Zero(t, Audio{SFXVolume: 0.9, IsMuted: true}.EffectiveSFX(1))
}

func TestTutorial(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t)

	done, err := s.TutorialDone(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, s.SetTutorialDone(ctx, true))
	done, err = s.TutorialDone(ctx)
	require.NoError(t, err)
	assert.True(t, done)
}
