package main

import (
	"context"
	"testing"

	"github.com/kbukum/subtitler/transcription"
)

type namedBackend struct{ name string }

func (b *namedBackend) Name() string                     { return b.name }
func (b *namedBackend) IsAvailable(context.Context) bool { return true }
func (b *namedBackend) Transcribe(context.Context, transcription.Request) (*transcription.Response, error) {
	return &transcription.Response{}, nil
}

func TestNewProviders(t *testing.T) {
	for _, name := range []string{"services-a", "services-b"} {
		transcription.RegisterFactory(name, func(map[string]any) (transcription.Provider, error) {
			return &namedBackend{name: name}, nil
		})
	}

	tests := []struct {
		name       string
		subtitles  string
		minutes    string
		wantShared bool
	}{
		{"same backend", "services-a", "services-a", true},
		{"different backends", "services-a", "services-b", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := transcription.Config{Provider: tc.subtitles, MinutesProvider: tc.minutes}
			subtitles, minutes, err := newProviders(cfg, nil)
			if err != nil {
				t.Fatalf("newProviders: %v", err)
			}
			if shared := subtitles == minutes; shared != tc.wantShared {
				t.Errorf("shared = %v, want %v", shared, tc.wantShared)
			}
			if subtitles.Name() != tc.subtitles || minutes.Name() != tc.minutes {
				t.Errorf("names = %q, %q", subtitles.Name(), minutes.Name())
			}
		})
	}

	if _, _, err := newProviders(transcription.Config{Provider: "services-a", MinutesProvider: "missing"}, nil); err == nil {
		t.Error("expected an unknown minutes backend to fail")
	}
}
