// Package transcription defines the speech-to-text provider interface,
// its request and response types, and the registry backends install
// themselves into.
//
// # Backends
//
//   - transcription/sensevoice: local FunASR SenseVoice sidecar
//   - transcription/whisper: local faster-whisper sidecar
//   - transcription/openai: OpenAI audio transcriptions
//   - transcription/cloudflare: Cloudflare Workers AI whisper
//
// Backends register a factory from init, so a binary selects the set it
// ships with blank imports and picks one by name from config:
//
//	import _ "github.com/kbukum/subtitler/transcription/openai"
//
//	p, err := transcription.New(cfg, cfg.Provider, log)
//	resp, err := p.Transcribe(ctx, transcription.Request{AudioPath: path, Language: "yue", WantSegments: true})
package transcription
