package live

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kbukum/subtitler/errors"
	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/media"
	"github.com/kbukum/subtitler/observability"
	"github.com/kbukum/subtitler/script"
	"github.com/kbukum/subtitler/transcript"
	"github.com/kbukum/subtitler/transcription"
)

// Conn is the transport of one session. *websocket.Conn implements it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v any) error
	Close() error
}

// Acquirer turns a frame into a wav file; *media.Acquirer implements it.
type Acquirer interface {
	Acquire(ctx context.Context, src media.Source) (string, error)
}

// Phase is the lifecycle position of a session.
type Phase int

const (
	AwaitingInit Phase = iota
	Streaming
	Closed
)

func (p Phase) String() string {
	switch p {
	case AwaitingInit:
		return "awaiting_init"
	case Streaming:
		return "streaming"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// State is owned by the session goroutine. It holds no transcript
// history; every frame is transcribed on its own.
type State struct {
	ConnectionID string
	Language     string
	Phase        Phase
}

// InitMessage is the first client message.
type InitMessage struct {
	Language string `json:"language"`
}

// TextMessage carries the text of one frame. Text may be empty when the
// frame held no speech.
type TextMessage struct {
	Text string `json:"text"`
}

// ErrorMessage reports a failure. After init it does not end the session.
type ErrorMessage struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Service creates sessions over shared, read-only dependencies.
type Service struct {
	acquirer   Acquirer
	provider   transcription.Provider
	normalizer *script.Normalizer
	cfg        Config
	metrics    *observability.Metrics
	log        *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records per-frame operations on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a Service.
func NewService(acq Acquirer, p transcription.Provider, n *script.Normalizer, cfg Config, opts ...Option) *Service {
	cfg.ApplyDefaults()
	s := &Service{
		acquirer:   acq,
		provider:   p,
		normalizer: n,
		cfg:        cfg,
		log:        logger.WithComponent("live"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve runs one session until the client disconnects, the transport
// fails, or ctx is done. It always closes conn and returns the final
// state.
func (s *Service) Serve(ctx context.Context, conn Conn) State {
	sess := &session{
		svc:   s,
		conn:  conn,
		state: State{ConnectionID: uuid.NewString(), Phase: AwaitingInit},
	}
	sess.log = s.log.WithFields(logger.Fields(logger.FieldSessionID, sess.state.ConnectionID))

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	sess.run(ctx)
	_ = conn.Close()
	sess.state.Phase = Closed
	return sess.state
}

type session struct {
	svc   *Service
	conn  Conn
	state State
	log   *logger.Logger
}

func (s *session) run(ctx context.Context) {
	if !s.init() {
		return
	}
	s.log.Info("live session started", logger.Fields(logger.FieldLanguage, s.state.Language))
	frames := 0
	defer func() {
		s.log.Info("live session closed", logger.Fields("frames", frames))
	}()

	for ctx.Err() == nil {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.log.Warn("live connection closed unexpectedly", logger.ErrorFields("read", err))
			}
			return
		}
		if kind != websocket.BinaryMessage {
			s.log.Debug("ignoring non-binary message after init")
			continue
		}
		if len(data) < s.svc.cfg.MinFrameBytes {
			continue
		}

		frames++
		text, err := s.frame(ctx, data)
		if ctx.Err() != nil {
			return
		}
		var msg any = TextMessage{Text: text}
		if err != nil {
			msg = errorMessage(err)
		}
		if err := s.conn.WriteJSON(msg); err != nil {
			s.log.Debug("live write failed", logger.ErrorFields("write", err))
			return
		}
	}
}

// init reads the init message. A malformed one is answered with an
// INVALID_INPUT error and ends the session.
func (s *session) init() bool {
	kind, data, err := s.conn.ReadMessage()
	if err != nil {
		return false
	}
	var msg InitMessage
	if kind != websocket.TextMessage || json.Unmarshal(data, &msg) != nil {
		_ = s.conn.WriteJSON(errorMessage(errors.InvalidInput("init", "first message must be a JSON object like {\"language\": \"yue\"}")))
		return false
	}
	s.state.Language = strings.TrimSpace(msg.Language)
	if s.state.Language == "" {
		s.state.Language = s.svc.cfg.DefaultLanguage
	}
	s.state.Phase = Streaming
	return true
}

// frame transcribes one audio frame. The transcoded wav is removed
// however the call ends.
func (s *session) frame(ctx context.Context, data []byte) (text string, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanLiveFrame)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrSessionID, s.state.ConnectionID)
	observability.SetSpanAttribute(ctx, observability.AttrLanguage, s.state.Language)

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
			observability.SetSpanError(ctx, err)
			s.svc.metrics.RecordError(ctx, string(errors.From(err).Code), "live")
			s.log.WithContext(ctx).Warn("live frame failed", logger.ErrorFields("frame", err))
		}
		s.svc.metrics.RecordOperation(ctx, "live", "frame", status, time.Since(start))
	}()

	if s.svc.cfg.FrameTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.svc.cfg.FrameTimeout)
		defer cancel()
	}

	wav, err := s.svc.acquirer.Acquire(ctx, media.Source{Kind: media.SourceFrame, Data: data, Ext: s.svc.cfg.FrameExt})
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(wav) }()

	resp, err := s.svc.provider.Transcribe(ctx, transcription.Request{
		AudioPath: wav,
		Language:  s.state.Language,
	})
	if err != nil {
		return "", err
	}
	text = transcript.StripMarkers(resp.Text)
	if text != "" && s.svc.normalizer != nil {
		text = s.svc.normalizer.Normalize(text, s.state.Language)
	}
	return text, nil
}

func errorMessage(err error) ErrorMessage {
	appErr := errors.From(err)
	return ErrorMessage{Error: appErr.Message, Code: string(appErr.Code)}
}
