// SPDX-License-Identifier: MIT
package server

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"harp/internal/config"
	"harp/internal/harmonica"
	"harp/internal/log"
	"harp/internal/notes"
	"harp/internal/pitch"
	"harp/pkg/cents"
)

// wsReadLimit caps a single frame. An 8192-sample float32 buffer is
// 32 KiB, so 1 MiB leaves generous headroom.
const wsReadLimit = 1 << 20

// controlMessage is a JSON text frame changing one or more session
// settings. Absent fields keep their current value.
type controlMessage struct {
	Key           *string  `json:"key"`
	Tune          *string  `json:"tune"`
	Algorithm     *string  `json:"algorithm"`
	ConcertPitch  *int     `json:"concertPitch"`
	MinConfidence *float64 `json:"minConfidence"`
}

// settingsMessage echoes the effective session settings after a control
// frame has applied, lenient fallbacks included.
type settingsMessage struct {
	Key           string  `json:"key"`
	Tune          string  `json:"tune"`
	Algorithm     string  `json:"algorithm"`
	ConcertPitch  int     `json:"concertPitch"`
	MinConfidence float64 `json:"minConfidence"`
}

// readingMessage answers a binary audio frame that carried a pitch.
type readingMessage struct {
	Note       string  `json:"note"`
	Cents      int     `json:"cents"`
	Pitch      float64 `json:"pitch"`
	Confidence float64 `json:"confidence"`
}

type errorMessage struct {
	Error string `json:"error"`
}

// session is the per-connection trainer state. Every connection gets
// its own detector, instrument and note table; the read loop is the
// only goroutine touching them.
type session struct {
	id   uuid.UUID
	conn *websocket.Conn

	sampleRate    int
	silenceRMS    float64
	minConfidence float64
	algorithm     pitch.Algorithm
	key           harmonica.Key
	tune          harmonica.Tune
	notes         *notes.Context
	harp          *harmonica.Harmonica
	detector      pitch.Detector
}

// checkOrigin mirrors the CORS origin list for WebSocket upgrades.
// Requests without an Origin header (non-browser clients, tests) pass.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// handleWebSocket upgrades the connection and runs its session until
// the client goes away. Binary frames carry little-endian float32 PCM
// at the configured sample rate and are answered with a pitch reading;
// text frames carry JSON control messages and are answered with the
// effective settings.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	sess := s.newSession(conn)
	log.Infof("server: session %s connected from %s", sess.id, r.RemoteAddr)
	sess.run()
	log.Infof("server: session %s closed", sess.id)
}

func (s *Server) newSession(conn *websocket.Conn) *session {
	sess := &session{
		id:         uuid.New(),
		conn:       conn,
		sampleRate: s.cfg.Audio.SampleRate,
		silenceRMS: s.cfg.Audio.SilenceRMS,
		algorithm:  s.cfg.PitchAlgorithm(),
		notes:      notes.NewContext(s.cfg.Harmonica.ConcertPitch),
	}
	sess.setInstrument(harmonica.ParseKey(s.cfg.Harmonica.Key), harmonica.ParseTune(s.cfg.Harmonica.Tune))
	return sess
}

// setInstrument swaps the harmonica and rebuilds the detector so its
// band tracks the instrument's note range.
func (sess *session) setInstrument(key harmonica.Key, tune harmonica.Tune) {
	sess.key, sess.tune = key, tune
	sess.harp = harmonica.New(key, tune, sess.notes.Table())
	minF, maxF := sess.harp.Range()
	sess.detector = pitch.New(sess.algorithm, pitch.Config{MinFrequency: minF, MaxFrequency: maxF})
}

func (sess *session) run() {
	for {
		messageType, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debugf("server: session %s read: %v", sess.id, err)
			}
			return
		}

		var reply any
		switch messageType {
		case websocket.BinaryMessage:
			reply = sess.analyze(data)
		case websocket.TextMessage:
			reply = sess.control(data)
		default:
			continue
		}
		if err := sess.conn.WriteJSON(reply); err != nil {
			log.Debugf("server: session %s write: %v", sess.id, err)
			return
		}
	}
}

// analyze runs the session detector over one PCM buffer and shapes the
// reply.
func (sess *session) analyze(data []byte) any {
	samples := decodePCM(data)
	if len(samples) == 0 {
		return errorMessage{Error: "empty audio buffer"}
	}
	if pitch.RMS(samples) < sess.silenceRMS {
		return errorMessage{Error: "no pitch detected"}
	}

	result := sess.detector.Detect(samples, sess.sampleRate)
	if !result.Detected() || result.Confidence < sess.minConfidence {
		return errorMessage{Error: "no pitch detected"}
	}

	table := sess.notes.Table()
	name, ok := table.NameOf(result.Pitch)
	if !ok {
		return errorMessage{Error: "no pitch detected"}
	}
	noteFreq, err := table.Frequency(name)
	if err != nil {
		return errorMessage{Error: "no pitch detected"}
	}

	log.Debugf("server: session %s pitch %.3f Hz note %s confidence %.2f",
		sess.id, result.Pitch, name, result.Confidence)
	return readingMessage{
		Note:       name,
		Cents:      int(math.Round(cents.Diff(result.Pitch, noteFreq))),
		Pitch:      cents.Round(result.Pitch),
		Confidence: result.Confidence,
	}
}

// control applies a settings frame. Key and tune parse leniently the
// way the instrument model does, so the echoed settings tell the client
// what actually applied; a bad algorithm, pitch or confidence rejects
// the whole frame.
func (sess *session) control(data []byte) any {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorMessage{Error: "malformed control message"}
	}

	algorithm := sess.algorithm
	if msg.Algorithm != nil {
		parsed, err := pitch.ParseAlgorithm(*msg.Algorithm)
		if err != nil {
			return errorMessage{Error: err.Error()}
		}
		algorithm = parsed
	}
	if msg.ConcertPitch != nil {
		if hz := *msg.ConcertPitch; hz < config.MinConcertPitch || hz > config.MaxConcertPitch {
			return errorMessage{Error: "concert pitch outside supported range"}
		}
	}
	if msg.MinConfidence != nil {
		if c := *msg.MinConfidence; c < 0 || c > 1 {
			return errorMessage{Error: "minConfidence must be between 0 and 1"}
		}
	}

	sess.algorithm = algorithm
	if msg.ConcertPitch != nil {
		sess.notes.SetConcertPitch(*msg.ConcertPitch)
	}
	if msg.MinConfidence != nil {
		sess.minConfidence = *msg.MinConfidence
	}
	key, tune := sess.key, sess.tune
	if msg.Key != nil {
		key = harmonica.ParseKey(*msg.Key)
	}
	if msg.Tune != nil {
		tune = harmonica.ParseTune(*msg.Tune)
	}
	sess.setInstrument(key, tune)

	log.Debugf("server: session %s settings key=%s tune=%s algorithm=%s pitch=%d",
		sess.id, sess.harp.KeyName(), sess.harp.TuneName(), sess.algorithm, sess.notes.ConcertPitch())
	return settingsMessage{
		Key:           sess.harp.KeyName(),
		Tune:          sess.harp.TuneName(),
		Algorithm:     sess.algorithm.String(),
		ConcertPitch:  sess.notes.ConcertPitch(),
		MinConfidence: sess.minConfidence,
	}
}

// decodePCM converts little-endian float32 PCM to float64 samples,
// dropping any trailing bytes short of a full value.
func decodePCM(data []byte) []float64 {
	n := len(data) / 4
	samples := make([]float64, n)
	for i := range n {
		samples[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:])))
	}
	return samples
}
