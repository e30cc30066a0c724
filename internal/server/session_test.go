// SPDX-License-Identifier: MIT
package server_test

import (
	"encoding/binary"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"harp/internal/config"
	"harp/pkg/synth"
)

const wsSampleRate = 44100

// reading decodes any session reply: pitch readings carry Note, error
// replies carry Error.
type reading struct {
	Note       string  `json:"note"`
	Cents      int     `json:"cents"`
	Pitch      float64 `json:"pitch"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error"`
}

type settings struct {
	Key           string  `json:"key"`
	Tune          string  `json:"tune"`
	Algorithm     string  `json:"algorithm"`
	ConcertPitch  int     `json:"concertPitch"`
	MinConfidence float64 `json:"minConfidence"`
	Error         string  `json:"error"`
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

// pcmBytes packs samples as the little-endian float32 stream browsers
// send.
func pcmBytes(samples []float64) []byte {
	buf := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(s)))
	}
	return buf
}

func readReply(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(v))
}

func TestSessionPitchReading(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) { cfg.Detect.Algorithm = "mpm" })
	conn := dialWS(t, ts)

	tone := synth.Sine(4096, wsSampleRate, 440)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, pcmBytes(tone)))

	var r reading
	readReply(t, conn, &r)
	require.Empty(t, r.Error)
	require.Equal(t, "A4", r.Note)
	require.InDelta(t, 440, r.Pitch, 1)
	require.LessOrEqual(t, math.Abs(float64(r.Cents)), 1.0)
	require.Greater(t, r.Confidence, 0.5)
}

func TestSessionSilence(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, pcmBytes(synth.Silence(4096))))

	var r reading
	readReply(t, conn, &r)
	require.Equal(t, "no pitch detected", r.Error)
	require.Empty(t, r.Note)
}

func TestSessionShortBuffer(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dialWS(t, ts)

	// Three bytes is less than one float32.
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}))

	var r reading
	readReply(t, conn, &r)
	require.Equal(t, "empty audio buffer", r.Error)
}

func TestSessionRetunes(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) { cfg.Detect.Algorithm = "mpm" })
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"key":           "A",
		"tune":          "country",
		"algorithm":     "yin",
		"concertPitch":  442,
		"minConfidence": 0.3,
	}))

	var st settings
	readReply(t, conn, &st)
	require.Empty(t, st.Error)
	require.Equal(t, "A", st.Key)
	require.Equal(t, "country", st.Tune)
	require.Equal(t, "yin", st.Algorithm)
	require.Equal(t, 442, st.ConcertPitch)
	require.InDelta(t, 0.3, st.MinConfidence, 1e-9)

	// A 440 tone against the 442 table reads as a flat A4.
	tone := synth.Sine(4096, wsSampleRate, 440)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, pcmBytes(tone)))

	var r reading
	readReply(t, conn, &r)
	require.Empty(t, r.Error)
	require.Equal(t, "A4", r.Note)
	require.GreaterOrEqual(t, r.Cents, -9)
	require.LessOrEqual(t, r.Cents, -7)
	require.Greater(t, r.Confidence, 0.5)
}

func TestSessionUnknownAlgorithm(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteJSON(map[string]any{"algorithm": "fourier"}))

	var st settings
	readReply(t, conn, &st)
	require.Contains(t, st.Error, "unknown pitch algorithm")

	// The session survives a rejected control frame.
	require.NoError(t, conn.WriteJSON(map[string]any{}))
	readReply(t, conn, &st)
	require.Empty(t, st.Error)
	require.Equal(t, "C", st.Key)
	require.Equal(t, "hybrid", st.Algorithm)
}

func TestSessionLenientKeyFallback(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteJSON(map[string]any{"key": "ZZZ"}))

	var st settings
	readReply(t, conn, &st)
	require.Empty(t, st.Error)
	require.Equal(t, "C", st.Key)
	require.Equal(t, "richter", st.Tune)
}

func TestSessionRejectsBadConcertPitch(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteJSON(map[string]any{"concertPitch": 900, "key": "A"}))

	var st settings
	readReply(t, conn, &st)
	require.Equal(t, "concert pitch outside supported range", st.Error)

	// The frame was rejected as a whole; the key kept its default too.
	require.NoError(t, conn.WriteJSON(map[string]any{}))
	readReply(t, conn, &st)
	require.Equal(t, "C", st.Key)
	require.Equal(t, 440, st.ConcertPitch)
}

func TestSessionMalformedControl(t *testing.T) {
	ts := newTestServer(t, nil)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	var st settings
	readReply(t, conn, &st)
	require.Equal(t, "malformed control message", st.Error)
}

func TestWebSocketOriginCheck(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.AllowedOrigins = []string{"http://ok.example"}
	})

	// Allowed origin upgrades fine.
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), http.Header{"Origin": {"http://ok.example"}})
	require.NoError(t, err)
	resp.Body.Close()
	conn.Close()

	// Anything else is refused during the handshake.
	_, resp, err = websocket.DefaultDialer.Dial(wsURL(ts), http.Header{"Origin": {"http://bad.example"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	if resp != nil {
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	}
}
