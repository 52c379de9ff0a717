package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/mrsingh-rishi/sign-captions/api"
	"github.com/mrsingh-rishi/sign-captions/caption"
	"github.com/mrsingh-rishi/sign-captions/config"
	"github.com/mrsingh-rishi/sign-captions/media"
	"github.com/mrsingh-rishi/sign-captions/model"
	"github.com/mrsingh-rishi/sign-captions/service"
	"github.com/mrsingh-rishi/sign-captions/stt"
	"github.com/mrsingh-rishi/sign-captions/web"
)

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

// writeWav writes seconds of 16 kHz mono silence-ish PCM.
func writeWav(path string, seconds int) {
	f, err := os.Create(path)
	Expect(err).ToNot(HaveOccurred())
	defer f.Close()

	enc := wav.NewEncoder(f, 16000, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           make([]int, 16000*seconds),
		SourceBitDepth: 16,
	}
	Expect(enc.Write(buf)).To(Succeed())
	Expect(enc.Close()).To(Succeed())
}

// fakeFFmpeg writes a shell script standing in for the extraction tool: it
// answers -version and copies wavSrc to its last argument.
func fakeFFmpeg(dir, wavSrc string) string {
	if runtime.GOOS == "windows" {
		Skip("shell script tool not supported on windows")
	}
	script := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-version" ]; then echo "ffmpeg version test"; exit 0; fi
for last; do true; done
cp %q "$last"
`, wavSrc)
	p := filepath.Join(dir, "ffmpeg")
	Expect(os.WriteFile(p, []byte(script), 0o755)).To(Succeed())
	return p
}

func newServer(ffmpegPath string, frontend http.FileSystem) *Server {
	cfg := &config.Config{FFmpegPath: ffmpegPath, AllowedOrigins: config.DefaultAllowedOrigins}
	resolver := media.NewResolver(ffmpegPath)
	tr, err := service.NewTranscription(media.NewFFmpeg(resolver), stt.New(cfg))
	Expect(err).ToNot(HaveOccurred())
	return &Server{
		Config:        cfg,
		Resolver:      resolver,
		Transcription: tr,
		Models:        stt.Models,
		NewRand:       func() caption.Rand { return fixedRand(0) },
		Frontend:      frontend,
	}
}

func upload(filename string, content []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	Expect(err).ToNot(HaveOccurred())
	_, err = fw.Write(content)
	Expect(err).ToNot(HaveOccurred())
	Expect(mw.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func do(app *fiber.App, req *http.Request, into interface{}) *http.Response {
	resp, err := app.Test(req, -1)
	Expect(err).ToNot(HaveOccurred())
	if into != nil {
		defer resp.Body.Close()
		Expect(json.NewDecoder(resp.Body).Decode(into)).To(Succeed())
	}
	return resp
}

var _ = Describe("API", func() {
	var tmp string

	BeforeEach(func() {
		tmp = GinkgoT().TempDir()
	})

	Context("probes", func() {
		It("reports liveness", func() {
			app := newServer("", nil).App()
			var body model.HealthResponse
			resp := do(app, httptest.NewRequest(http.MethodGet, "/api/health", nil), &body)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body.Status).To(Equal("ok"))
		})

		It("reports an unresolved extraction tool", func() {
			missing := filepath.Join(tmp, "no-such-ffmpeg")
			app := newServer(missing, nil).App()

			var body model.ConfigResponse
			resp := do(app, httptest.NewRequest(http.MethodGet, "/api/config", nil), &body)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body.FFmpeg.Configured).To(Equal(missing))
			Expect(body.FFmpeg.Resolved).To(BeNil())
			Expect(body.FFmpeg.Available).To(BeFalse())
			Expect(body.Transcription.Credential).To(BeFalse())
			Expect(body.Transcription.Models).To(Equal([]string{"gpt-4o-transcribe", "whisper-1"}))
		})

		It("reports a resolved extraction tool", func() {
			src := filepath.Join(tmp, "src.wav")
			writeWav(src, 1)
			tool := fakeFFmpeg(tmp, src)
			app := newServer(tool, nil).App()

			var body model.ConfigResponse
			do(app, httptest.NewRequest(http.MethodGet, "/api/config", nil), &body)
			Expect(body.FFmpeg.Available).To(BeTrue())
			Expect(body.FFmpeg.Resolved).ToNot(BeNil())
			Expect(*body.FFmpeg.Resolved).To(Equal(tool))
		})
	})

	Context("transcribe", func() {
		It("rejects a request without a file", func() {
			app := newServer("", nil).App()
			req := httptest.NewRequest(http.MethodPost, "/api/transcribe", nil)

			var body model.ErrorResponse
			resp := do(app, req, &body)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body.Detail).To(Equal("No file uploaded"))
		})

		It("rejects unsupported file types", func() {
			app := newServer("", nil).App()
			var body model.ErrorResponse
			resp := do(app, upload("notes.txt", []byte("hi")), &body)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body.Detail).To(Equal("Unsupported file type"))
		})

		It("reports a configuration error instead of a stub result when the tool is missing", func() {
			app := newServer(filepath.Join(tmp, "no-such-ffmpeg"), nil).App()
			var body model.ErrorResponse
			resp := do(app, upload("clip.mp4", []byte("video")), &body)
			Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(body.Detail).To(ContainSubstring("ffmpeg not found"))
			Expect(body.Detail).To(ContainSubstring("FFMPEG_PATH"))
		})

		It("returns placeholder words for a ten second video without a credential", func() {
			src := filepath.Join(tmp, "src.wav")
			writeWav(src, 10)
			app := newServer(fakeFFmpeg(tmp, src), nil).App()

			var body model.TranscribeResponse
			resp := do(app, upload("clip.mp4", []byte("video bytes")), &body)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body.Text).To(Equal(stt.StubText))
			Expect(body.Words).To(HaveLen(11))
			for i, w := range body.Words {
				Expect(w.I).To(Equal(i))
			}
			Expect(body.Words[0].W).To(Equal("hello"))
			Expect(body.Duration).ToNot(BeNil())
			Expect(*body.Duration).To(BeNumerically("~", 10, 0.001))

			ts := caption.Timings(body.Words, *body.Duration)
			Expect(ts[len(ts)-1].End).To(Equal(*body.Duration))
			for _, w := range ts {
				Expect(w.End - w.Start).To(BeNumerically("~", 10.0/11, 1e-9))
			}
		})

		It("returns the same placeholder for any input", func() {
			src := filepath.Join(tmp, "src.wav")
			writeWav(src, 1)
			app := newServer(fakeFFmpeg(tmp, src), nil).App()

			var a, b model.TranscribeResponse
			do(app, upload("one.mp3", []byte("aaa")), &a)
			do(app, upload("two.WAV", []byte("bbbbbb")), &b)
			Expect(a.Text).To(Equal(b.Text))
			Expect(a.Words).To(Equal(b.Words))
		})
	})

	Context("frontend", func() {
		It("serves the embedded index and assets", func() {
			app := newServer("", web.FS()).App()

			resp := do(app, httptest.NewRequest(http.MethodGet, "/", nil), nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(ContainSubstring("text/html"))
			page, _ := io.ReadAll(resp.Body)
			Expect(string(page)).To(ContainSubstring(`id="hand"`))

			resp = do(app, httptest.NewRequest(http.MethodGet, "/static/app.js", nil), nil)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})

		It("answers with a note when there is no frontend", func() {
			app := newServer("", nil).App()
			var body map[string]string
			do(app, httptest.NewRequest(http.MethodGet, "/", nil), &body)
			Expect(body["message"]).To(Equal("frontend not found"))
		})

		It("allows the dev origins", func() {
			app := newServer("", nil).App()
			req := httptest.NewRequest(http.MethodOptions, "/api/transcribe", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", "POST")
			resp := do(app, req, nil)
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:5173"))
		})
	})

	Context("playback sync", func() {
		It("requires a websocket upgrade", func() {
			app := newServer("", nil).App()
			resp := do(app, httptest.NewRequest(http.MethodGet, "/api/sync", nil), nil)
			Expect(resp.StatusCode).To(Equal(http.StatusUpgradeRequired))
		})

		It("drives highlights over a websocket", func() {
			app := newServer("", nil).App()
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).ToNot(HaveOccurred())
			go app.Listener(ln)
			DeferCleanup(func() { app.ShutdownWithTimeout(time.Second) })

			conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/sync", nil)
			Expect(err).ToNot(HaveOccurred())
			defer conn.Close()
			conn.SetReadDeadline(time.Now().Add(5 * time.Second))

			words := []model.Word{{I: 0, W: "apple"}, {I: 1, W: "banana"}, {I: 2, W: "cherry"}}
			Expect(conn.WriteJSON(model.ClientFrame{Type: model.FrameLoad, Words: words, Duration: 6})).To(Succeed())
			var timings model.TimingsFrame
			Expect(conn.ReadJSON(&timings)).To(Succeed())
			Expect(timings.Type).To(Equal(model.FrameTimings))
			Expect(timings.Timings).To(HaveLen(3))
			Expect(timings.Timings[2].End).To(Equal(6.0))

			Expect(conn.WriteJSON(model.ClientFrame{Type: model.FrameTime, Reason: "timeupdate", T: 2.5})).To(Succeed())
			var hl model.HighlightFrame
			Expect(conn.ReadJSON(&hl)).To(Succeed())
			Expect(hl).To(Equal(model.HighlightFrame{Type: model.FrameHighlight, Index: 1, Word: "banana", Pose: "index"}))

			Expect(conn.WriteJSON(model.ClientFrame{Type: model.FrameClick, Index: 0})).To(Succeed())
			var seek model.SeekFrame
			Expect(conn.ReadJSON(&seek)).To(Succeed())
			Expect(seek.T).To(BeNumerically("~", 0.01, 1e-9))
			Expect(conn.ReadJSON(&hl)).To(Succeed())
			Expect(hl.Index).To(Equal(0))

			Expect(conn.WriteJSON(model.ClientFrame{Type: model.FrameEnded})).To(Succeed())
			var cleared model.ServerFrame
			Expect(conn.ReadJSON(&cleared)).To(Succeed())
			Expect(cleared.Type).To(Equal(model.FrameClear))
		})
	})
})
