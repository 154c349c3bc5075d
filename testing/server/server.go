// Stub generative AI api answering text requests with the fixture document and image requests with
// a solid png. Start sitegen with --gemini-base-url http://127.0.0.1:1234 --gemini-api-key stub.
package main

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"time"

	"github.com/foomo/keel/log"
	"github.com/foomo/sitegen/testing/fixtures"
	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type testServer struct {
	l     *zap.Logger
	delay time.Duration
	image string
}

type (
	part struct {
		Text       string      `json:"text,omitempty"`
		InlineData *inlineData `json:"inlineData,omitempty"`
	}
	inlineData struct {
		MIMEType string `json:"mimeType"`
		Data     string `json:"data"`
	}
	request struct {
		GenerationConfig *struct {
			ResponseMIMEType string `json:"responseMimeType"`
		} `json:"generationConfig"`
	}
	candidate struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	}
)

func main() {
	var (
		flagAddress = pflag.String("addr", ":1234", "set the webserver address")
		flagDelay   = pflag.Duration("delay", 2*time.Second, "delay before each reply")
	)
	pflag.Parse()

	l := log.Logger()
	ts := &testServer{
		l:     l,
		delay: *flagDelay,
		image: solidPNG(),
	}

	r := chi.NewRouter()
	r.Post("/v1beta/models/{model}", ts.generate)

	l.Info("start test server", zap.String("address", *flagAddress))
	if err := http.ListenAndServe(*flagAddress, r); err != nil { //nolint:gosec
		l.Fatal("server stopped", zap.Error(err))
	}
}

func (ts *testServer) generate(w http.ResponseWriter, r *http.Request) {
	req := &request{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		http.Error(w, `{"error":{"message":"invalid request"}}`, http.StatusBadRequest)
		return
	}
	time.Sleep(ts.delay)

	c := candidate{FinishReason: "STOP"}
	if req.GenerationConfig != nil && req.GenerationConfig.ResponseMIMEType == "application/json" {
		doc, err := json.Marshal(fixtures.SiteData())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		c.Content.Parts = []part{{Text: "```json\n" + string(doc) + "\n```"}}
	} else {
		c.Content.Parts = []part{{InlineData: &inlineData{MIMEType: "image/png", Data: ts.image}}}
	}
	ts.l.Info("generated", zap.String("model", chi.URLParam(r, "model")))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []candidate{c}})
}

func solidPNG() string {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: 14, G: 165, B: 233, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
