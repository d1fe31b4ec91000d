// Package frame serves the social frame metadata document and reacts to
// frame button presses.
package frame

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/verte-zerg/typecard/internal/logging"
	"github.com/verte-zerg/typecard/internal/model"
)

// Version is the frame protocol marker advertised in the metadata document.
const Version = "vNext"

// maxBodyBytes caps the action payload read from callers.
const maxBodyBytes = 64 << 10

// Button describes one frame button.
type Button struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// ActionResponse is the next frame step returned for a button press.
type ActionResponse struct {
	Image   string   `json:"image"`
	Buttons []Button `json:"buttons"`
}

// ActionRequest is the payload posted when a frame button is pressed.
// Both fields are kept raw so a malformed value in one never hides the
// other.
type ActionRequest struct {
	ButtonIndex   json.RawMessage `json:"buttonIndex"`
	UntrustedData json.RawMessage `json:"untrustedData"`
}

type untrustedData struct {
	State json.RawMessage `json:"state"`
}

// previousState accepts numbers or strings; the raw token is passed on.
type previousState struct {
	WPM      json.RawMessage `json:"wpm"`
	Accuracy json.RawMessage `json:"accuracy"`
}

// Index returns the pressed button. Whole-number floats such as 1.0 count;
// a missing, fractional or non-numeric index reports false.
func (r ActionRequest) Index() (int, bool) {
	var f float64
	if err := json.Unmarshal(r.ButtonIndex, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Carried returns the caller-supplied score as text. Anything that is not
// an object at untrustedData.state yields an empty score.
func (r ActionRequest) Carried() model.CarriedState {
	var data untrustedData
	if err := json.Unmarshal(r.UntrustedData, &data); err != nil {
		return model.CarriedState{}
	}
	var state previousState
	if err := json.Unmarshal(data.State, &state); err != nil {
		return model.CarriedState{}
	}
	return model.CarriedState{
		WPM:      rawText(state.WPM),
		Accuracy: rawText(state.Accuracy),
	}
}

func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	return string(trimmed)
}

var (
	startButtons = []Button{
		{Label: "Start Typing Test", Action: "post"},
		{Label: "Challenge a Friend", Action: "post"},
	}
	typingButtons = []Button{
		{Label: "Submit Test", Action: "post"},
	}
	challengeButtons = []Button{
		{Label: "Accept Challenge", Action: "post"},
		{Label: "Try Test", Action: "post"},
	}
	defaultButtons = []Button{
		{Label: "Try Again", Action: "post"},
	}
)

const metadataTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta property="fc:frame" content="{{.Version}}" />
    <meta property="fc:frame:image" content="{{.ImageURL}}" />
{{- range $i, $b := .Buttons}}
    <meta property="fc:frame:button:{{inc $i}}" content="{{$b.Label}}" />
    <meta property="fc:frame:button:{{inc $i}}:action" content="{{$b.Action}}" />
{{- end}}
    <meta property="fc:frame:post_url" content="{{.PostURL}}" />
  </head>
</html>
`

var metadataTmpl = template.Must(template.New("metadata").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(metadataTemplate))

type metadataView struct {
	Version  string
	ImageURL string
	Buttons  []Button
	PostURL  string
}

// Handler serves the frame endpoint.
type Handler struct {
	baseURL  string
	logger   *slog.Logger
	metadata []byte
}

// NewHandler creates a frame handler whose links are rooted at baseURL.
// The metadata document is rendered once since it never varies.
func NewHandler(baseURL string, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Handler{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
	var buf bytes.Buffer
	if err := metadataTmpl.Execute(&buf, metadataView{
		Version:  Version,
		ImageURL: h.cardURL(model.CardParams{}),
		Buttons:  startButtons,
		PostURL:  h.baseURL + model.FramePath,
	}); err != nil {
		return nil, err
	}
	h.metadata = buf.Bytes()
	return h, nil
}

// Routes sets up the frame routes relative to the mount point.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Metadata)
	r.Post("/", h.Action)
	return r
}

// Metadata handles GET requests with the static frame document.
func (h *Handler) Metadata(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.metadata); err != nil {
		h.logger.Debug("failed to write frame metadata", "err", err)
	}
}

// Action handles POST requests carrying a button press. Bodies that cannot
// be decoded take the default branch.
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.logger.Debug("undecodable frame action, using default branch", "err", err)
		req = ActionRequest{}
	}
	h.respondJSON(w, http.StatusOK, h.Respond(req))
}

// Respond picks the next frame step for a button press.
func (h *Handler) Respond(req ActionRequest) ActionResponse {
	index, ok := req.Index()
	if !ok {
		index = 0
	}
	switch index {
	case 1:
		return ActionResponse{
			Image:   h.cardURL(model.CardParams{State: model.CardTyping}),
			Buttons: typingButtons,
		}
	case 2:
		return ActionResponse{
			Image:   h.cardURL(model.CardParams{State: model.CardChallenge, Carry: req.Carried()}),
			Buttons: challengeButtons,
		}
	default:
		return ActionResponse{
			Image:   h.cardURL(model.CardParams{}),
			Buttons: defaultButtons,
		}
	}
}

func (h *Handler) cardURL(p model.CardParams) string {
	u := h.baseURL + model.CardPath
	if q := p.Query(); q != "" {
		u += "?" + q
	}
	return u
}

// respondJSON sends a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		h.logger.Debug("failed to write frame response", "err", err)
	}
}
