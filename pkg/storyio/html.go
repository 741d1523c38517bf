package storyio

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storyloom/pkg/story"
)

// HTMLOptions configures standalone HTML export.
type HTMLOptions struct {
	// Title is shown as the page heading. Defaults to "A storyloom story".
	Title string
	// Key, when non-empty, obfuscates the embedded payload with a
	// repeating-key XOR transform before base64 encoding. This is
	// obfuscation, not encryption: the key ships inside the page so the
	// player can decode it.
	Key string
}

// htmlPage is the standalone player template. The payload is decoded and
// walked entirely client-side; the first key in the object is the root.
var htmlPage = template.Must(template.New("story").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 42em; margin: 3em auto; padding: 0 1em; background: #1c1b1a; color: #e8e4da; }
h1 { font-size: 1.4em; color: #d4b85a; }
#text { white-space: pre-wrap; line-height: 1.6; }
button { display: block; margin: .6em 0; padding: .5em 1em; font: inherit; background: #2c2a28; color: #8ec9c0; border: 1px solid #444; border-radius: 4px; cursor: pointer; }
button:hover { background: #3a3834; }
.missing { color: #b05a5a; font-style: italic; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="text"></div>
<div id="choices"></div>
<script>
var payload = "{{.Payload}}";
var key = "{{.Key}}";
function decode(p, k) {
  var raw = atob(p);
  if (!k) { return raw; }
  var out = "";
  for (var i = 0; i < raw.length; i++) {
    out += String.fromCharCode(raw.charCodeAt(i) ^ k.charCodeAt(i % k.length));
  }
  return out;
}
var scenes = JSON.parse(decode(payload, key));
var rootKey = Object.keys(scenes)[0];
function show(k) {
  var sc = scenes[k];
  var text = document.getElementById("text");
  var choices = document.getElementById("choices");
  choices.innerHTML = "";
  if (!sc) {
    text.innerHTML = '<span class="missing">This path leads nowhere (missing scene: ' + k + ').</span>';
    return;
  }
  text.textContent = sc.text;
  (sc.choices || []).forEach(function (c) {
    var b = document.createElement("button");
    b.textContent = c.text;
    b.onclick = function () { show(c.next); };
    choices.appendChild(b);
  });
}
show(rootKey);
</script>
</body>
</html>
`))

// xorTransform applies a repeating-key XOR over data. The transform is
// its own inverse.
func xorTransform(data []byte, key string) []byte {
	if key == "" {
		return data
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// EncodePayload serializes the story and encodes it for embedding:
// XOR with key (when non-empty) followed by base64.
func EncodePayload(st *story.Story, key string) (string, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("encode story: %w", err)
	}
	return base64.StdEncoding.EncodeToString(xorTransform(data, key)), nil
}

// DecodePayload reverses [EncodePayload] and reconstructs the story.
// The logger is attached to the returned story; nil discards warnings.
func DecodePayload(payload, key string, logger *log.Logger) (*story.Story, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return story.Unmarshal(xorTransform(raw, key), logger)
}

// WriteHTML renders the story as a standalone playable HTML page.
func WriteHTML(st *story.Story, w io.Writer, opts HTMLOptions) error {
	if opts.Title == "" {
		opts.Title = "A storyloom story"
	}
	payload, err := EncodePayload(st, opts.Key)
	if err != nil {
		return err
	}
	return htmlPage.Execute(w, struct {
		Title   string
		Payload string
		Key     string
	}{opts.Title, payload, opts.Key})
}

// ExportHTML writes a standalone playable HTML page to path.
func ExportHTML(st *story.Story, path string, opts HTMLOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteHTML(st, f, opts); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}
