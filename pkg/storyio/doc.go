// Package storyio moves stories between the in-memory graph and files.
//
// Three formats are supported:
//
//   - JSON: the canonical wire format, a single object mapping scene keys
//     to scene records. [WriteJSON]/[ReadJSON] work on streams,
//     [ExportJSON]/[ImportJSON] on files.
//   - HTML: a standalone playable page with the story embedded as a
//     script payload. [ExportHTML] optionally obfuscates the payload
//     with a repeating-key XOR transform plus base64; [DecodePayload]
//     reverses it for re-import.
//   - DOT/SVG exports live in pkg/render, not here.
//
// The core graph performs no file I/O itself; this package is the
// external collaborator that does.
package storyio
