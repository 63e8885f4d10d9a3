// Package cli provides the interactive TriVision Sort command-line client.
//
// It wires configuration, the key-value store, the auth and history
// services, the Gemini classifier, the camera and the capture pipeline into
// a REPL. A previous session is restored at start-up; otherwise the user
// registers or logs in before any classification command is accepted.
//
// Views:
//   - auth: register, login, logout, whoami
//   - upload: classify an image file from disk
//   - scan: hold the camera and capture stills until "back"
//   - history: list, show, export and clear past results
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or ctx is canceled.
package cli
