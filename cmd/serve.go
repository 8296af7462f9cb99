package cmd

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"nlterm/internal/display"
	"nlterm/internal/logger"
)

//go:embed index.html
var webFS embed.FS

const (
	writeWait      = 10 * time.Second
	sessionMaxIdle = 30 * time.Minute
	reapInterval   = 5 * time.Minute
)

// wsRequest is one frame from the browser.
type wsRequest struct {
	// Type is "exec" or "complete".
	Type  string `json:"type"`
	Input string `json:"input"`
}

// wsResponse is one frame to the browser.
type wsResponse struct {
	// Type is "result", "candidates", or "error".
	Type       string   `json:"type"`
	Stdout     string   `json:"stdout,omitempty"`
	Stderr     string   `json:"stderr,omitempty"`
	ExitStatus int      `json:"exitStatus"`
	Workdir    string   `json:"workdir,omitempty"`
	Resolved   string   `json:"resolved,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// NewServeCmd creates the serve subcommand running the web front-end.
func NewServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web front-end",
		Long: `Serve starts an HTTP server with a browser terminal. Each websocket
connection gets its own session with an independent working directory
and history.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := app.setup(); err != nil {
				display.ShowError(err.Error())
				return
			}
			defer app.eng.Close()
			app.runServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	return cmd
}

func (app *App) runServe(addr string) {
	// Browser tabs close without goodbye frames; reap what they leave.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(reapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := app.eng.ReapIdle(sessionMaxIdle); n > 0 {
					logger.Info("reaped idle sessions", "count", n)
				}
			case <-stop:
				return
			}
		}
	}()

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(webFS)))
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		go app.serveConn(conn)
	})

	fmt.Printf("Listening on %s\n", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		display.ShowError(err.Error())
	}
}

// serveConn drives one websocket connection. The connection owns one
// session; disconnect drops it.
func (app *App) serveConn(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	sid := app.eng.NewSession()
	defer app.eng.Drop(sid)
	logger.Info("web session connected", "session", sid)

	// Greet with the starting directory.
	_ = app.writeFrame(conn, wsResponse{
		Type:    "result",
		Workdir: app.eng.Workdir(sid),
	})

	for {
		var req wsRequest
		if err := conn.ReadJSON(&req); err != nil {
			logger.Debug("web session disconnected", "session", sid, "error", err)
			return
		}

		switch req.Type {
		case "exec":
			result := app.eng.Process(context.Background(), sid, req.Input)
			resp := wsResponse{
				Type:       "result",
				Stdout:     result.Stdout,
				Stderr:     result.Stderr,
				ExitStatus: result.ExitStatus,
				Workdir:    app.eng.Workdir(sid),
				Resolved:   result.Resolved,
			}
			if err := app.writeFrame(conn, resp); err != nil {
				return
			}
		case "complete":
			resp := wsResponse{
				Type:       "candidates",
				Candidates: app.eng.Complete(sid, req.Input),
			}
			if err := app.writeFrame(conn, resp); err != nil {
				return
			}
		default:
			resp := wsResponse{
				Type:       "error",
				ExitStatus: 1,
				Error:      fmt.Sprintf("unknown frame type '%s'", req.Type),
			}
			if err := app.writeFrame(conn, resp); err != nil {
				return
			}
		}
	}
}

func (app *App) writeFrame(conn *websocket.Conn, resp wsResponse) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
