package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio/pkg/utils"
)

func main() {
	var (
		addr   string
		token  string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "event-client",
		Short: "Print admin content events streamed by the API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "" {
				token = os.Getenv("PORTFOLIO_TOKEN")
			}
			if token == "" {
				return fmt.Errorf("token required (--token or PORTFOLIO_TOKEN)")
			}

			logger := utils.MustLogger("info")
			defer func() { _ = logger.Sync() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			for {
				if err := run(addr, token, pretty, logger, stop); err != nil {
					logger.Warn("disconnected", zap.Error(err))
				} else {
					return nil
				}
				select {
				case <-stop:
					return nil
				case <-time.After(time.Second): // auto reconnect
				}
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "ws://127.0.0.1:8080/admin/events", "events websocket URL")
	cmd.Flags().StringVar(&token, "token", "", "admin JWT")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "pretty print JSON events")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run streams events until the connection fails (error) or stop fires (nil).
func run(addr, token string, pretty bool, logger *zap.Logger, stop <-chan os.Signal) error {
	u, err := url.Parse(addr)
	if err != nil {
		return fmt.Errorf("parse addr: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	ws, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: %w (status %d)", addr, err, resp.StatusCode)
		}
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer ws.Close()
	logger.Info("connected", zap.String("addr", addr))

	msgs := make(chan []byte)
	errCh := make(chan error, 1)
	go func() {
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				errCh <- err
				return
			}
			msgs <- msg
		}
	}()

	for {
		select {
		case <-stop:
			_ = ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case err := <-errCh:
			return err
		case msg := <-msgs:
			fmt.Println(format(msg, pretty))
		}
	}
}

func format(msg []byte, pretty bool) string {
	if !pretty {
		return string(msg)
	}
	var obj map[string]any
	if err := json.Unmarshal(msg, &obj); err != nil {
		// not JSON? print raw
		return strings.TrimSpace(string(msg))
	}
	b, _ := json.MarshalIndent(obj, "", "  ")
	return string(b)
}
