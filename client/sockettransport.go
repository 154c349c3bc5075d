package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/utils"
	"github.com/foomo/sitegen/responses"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// ProgressFunc receives the status messages of a streamed generation
type ProgressFunc func(message string)

type socketTransport struct {
	endpoint string
	dialer   *websocket.Dialer
}

func newSocketTransport(server string) *socketTransport {
	endpoint := server
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "http://"):
		endpoint = "ws://" + strings.TrimPrefix(endpoint, "http://")
	}
	return &socketTransport{
		endpoint: utils.JoinURL(endpoint, "/ws/generate"),
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// generate sends inputs and reads status messages until the site or an error arrives
func (st *socketTransport) generate(ctx context.Context, inputs content.GeneratorInputs, progress ProgressFunc) (*content.SiteInstance, error) {
	conn, resp, err := st.dialer.DialContext(ctx, st.endpoint, nil)
	if err != nil {
		if resp != nil {
			return nil, errors.Wrapf(err, "failed to open generation socket: %s", resp.Status)
		}
		return nil, errors.Wrap(err, "failed to open generation socket")
	}
	defer conn.Close()

	// unblock reads when ctx is done
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := conn.WriteJSON(inputs); err != nil {
		return nil, errors.Wrap(err, "failed to send inputs")
	}
	for {
		var msg responses.StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errors.Wrap(err, "generation stream ended without a site")
		}
		switch msg.Type {
		case responses.StreamTypeStatus:
			if progress != nil {
				progress(msg.Message)
			}
		case responses.StreamTypeSite:
			if msg.Site == nil {
				return nil, errors.New("empty site message")
			}
			return msg.Site, nil
		case responses.StreamTypeError:
			return nil, errors.New(msg.Error)
		}
	}
}
