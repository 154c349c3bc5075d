package client

import (
	"context"
	"io"
)

type transport interface {
	// call sends body to path and decodes a successful reply into response
	call(ctx context.Context, method, path, contentType string, body io.Reader, response interface{}) error
	shutdown()
}
