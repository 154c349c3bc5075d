package client

import (
	"context"
	"io"
	"net/http"

	"github.com/foomo/sitegen/pkg/utils"
	"github.com/foomo/sitegen/responses"
	"github.com/pkg/errors"
)

type httpTransport struct {
	client   *http.Client
	endpoint string
}

// NewHTTPTransport will create a new http transport for the given server and client.
// Caution: the provided server url is not validated!
func NewHTTPTransport(server string, client *http.Client) transport {
	return &httpTransport{
		endpoint: server,
		client:   client,
	}
}

func (ht *httpTransport) shutdown() {
	ht.client.CloseIdleConnections()
}

func (ht *httpTransport) call(ctx context.Context, method, path, contentType string, body io.Reader, response interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, utils.JoinURL(ht.endpoint, path), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ht.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respErr := responses.NewError(resp.StatusCode, http.StatusText(resp.StatusCode))
		if err := json.Unmarshal(data, respErr); err != nil || respErr.Message == "" {
			respErr.Message = http.StatusText(resp.StatusCode)
		}
		return respErr
	}
	if response == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, response)
}
