package client

import (
	"bufio"
	"context"
	"net/http"
	"strings"

	"github.com/robokit/handeye/pkg/events"
)

// Events subscribes to the daemon event stream. Events are delivered on the
// returned channel until ctx is cancelled or the connection drops, then the
// channel is closed.
func (c *Client) Events(ctx context.Context) (<-chan events.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://unix/events", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	ch := make(chan events.Event, 16)
	go func() {
		defer close(ch)
		defer resp.Body.Close()

		var ev events.Event
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				ev.Data = []byte(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			case line == "":
				// blank line terminates one SSE message
				if ev.Name != "" || len(ev.Data) > 0 {
					select {
					case ch <- ev:
					case <-ctx.Done():
						return
					}
				}
				ev = events.Event{}
			}
		}
	}()
	return ch, nil
}
