package title

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultKeyLength is the linkpreview.net API key length. Other providers
// can be accommodated by setting KeyLength.
const DefaultKeyLength = 32

const defaultEndpoint = "https://api.linkpreview.net"

// MetadataAPI fetches titles from a LinkPreview-style metadata endpoint. No
// request is made unless the configured key has the provider's expected
// shape: an absent key stays silent, while a present-but-malformed key
// additionally surfaces a one-time warning through Notify.
type MetadataAPI struct {
	Key       string
	KeyLength int    // expected key length, 0 means DefaultKeyLength
	Endpoint  string // override for tests, "" means the live endpoint

	Notify  func(string) // user-visible warning hook, may be nil
	Warning string       // message passed to Notify for a malformed key
	Client  *http.Client
	Log     zerolog.Logger

	warnOnce sync.Once
}

// Fetch implements Strategy.
func (m *MetadataAPI) Fetch(ctx context.Context, rawURL string) string {
	if m.Key == "" {
		return ""
	}
	if !m.keyValid() {
		m.warnOnce.Do(func() {
			m.Log.Warn().Int("key_length", len(m.Key)).Msg("metadata API key has the wrong shape")
			if m.Notify != nil {
				m.Notify(m.Warning)
			}
		})
		return ""
	}

	endpoint := m.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/?q="+url.QueryEscape(rawURL), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("X-Linkpreview-Api-Key", m.Key)
	req.Header.Set("Accept", "application/json")

	resp, err := m.client().Do(req)
	if err != nil {
		m.Log.Debug().Err(err).Str("url", rawURL).Msg("metadata API request failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.Log.Debug().Int("status", resp.StatusCode).Str("url", rawURL).Msg("metadata API refused")
		return ""
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		m.Log.Debug().Err(err).Str("url", rawURL).Msg("metadata API response unreadable")
		return ""
	}
	return payload.Title
}

func (m *MetadataAPI) keyValid() bool {
	want := m.KeyLength
	if want == 0 {
		want = DefaultKeyLength
	}
	return len(m.Key) == want
}

func (m *MetadataAPI) client() *http.Client {
	if m.Client != nil {
		return m.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}
