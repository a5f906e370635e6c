package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/user"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/config"
)

// maxBodySize caps the fetched document.
const maxBodySize = 1 << 20

var utf8BOM = []byte("\xEF\xBB\xBF")

// Source fetches the reminder payload for the current user.
type Source struct {
	urlTemplate string
	client      *http.Client
	userName    func() (string, error)
	logger      zerolog.Logger
}

// NewSource creates a source for the given URL template. The template's
// config.UserNamePlaceholder is replaced verbatim with the OS user name.
func NewSource(urlTemplate string, client *http.Client, logger zerolog.Logger) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{
		urlTemplate: urlTemplate,
		client:      client,
		userName:    currentUserName,
		logger:      logger.With().Str("component", "source").Logger(),
	}
}

// currentUserName returns the login name without any domain prefix.
func currentUserName() (string, error) {
	u, err := user.Current()
	if err == nil && u.Username != "" {
		name := u.Username
		if i := strings.LastIndex(name, `\`); i >= 0 {
			name = name[i+1:]
		}
		return name, nil
	}
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if v := os.Getenv(key); v != "" {
			return v, nil
		}
	}
	if err == nil {
		err = fmt.Errorf("user name is empty")
	}
	return "", fmt.Errorf("failed to determine user name: %w", err)
}

// URL returns the request URL for the current user.
func (s *Source) URL() (string, error) {
	name, err := s.userName()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(s.urlTemplate, config.UserNamePlaceholder, name), nil
}

// Fetch retrieves and parses the payload. Any failure yields ok == false;
// callers treat it as "nothing to show this tick".
func (s *Source) Fetch(ctx context.Context) (Payload, bool) {
	body, err := s.fetch(ctx)
	if err != nil {
		s.logger.Debug().Err(err).Msg("fetch failed")
		return Payload{}, false
	}

	p, err := ParsePayload(body)
	if err != nil {
		s.logger.Debug().Err(err).Msg("discarding payload")
		return Payload{}, false
	}
	return p, true
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	url, err := s.URL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Charset", "utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payload: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	body = bytes.TrimPrefix(body, utf8BOM)
	if !utf8.Valid(body) {
		body = bytes.ToValidUTF8(body, []byte("�"))
	}
	return body, nil
}
