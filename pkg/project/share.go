package project

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

// ShareQueryKey is the URL query parameter carrying a share token.
const ShareQueryKey = "s"

// MaxShareTokenLength bounds tokens accepted by DecodeShare.
const MaxShareTokenLength = 16 << 10

// EncodeShare packs a settings record into a URL-safe token. Only fields
// that differ from settings.Default are included, so tokens stay short;
// the color seed is always included.
func EncodeShare(s settings.Settings) (string, error) {
	if err := settings.Validate(s); err != nil {
		return "", err
	}
	s = s.Clone()
	s.EnsureSeed(nil)

	fields, err := fieldsOf(s)
	if err != nil {
		return "", err
	}
	defaults, err := fieldsOf(settings.Default())
	if err != nil {
		return "", err
	}
	for k, v := range fields {
		if d, ok := defaults[k]; ok && bytes.Equal(d, v) {
			delete(fields, k)
		}
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode share token")
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func fieldsOf(s settings.Settings) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode settings")
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode settings")
	}
	return m, nil
}

// DecodeShare unpacks a token produced by EncodeShare. Unknown keys and
// invalid values are rejected; padded base64 is accepted.
func DecodeShare(token string, logger *log.Logger) (settings.Settings, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return settings.Settings{}, errors.New(errors.ErrCodeInvalidShareToken, "empty share token")
	}
	if len(token) > MaxShareTokenLength {
		return settings.Settings{}, errors.New(errors.ErrCodeInvalidShareToken, "share token too long (max %d bytes)", MaxShareTokenLength)
	}

	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return settings.Settings{}, errors.Wrap(errors.ErrCodeInvalidShareToken, err, "decode share token")
	}
	s, err := settings.Parse(data, settings.FormatJSON, logger)
	if err != nil {
		if errors.Is(err, errors.ErrCodeUnknownField) {
			return settings.Settings{}, err
		}
		return settings.Settings{}, errors.Wrap(errors.ErrCodeInvalidShareToken, err, "parse share token")
	}
	if err := settings.Validate(s); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

// ShareURL returns base with the share token for s in its query string.
// Existing query parameters are kept.
func ShareURL(base string, s settings.Settings) (string, error) {
	if err := errors.ValidateURL(base); err != nil {
		return "", err
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse base URL")
	}
	token, err := EncodeShare(s)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(ShareQueryKey, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseShareURL extracts and decodes the share token in rawURL. A bare
// token is accepted too.
func ParseShareURL(rawURL string, logger *log.Logger) (settings.Settings, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.Contains(rawURL, "://") && !strings.ContainsAny(rawURL, "?&") {
		return DecodeShare(rawURL, logger)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return settings.Settings{}, errors.Wrap(errors.ErrCodeInvalidShareToken, err, "parse share URL")
	}
	token := u.Query().Get(ShareQueryKey)
	if token == "" {
		return settings.Settings{}, errors.New(errors.ErrCodeInvalidShareToken, "URL has no %q parameter", ShareQueryKey)
	}
	return DecodeShare(token, logger)
}
