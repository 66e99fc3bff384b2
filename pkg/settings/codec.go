package settings

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/shapegrid/pkg/errors"
)

// Format is a settings file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported settings file %q (want .json or .toml)", path)
}

// CameraKeys are view-state keys that older records may carry. They are
// stripped on decode and never written.
var CameraKeys = []string{
	"cameraX", "cameraY", "cameraZ",
	"cameraPositionX", "cameraPositionY", "cameraPositionZ",
	"cameraZoom",
}

func isCameraKey(k string) bool { return slices.Contains(CameraKeys, k) }

// Parse decodes a settings record. Missing fields keep their Default
// values; unknown non-camera keys fail with UNKNOWN_FIELD. The result is
// not validated.
func Parse(data []byte, format Format, logger *log.Logger) (Settings, error) {
	if logger == nil {
		logger = discardLogger()
	}
	switch format {
	case FormatJSON:
		return parseJSON(data, logger)
	case FormatTOML:
		return parseTOML(data, logger)
	}
	return Settings{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported settings format %q", format)
}

func parseJSON(data []byte, logger *log.Logger) (Settings, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidSettings, err, "decode settings JSON")
	}
	for k := range raw {
		if isCameraKey(k) {
			logger.Debug("dropping camera key from settings", "key", k)
			delete(raw, k)
		}
	}
	cleaned, err := json.Marshal(raw)
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInternal, err, "re-encode settings")
	}

	s := Default()
	dec := json.NewDecoder(bytes.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return Settings{}, errors.Wrap(errors.ErrCodeUnknownField, err, "unknown settings key")
		}
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidSettings, err, "decode settings JSON")
	}
	return s, nil
}

func parseTOML(data []byte, logger *log.Logger) (Settings, error) {
	s := Default()
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidSettings, err, "decode settings TOML")
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		key := k.String()
		if isCameraKey(key) {
			logger.Debug("dropping camera key from settings", "key", key)
			continue
		}
		unknown = append(unknown, key)
	}
	if len(unknown) > 0 {
		return Settings{}, errors.New(errors.ErrCodeUnknownField, "unknown settings keys: %s", strings.Join(unknown, ", "))
	}
	return s, nil
}

// Encode writes s in the given format.
func Encode(s Settings, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode settings JSON")
		}
		return append(data, '\n'), nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode settings TOML")
		}
		return buf.Bytes(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported settings format %q", format)
}

// Load reads, decodes and validates a settings file.
func Load(path string, logger *log.Logger) (Settings, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Settings{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, errors.Wrap(errors.ErrCodeNotFound, err, "settings file %s", path)
		}
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read settings file %s", path)
	}
	s, err := Parse(data, format, logger)
	if err != nil {
		return Settings{}, err
	}
	if err := Validate(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save writes s to path in the format implied by its extension.
func Save(path string, s Settings) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(s, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write settings file %s", path)
	}
	return nil
}
