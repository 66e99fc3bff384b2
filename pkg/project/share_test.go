package project

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/matzehuels/shapegrid/pkg/errors"
	"github.com/matzehuels/shapegrid/pkg/settings"
)

func TestShareRoundTrip(t *testing.T) {
	s := settings.Default().WithSeed(1234)
	s.Rows = 17
	s.Curvature = 0.5
	s.Group2Fill = "#00ff00"

	token, err := EncodeShare(s)
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("token %q is not URL safe", token)
	}
	got, err := DecodeShare(token, nil)
	if err != nil {
		t.Fatalf("DecodeShare: %v", err)
	}
	if d := settings.Diff(s, got); d != 0 {
		t.Errorf("decoded settings differ: %v", d)
	}
	if seed, _ := got.Seed(); seed != 1234 {
		t.Errorf("seed = %d, want 1234", seed)
	}
}

func TestShareOmitsDefaults(t *testing.T) {
	token, err := EncodeShare(settings.Default().WithSeed(9))
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := base64.RawURLEncoding.DecodeString(token)
	if string(raw) != `{"colorSeed":9}` {
		t.Errorf("token payload = %s, want only the seed", raw)
	}
}

func TestDecodeShareErrors(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	tests := []struct {
		name  string
		token string
		code  errors.Code
	}{
		{"empty", "", errors.ErrCodeInvalidShareToken},
		{"not base64", "!!!", errors.ErrCodeInvalidShareToken},
		{"not json", enc("rows=3"), errors.ErrCodeInvalidShareToken},
		{"unknown key", enc(`{"speed":3}`), errors.ErrCodeUnknownField},
		{"invalid value", enc(`{"rows":-1}`), errors.ErrCodeInvalidSettings},
		{"too long", strings.Repeat("a", MaxShareTokenLength+1), errors.ErrCodeInvalidShareToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeShare(tt.token, nil)
			if !errors.Is(err, tt.code) {
				t.Errorf("DecodeShare() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDecodeShareDropsCameraKeys(t *testing.T) {
	token := base64.RawURLEncoding.EncodeToString([]byte(`{"rows":3,"cameraZoom":2}`))
	s, err := DecodeShare(token, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Rows != 3 {
		t.Errorf("Rows = %d, want 3", s.Rows)
	}
}

func TestShareURL(t *testing.T) {
	s := settings.Default().WithSeed(5)
	s.Cols = 4

	link, err := ShareURL("https://example.com/app?theme=dark", s)
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("theme") != "dark" {
		t.Error("existing query parameters were dropped")
	}
	if u.Query().Get(ShareQueryKey) == "" {
		t.Fatal("share parameter missing")
	}

	got, err := ParseShareURL(link, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got.Cols != 4 {
		t.Errorf("Cols = %d, want 4", got.Cols)
	}

	if _, err := ShareURL("ftp://example.com", s); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ShareURL(ftp) = %v", err)
	}
	if _, err := ParseShareURL("https://example.com/?x=1", nil); !errors.Is(err, errors.ErrCodeInvalidShareToken) {
		t.Errorf("ParseShareURL(no token) = %v", err)
	}
}

func ExampleParseShareURL() {
	s := settings.Default().WithSeed(3)
	s.Rows = 6
	link, _ := ShareURL("https://shapegrid.example/", s)

	got, _ := ParseShareURL(link, nil)
	fmt.Println(got.Rows)
	// Output: 6
}
