package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type assertError string

func (e assertError) Error() string { return string(e) }

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		fallback string
		country  string
		want     string
	}{
		{
			name: "x-locale overrides",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "EN")
			},
			country: "FR",
			want:    "en",
		},
		{
			name: "accept-language used",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-US,en;q=0.9")
			},
			want: "en",
		},
		{
			name: "accept-language french preference",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "fr-CA,en;q=0.8")
			},
			want: "fr",
		},
		{
			name: "unsupported accept-language falls through",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "ja")
			},
			country: "US",
			want:    "en",
		},
		{
			name:    "country maps to locale",
			country: "GB",
			want:    "en",
		},
		{
			name:     "configured fallback",
			fallback: "en",
			want:     "en",
		},
		{
			name: "default to fr",
			want: "fr",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.setup != nil {
				tc.setup(req)
			}
			got := detectLocale(req, tc.fallback, tc.country)
			if got != tc.want {
				t.Fatalf("detectLocale() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveCountry(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		resolver CountryLookup
		want     string
	}{
		{
			name: "header precedence",
			setup: func(r *http.Request) {
				r.Header.Set("X-Country-Code", "be")
				r.Header.Set("CF-IPCountry", "fr")
			},
			want: "BE",
		},
		{
			name: "locale region fallback",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "en-AU")
			},
			want: "AU",
		},
		{
			name: "accept-language region",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "fr-CH,fr;q=0.9")
			},
			want: "CH",
		},
		{
			name: "resolver fallback",
			resolver: func(ip string) (string, error) {
				if ip != "203.0.113.4" {
					t.Fatalf("unexpected ip: %s", ip)
				}
				return "fr", nil
			},
			want: "FR",
		},
		{
			name: "resolver error returns empty",
			resolver: func(ip string) (string, error) {
				return "", assertError("boom")
			},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.4:80"
			if tc.setup != nil {
				tc.setup(req)
			}
			got := ResolveCountry(req, tc.resolver)
			if got != tc.want {
				t.Fatalf("ResolveCountry() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocaleFromContext(t *testing.T) {
	ctx := context.Background()
	if got := LocaleFromContext(ctx); got != "fr" {
		t.Fatalf("LocaleFromContext() default = %q, want %q", got, "fr")
	}
	ctx = context.WithValue(ctx, LocaleKey, "en")
	if got := LocaleFromContext(ctx); got != "en" {
		t.Fatalf("LocaleFromContext() with value = %q, want %q", got, "en")
	}
}

func TestI18NSetsContentLanguage(t *testing.T) {
	var seen string
	h := I18N("fr", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LocaleFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "en" || rec.Header().Get("Content-Language") != "en" {
		t.Fatalf("locale = %q, header = %q", seen, rec.Header().Get("Content-Language"))
	}
}
