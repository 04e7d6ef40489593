package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}

// LocaleKey is the context key carrying the resolved UI locale.
var LocaleKey = localeContextKey{}

// The portal serves Hong Kong classrooms first, so Cantonese-flavoured
// Traditional Chinese is the preferred match.
var supportedLocales = language.NewMatcher([]language.Tag{
	language.MustParse("zh-HK"),
	language.MustParse("zh-CN"),
	language.English,
})

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N resolves the request locale from the X-Locale header, Accept-Language,
// or a GeoIP country lookup, and stores it in the request context.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := detectLocale(r, defaultLocale, lookup)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, lookup CountryLookup) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return matchLocale(v)
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, conf := supportedLocales.Match(tags...)
			if conf > language.No {
				return localeForIndex(index)
			}
		}
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil {
				switch strings.ToUpper(country) {
				case "HK", "MO", "TW":
					return "zh-HK"
				case "CN", "SG":
					return "zh-CN"
				}
			}
		}
	}
	if fallback != "" {
		return matchLocale(fallback)
	}
	return "en"
}

func matchLocale(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	_, index, conf := supportedLocales.Match(tag)
	if conf == language.No {
		return "en"
	}
	return localeForIndex(index)
}

func localeForIndex(index int) string {
	switch index {
	case 0:
		return "zh-HK"
	case 1:
		return "zh-CN"
	}
	return "en"
}

// LocaleFromContext returns the locale resolved for the request.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		parts := strings.Split(xf, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
