package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin access. An origin is allowed when it
// matches one of AllowedOriginPatterns or is listed in AllowedOrigins.
// A "*" entry in AllowedOrigins is ignored: credentials are always allowed,
// so every origin must be named.
type CORSConfig struct {
	AllowedOrigins        []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedOriginPatterns []string `yaml:"allowed_origin_patterns" mapstructure:"allowed_origin_patterns"`
	AllowedMethods        []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders        []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int `yaml:"max_age" mapstructure:"max_age"`
}

// ApplyDefaults fills the preflight headers.
func (c *CORSConfig) ApplyDefaults() {
	if len(c.AllowedOriginPatterns) == 0 {
		c.AllowedOriginPatterns = []string{`^https://[a-z0-9\-]+\.vercel\.app$`}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge == 0 {
		c.MaxAge = 600
	}
}

// Validate compiles the origin patterns.
func (c *CORSConfig) Validate() error {
	_, err := compilePatterns(c.AllowedOriginPatterns)
	return err
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

type originPolicy struct {
	exact    map[string]bool
	patterns []*regexp.Regexp
}

func newOriginPolicy(cfg CORSConfig) originPolicy {
	p := originPolicy{exact: make(map[string]bool)}
	for _, o := range cfg.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			p.exact[o] = true
		}
	}
	// Invalid patterns are rejected by Validate; here they are skipped.
	for _, s := range cfg.AllowedOriginPatterns {
		if re, err := regexp.Compile(s); err == nil {
			p.patterns = append(p.patterns, re)
		}
	}
	return p
}

func (p originPolicy) allowed(origin string) bool {
	if origin == "" {
		return false
	}
	for _, re := range p.patterns {
		if re.MatchString(origin) {
			return true
		}
	}
	return p.exact[origin]
}

// CORS answers preflight requests from allowed origins with 200 and adds
// the allow headers to every response for them. Requests from other
// origins pass through untouched.
func CORS(cfg CORSConfig) Middleware {
	policy := newOriginPolicy(cfg)
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !policy.allowed(origin) {
				next.ServeHTTP(w, r)
				return
			}
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CheckOrigin returns a websocket origin check using the same policy.
// Requests without an Origin header, and same-host requests, pass.
func CheckOrigin(cfg CORSConfig) func(*http.Request) bool {
	policy := newOriginPolicy(cfg)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
			return true
		}
		return policy.allowed(origin)
	}
}
