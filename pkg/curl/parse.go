package curl

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"

	"github.com/cowt/har-viewer/pkg/har"
)

// Parse errors.
var (
	ErrNotCurl = errors.New("not a valid cURL command")
	ErrNoURL   = errors.New("no URL found in cURL command")
)

// flagsWithArgs are flags Parse ignores but whose argument must be skipped.
var flagsWithArgs = map[string]bool{
	"-o": true, "--output": true,
	"-c": true, "--cookie-jar": true,
	"-T": true, "--upload-file": true,
	"-m": true, "--max-time": true,
	"--connect-timeout": true,
	"-w":                true, "--write-out": true,
}

// Parse reads a curl command line, such as one produced by FromRequest, back
// into a request. Line continuations and shell quoting are honored.
func Parse(cmd string) (*har.Request, error) {
	tokens := tokenize(strings.TrimSpace(cmd))
	if len(tokens) == 0 || tokens[0] != "curl" {
		return nil, ErrNotCurl
	}
	tokens = tokens[1:]

	req := &har.Request{Headers: []har.Header{}}
	var (
		method  string
		body    []string
		getMode bool
		user    string
	)

	for idx := 0; idx < len(tokens); idx++ {
		token := tokens[idx]
		next := func() (string, bool) {
			if idx+1 < len(tokens) {
				idx++
				return tokens[idx], true
			}
			return "", false
		}

		switch token {
		case "-X", "--request":
			if v, ok := next(); ok {
				method = strings.ToUpper(v)
			}
		case "-H", "--header":
			if v, ok := next(); ok {
				if name, value, found := strings.Cut(v, ":"); found {
					req.Headers = append(req.Headers, har.Header{
						Name:  strings.TrimSpace(name),
						Value: strings.TrimSpace(value),
					})
				}
			}
		case "-d", "--data", "--data-raw", "--data-binary", "--data-urlencode", "--data-ascii":
			if v, ok := next(); ok {
				body = append(body, v)
			}
		case "--json":
			if v, ok := next(); ok {
				body = append(body, v)
				if req.ContentType() == "" {
					req.Headers = append(req.Headers, har.Header{Name: "Content-Type", Value: "application/json"})
				}
			}
		case "-A", "--user-agent":
			if v, ok := next(); ok {
				req.Headers = append(req.Headers, har.Header{Name: "User-Agent", Value: v})
			}
		case "-e", "--referer":
			if v, ok := next(); ok {
				req.Headers = append(req.Headers, har.Header{Name: "Referer", Value: v})
			}
		case "-b", "--cookie":
			if v, ok := next(); ok {
				req.Headers = append(req.Headers, har.Header{Name: "Cookie", Value: v})
			}
		case "-u", "--user":
			if v, ok := next(); ok {
				user = v
			}
		case "-G", "--get":
			getMode = true
		case "-I", "--head":
			method = "HEAD"
		default:
			if flagsWithArgs[token] {
				_, _ = next()
				continue
			}
			if !strings.HasPrefix(token, "-") && req.URL == "" {
				req.URL = token
			}
		}
	}

	if req.URL == "" {
		return nil, ErrNoURL
	}

	if user != "" {
		encoded := base64.StdEncoding.EncodeToString([]byte(user))
		req.Headers = append(req.Headers, har.Header{Name: "Authorization", Value: "Basic " + encoded})
	}

	joined := strings.Join(body, "&")
	switch {
	case getMode && len(body) > 0:
		values, err := url.ParseQuery(joined)
		if err == nil {
			for _, pair := range strings.Split(joined, "&") {
				name, _, _ := strings.Cut(pair, "=")
				if v, ok := values[name]; ok && len(v) > 0 {
					req.QueryString = append(req.QueryString, har.Query{Name: name, Value: v[0]})
					values[name] = v[1:]
				}
			}
		}
	case len(body) > 0:
		req.PostData = &har.PostData{MimeType: req.ContentType(), Text: joined}
	}

	switch {
	case method != "":
		req.Method = method
	case req.PostData != nil:
		req.Method = "POST"
	default:
		req.Method = "GET"
	}

	return req, nil
}

// tokenize splits a shell command line into words using POSIX quoting rules:
// single quotes are literal, double quotes honor backslash escapes, and a
// backslash-newline outside quotes is a line continuation.
func tokenize(cmd string) []string {
	var tokens []string
	var current strings.Builder
	inWord := false
	runes := []rune(cmd)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\':
			if i+1 >= len(runes) {
				current.WriteRune(r)
				inWord = true
				continue
			}
			i++
			if runes[i] == '\n' {
				continue
			}
			current.WriteRune(runes[i])
			inWord = true
		case r == '\'':
			inWord = true
			for i++; i < len(runes) && runes[i] != '\''; i++ {
				current.WriteRune(runes[i])
			}
		case r == '"':
			inWord = true
			for i++; i < len(runes) && runes[i] != '"'; i++ {
				if runes[i] == '\\' && i+1 < len(runes) && strings.ContainsRune("$`\"\\\n", runes[i+1]) {
					i++
					if runes[i] == '\n' {
						continue
					}
				}
				current.WriteRune(runes[i])
			}
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inWord {
				tokens = append(tokens, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if inWord {
		tokens = append(tokens, current.String())
	}
	return tokens
}
