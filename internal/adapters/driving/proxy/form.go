package proxy

import (
	"fmt"
	"mime"
	"net/url"
	"strings"
)

const formMediaType = "application/x-www-form-urlencoded"

// formPair is one key/value field of a form body in wire order.
type formPair struct {
	key   string
	value string
}

// isForm reports whether the Content-Type names a URL-encoded form.
func isForm(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == formMediaType
}

// parseForm decodes a URL-encoded body keeping field order and repeats.
// url.ParseQuery is not used because its map result loses both.
func parseForm(body string) ([]formPair, error) {
	var pairs []formPair
	for _, field := range strings.Split(body, "&") {
		if field == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(field, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("decoding form key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("decoding form value for %q: %w", key, err)
		}
		pairs = append(pairs, formPair{key: key, value: value})
	}
	return pairs, nil
}

// encodeForm is the inverse of parseForm. Repeated keys stay repeated.
func encodeForm(pairs []formPair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// reencodeForm normalises a form body into canonical wire encoding.
func reencodeForm(body []byte) ([]byte, error) {
	pairs, err := parseForm(string(body))
	if err != nil {
		return nil, err
	}
	return []byte(encodeForm(pairs)), nil
}
