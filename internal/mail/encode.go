package mail

import (
	"encoding/base64"
	"mime"
	"strings"
)

// encodeSubject RFC2047-encodes non-ASCII subjects.
func encodeSubject(subject string) string {
	return mime.BEncoding.Encode("UTF-8", subject)
}

// base64Wrap encodes the body and folds it at 76 columns per RFC 2045.
func base64Wrap(body string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(body))

	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")
	return b.String()
}
