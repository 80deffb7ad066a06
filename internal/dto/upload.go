package dto

import (
	"encoding/json"
	"strings"
)

// UploadToken is the opaque result handed back by the profile-image upload
// endpoint. New-user uploads carry the provisional id and temp path the claim
// step needs; authenticated uploads carry only the final URL.
type UploadToken struct {
	URL    string  `json:"url"`
	TempID *string `json:"tempId"`
	Path   string  `json:"path"`
}

// Encode serializes the token to the wire form embedded in imageUrl fields.
func (t UploadToken) Encode() (string, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ParseImageURL interprets an imageUrl field, which is either a plain URL or
// a serialized UploadToken. A malformed token keeps the raw string as the URL.
func ParseImageURL(value string) UploadToken {
	if strings.HasPrefix(value, "{") {
		var token UploadToken
		if err := json.Unmarshal([]byte(value), &token); err == nil {
			return token
		}
	}
	return UploadToken{URL: value}
}
