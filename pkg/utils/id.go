package utils

import "github.com/google/uuid"

// GenerateID returns a random identifier with the given prefix, e.g. "conn_<uuid>".
func GenerateID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "_" + uuid.NewString()
}
