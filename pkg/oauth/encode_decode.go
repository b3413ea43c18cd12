package oauthPKCE

import (
	"fmt"
	"strings"
)

// EncodeState binds the provider into the CSRF state so the callback can
// reject a state minted for another provider.
func EncodeState(uuid, provider string) string {
	return fmt.Sprintf("%s|%s", uuid, strings.ToLower(provider))
}

func DecodeState(state string) (uuid, provider string, err error) {
	parts := strings.Split(state, "|")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid state format")
	}
	return parts[0], parts[1], nil
}
