// Package auth implements the stateless bearer token scheme: a keyed MAC
// over the canonical identity string "{user_id}:{email}". Tokens carry no
// expiry and no randomness; the same identity always yields the same token
// for a fixed secret.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/egetrack/egetrack/internal/common"
)

// Issue signs the identity (userID, email) and returns a token of the form
// "{user_id}:{email}:{hex_signature}".
func Issue(userID int64, email string, secret []byte) string {
	data := fmt.Sprintf("%d:%s", userID, email)
	return data + ":" + sign(data, secret)
}

// Verify checks a client-presented token and returns the identity it claims.
// It fails closed with common.ErrInvalidToken on any malformed structure
// (wrong field count, non-integer user id) or on a signature mismatch.
// The signature comparison is constant-time.
func Verify(token string, secret []byte) (int64, string, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return 0, "", common.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", common.ErrInvalidToken
	}
	email := parts[1]

	expected := sign(parts[0]+":"+email, secret)
	if !hmac.Equal([]byte(parts[2]), []byte(expected)) {
		return 0, "", common.ErrInvalidToken
	}

	return userID, email, nil
}

func sign(data string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}
