package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

const codeDigits = 6

var codeSpace = big.NewInt(1_000_000)

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}

// digestCode keys the digest with the challenge id so equal codes never share a digest.
func digestCode(secret []byte, challengeID, code string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(challengeID))
	mac.Write([]byte{0})
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

func codeMatches(secret []byte, challengeID, code, digest string) bool {
	want, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}
	got, _ := hex.DecodeString(digestCode(secret, challengeID, code))
	return hmac.Equal(got, want)
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
