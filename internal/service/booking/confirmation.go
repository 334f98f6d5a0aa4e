package booking

import (
	"crypto/rand"
	"fmt"
)

const codePrefix = "REEF"

// codeAlphabet leaves out 0/O and 1/I so codes survive being read aloud
// over the phone.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// GenerateConfirmationCode returns a human-readable booking code like
// REEF-K7KQ2M.
func GenerateConfirmationCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return fmt.Sprintf("%s-%s", codePrefix, buf), nil
}
