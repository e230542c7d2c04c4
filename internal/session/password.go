package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordLen      = 4
	PasswordAlphabet = "0123456789ABCDEF"
)

// GeneratePassword returns a random join password.
func GeneratePassword() (string, error) {
	var sb strings.Builder
	base := big.NewInt(int64(len(PasswordAlphabet)))
	for i := 0; i < PasswordLen; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		sb.WriteByte(PasswordAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizePassword makes passwords case-insensitive.
func NormalizePassword(pw string) string {
	return strings.ToUpper(strings.TrimSpace(pw))
}

// validPassword reports whether pw could have been generated.
func validPassword(pw string) bool {
	if len(pw) != PasswordLen {
		return false
	}
	for i := 0; i < len(pw); i++ {
		if !strings.ContainsRune(PasswordAlphabet, rune(pw[i])) {
			return false
		}
	}
	return true
}

func hashPassword(pw string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(NormalizePassword(pw)), cost)
}

func checkPassword(hash []byte, pw string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(NormalizePassword(pw))) == nil
}
