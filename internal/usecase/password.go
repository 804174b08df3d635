package usecase

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks password against a stored bcrypt hash.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// dummyHash is compared against when the user does not exist so that unknown
// emails take as long as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("orderpay-dummy-password"), bcrypt.DefaultCost)
