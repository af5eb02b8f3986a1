package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes an account password with bcrypt.  The cost comes
// from BCRYPT_COST so environments can trade hashing time for
// hardness; the users.pwd column only ever stores the hash.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt hash.
// The comparison is constant time inside bcrypt; callers treat a
// mismatch the same as an unknown account.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
