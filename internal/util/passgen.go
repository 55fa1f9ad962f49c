package util

import (
	"crypto/rand"
	"errors"
)

// RandomBytes returns n cryptographically secure random bytes. Used for
// repository salts and file nonces (through crypto.RandomBytes) and as
// the underlying entropy source for GenPassword.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, errors.New("util: RandomBytes requires n > 0")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

const (
	upperAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlphabet  = "abcdefghijklmnopqrstuvwxyz"
	numberAlphabet = "1234567890"
	symbolAlphabet = "-=_+!@#$^&()?<>"
)

// PassgenOptions selects which character classes GenPassword draws from.
// At least one of Upper/Lower/Numbers/Symbols must be set, and Length
// must be positive, or GenPassword returns an empty string.
type PassgenOptions struct {
	Length  int
	Upper   bool
	Lower   bool
	Numbers bool
	Symbols bool
}

func (o PassgenOptions) alphabet() string {
	var a string
	if o.Upper {
		a += upperAlphabet
	}
	if o.Lower {
		a += lowerAlphabet
	}
	if o.Numbers {
		a += numberAlphabet
	}
	if o.Symbols {
		a += symbolAlphabet
	}
	return a
}

// GenPassword draws a uniformly random password of opts.Length from the
// character classes opts selects. It rejects biased draws instead of
// reducing modulo len(alphabet): each random byte is only accepted when
// it falls in the largest multiple of len(alphabet) that fits in a byte,
// so every character in the alphabet has exactly equal probability no
// matter how len(alphabet) divides 256.
func GenPassword(opts PassgenOptions) (string, error) {
	alphabet := opts.alphabet()
	if alphabet == "" || opts.Length <= 0 {
		return "", nil
	}

	limit := byte(256 - (256 % len(alphabet)))
	out := make([]byte, 0, opts.Length)
	for len(out) < opts.Length {
		draw, err := RandomBytes(opts.Length)
		if err != nil {
			return "", err
		}
		for _, b := range draw {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == opts.Length {
				break
			}
		}
	}
	return string(out), nil
}
