package utils

import (
	"fmt"
	"io"
	"os"
)

// A base64 private JWK for a 4096 bit key is well under this
const MaxSecretFileSize = 64 * 1024

// ReadSecretFile reads a small regular file holding key material.
func ReadSecretFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}

	if info.Size() > MaxSecretFileSize {
		return "", fmt.Errorf("%s is larger than %d bytes", path, MaxSecretFileSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxSecretFileSize))
	if err != nil {
		return "", err
	}

	return string(data), nil
}
