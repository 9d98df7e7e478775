package cmd

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastionzero/commutative"
	"github.com/pkg/errors"
)

func readKeyFile(path string, opts []commutative.Option) (*commutative.Cipher, error) {
	if path == "" {
		return nil, errors.New("a key file is required (use --key)")
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read key file %s", path)
	}
	c, err := commutative.DecodePEM(string(data), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load key file %s", path)
	}
	return c, nil
}

func writeKeyFile(path string, c *commutative.Cipher) error {
	encoded, err := c.EncodePEM()
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err = os.Stdout.WriteString(encoded)
		return err
	}
	if err := os.WriteFile(filepath.Clean(path), []byte(encoded), 0600); err != nil {
		return errors.Wrapf(err, "failed to write key file %s", path)
	}
	return nil
}

// accepts an optional 0x prefix
func decodeHexArg(name, arg string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(arg), "0x"))
	if err != nil {
		return nil, errors.Wrapf(err, "%s is not valid hex", name)
	}
	if len(b) == 0 {
		return nil, errors.Errorf("%s is empty", name)
	}
	return b, nil
}
