package audit

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
)

// chunkSize bounds the memory used to hash one file.
const chunkSize = 1 << 20

// HashFile returns the hex SHA-1 of the file at path, read in fixed-size
// chunks.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return HashReader(f)
}

// HashReader returns the hex SHA-1 of everything r yields.
func HashReader(r io.Reader) (string, error) {
	h := sha1.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, onlyReader{r}, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// onlyReader hides WriterTo/ReaderFrom so io.CopyBuffer really streams
// through buf instead of letting *os.File pick its own strategy.
type onlyReader struct{ io.Reader }
