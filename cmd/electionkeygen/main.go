package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const secretSize = 32

// Prints a fresh encryption secret for every election ID given, as YAML, for the election administration to store.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go <election_id> [<election_id> ...]")
		return
	}

	secrets, err := generateSecrets(os.Args[1:])
	if err != nil {
		log.Fatalln(err)
	}

	out, err := yaml.Marshal(secrets)
	if err != nil {
		log.Fatalln(errors.Wrap(err, "cannot serialize secrets"))
	}

	fmt.Print(string(out))
}

func generateSecrets(electionIDs []string) (map[uint64]string, error) {
	secrets := make(map[uint64]string, len(electionIDs))
	for _, idStr := range electionIDs {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid election ID '%v'", idStr)
		}

		secret := make([]byte, secretSize)
		if _, err := io.ReadFull(rand.Reader, secret); err != nil {
			return nil, errors.Wrap(err, "cannot read random bytes")
		}

		secrets[id] = base64.StdEncoding.EncodeToString(secret)
	}

	return secrets, nil
}
