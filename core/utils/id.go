package utils

import (
	"fmt"

	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func GenerateID() string {
	id, err := gonanoid.Generate(idAlphabet, 7)
	if err != nil {
		return ""
	}
	return id
}

// StorageKey builds an object-store key for a shoot file:
// shoots/<shoot-id>/<slugged-name>-<short-id>.
func StorageKey(shootID, fileName string) string {
	return fmt.Sprintf("shoots/%s/%s-%s", shootID, slug.Make(fileName), GenerateID())
}
