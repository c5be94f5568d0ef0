package meetlink

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	baseURL  = "https://meet.google.com"
)

var segmentLengths = []int{3, 4, 3}

// GenerateCode produces a synthetic meeting code in the familiar
// three-group shape, e.g. "abc-defg-hij".
func GenerateCode() string {
	segments := make([]string, 0, len(segmentLengths))

	for _, length := range segmentLengths {
		var builder strings.Builder

		for i := 0; i < length; i++ {
			idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
			if err != nil {
				log.Error().Err(err).Msg("failed to read random index for meet code")

				idx = big.NewInt(0)
			}

			builder.WriteByte(alphabet[idx.Int64()])
		}

		segments = append(segments, builder.String())
	}

	return strings.Join(segments, "-")
}

// GenerateLink wraps GenerateCode into a full, valid-looking meeting URL.
// Creating a real conference would need the provider's API and credentials.
func GenerateLink() string {
	return fmt.Sprintf("%s/%s", baseURL, GenerateCode())
}
