// Package images validates, encodes and loads the images attached to
// ingredients and recipes.
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/filex"
	"github.com/dmitrijs2005/macrobook/internal/netx"
)

// MaxSize is the largest image the API accepts, in bytes.
const MaxSize = 500 * 1024

var ErrTooLarge = fmt.Errorf("%w: image exceeds 500 KB", models.ErrValidation)

// CheckSize fails with ErrTooLarge when n exceeds MaxSize.
func CheckSize(n int64) error {
	if n > MaxSize {
		return fmt.Errorf("%w (%d bytes)", ErrTooLarge, n)
	}
	return nil
}

// Encode checks the size of data and returns it base64 encoded.
func Encode(data []byte) (string, error) {
	if err := CheckSize(int64(len(data))); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: image is empty", models.ErrValidation)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Loader reads image bytes from a local path, an http(s) URL or an
// s3://bucket/key reference.
type Loader struct {
	S3   S3Config
	HTTP *http.Client
}

// Load reads ref, failing with ErrTooLarge before transferring data when
// the source reports a size above MaxSize.
func (l *Loader) Load(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		return l.loadS3(ctx, ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		data, err := netx.DownloadLimited(ctx, l.HTTP, ref, MaxSize)
		if errors.Is(err, netx.ErrTooLarge) {
			return nil, fmt.Errorf("%s: %w", ref, ErrTooLarge)
		}
		if err != nil {
			return nil, fmt.Errorf("download image: %w", err)
		}
		return data, nil
	default:
		data, err := filex.ReadLimited(ref, MaxSize)
		if errors.Is(err, filex.ErrTooLarge) {
			return nil, fmt.Errorf("%s: %w", ref, ErrTooLarge)
		}
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return data, nil
	}
}
