// Package objectstore implements the GCS-backed ObjectStore: upload-by-name
// and list-by-prefix with chronological ordering derived from the blob's
// logical filename timestamp, falling back to the bucket's own creation
// timestamp when that parse fails.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"gridwatch/internal/utils"
)

// Store uploads and lists screenshot blobs in a single GCS bucket.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// New builds a Store from the GCS_CREDENTIALS_PATH / GCS_BUCKET_NAME
// contract the pipeline's external interface describes.
func New(ctx context.Context, credentialsPath, bucketName string) (*Store, error) {
	if credentialsPath == "" || bucketName == "" {
		return nil, fmt.Errorf("objectstore: GCS_CREDENTIALS_PATH and GCS_BUCKET_NAME must both be set")
	}
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("objectstore: new client: %w", err)
	}
	return &Store{client: client, bucket: client.Bucket(bucketName)}, nil
}

// Close releases the underlying GCS client.
func (s *Store) Close() error { return s.client.Close() }

// Upload copies the local file at localPath to blobKey in the bucket.
func (s *Store) Upload(ctx context.Context, localPath, blobKey string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("objectstore: open %s: %w", localPath, err)
	}
	defer f.Close()

	w := s.bucket.Object(blobKey).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("objectstore: upload %s: %w", blobKey, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("objectstore: finalize upload %s: %w", blobKey, err)
	}
	return nil
}

type blobRef struct {
	name      string
	publicURL string
	timestamp time.Time
}

// RecentScreenshotURLs lists every blob under screenshots/{streamID}-,
// orders them by the logical timestamp embedded in the filename (falling
// back to GCS creation time on parse failure), takes the `count` most
// recent, then re-sorts ascending so grid composition runs oldest→newest.
func (s *Store) RecentScreenshotURLs(ctx context.Context, streamID string, count int) ([]string, error) {
	prefix := fmt.Sprintf("screenshots/%s-", streamID)
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	var blobs []blobRef
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("objectstore: list %s: %w", prefix, err)
		}
		blobs = append(blobs, blobRef{
			name:      attrs.Name,
			publicURL: publicURL(attrs.Bucket, attrs.Name),
			timestamp: logicalTimestamp(attrs.Name, attrs.Created),
		})
	}

	sort.SliceStable(blobs, func(i, j int) bool { return blobs[i].timestamp.After(blobs[j].timestamp) })
	if len(blobs) > count {
		blobs = blobs[:count]
	}
	sort.SliceStable(blobs, func(i, j int) bool { return blobs[i].timestamp.Before(blobs[j].timestamp) })

	urls := make([]string, len(blobs))
	for i, b := range blobs {
		urls[i] = b.publicURL
	}
	return urls, nil
}

// blobTimestampWidth is the fixed width of the YY-MM-DD--HH--MM--SS suffix
// BlobTimestamp produces, used to locate it regardless of how many '-'
// appear earlier in the blob name (the sanitized stream name may itself
// contain runs of '-').
var blobTimestampWidth = len(utils.BlobTimestamp(time.Time{}))

// logicalTimestamp extracts the trailing YY-MM-DD--HH--MM--SS component of
// the blob's basename (after {streamID}-{sanitizedName}-). On parse failure
// it falls back to the backend's creation timestamp, per the ObjectStore
// contract.
func logicalTimestamp(blobName string, created time.Time) time.Time {
	base := filepath.Base(blobName)
	withoutExt := strings.TrimSuffix(base, filepath.Ext(base))
	if len(withoutExt) < blobTimestampWidth {
		return created
	}
	rest := withoutExt[len(withoutExt)-blobTimestampWidth:]
	t, err := utils.ParseBlobTimestamp(rest)
	if err != nil {
		return created
	}
	return t
}

func publicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}
