package storage

import "io"

// BlobStore is the durable home for captured images, panorama composites
// and detection crops. Paths returned by PutBlob are stable references
// that survive the session that produced them.
type BlobStore interface {
	PutBlob(path string, data []byte) (string, error)
	GetURL(path string) string
	Open(path string) (io.ReadSeekCloser, error)
	Delete(path string) error
}
