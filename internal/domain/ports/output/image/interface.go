package image_codec

// Codec turns untrusted image bytes into canonical PNG bytes.
type Codec interface {
	Normalize(data []byte) ([]byte, error)
}
