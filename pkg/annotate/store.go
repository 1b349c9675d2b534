package annotate

import "context"

// IImageStore turns an annotated JPEG into the reference returned to clients.
type IImageStore interface {
	Store(ctx context.Context, jpegData []byte) (string, error)
}

type inlineStore struct{}

// NewInlineStore embeds the image in the response as a data URI.
func NewInlineStore() IImageStore {
	return inlineStore{}
}

func (inlineStore) Store(_ context.Context, jpegData []byte) (string, error) {
	return DataURI(jpegData), nil
}
