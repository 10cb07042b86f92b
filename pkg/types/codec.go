package types

// PageCodec serializes pages to and from a document representation.
type PageCodec interface {
	// EncodePage renders p as a document.
	EncodePage(p *Page) ([]byte, error)

	// DecodePage builds a page from a document. When id is empty the id
	// recorded in the document is used. Returns an error wrapping
	// ErrInvalidDocument when data is not a page document.
	DecodePage(id string, data []byte, defaultFormatID string) (*Page, error)
}
