package models

// KeyData holds the server's token signing key. The table is a singleton:
// exactly one row may exist, created lazily on first server start.
type KeyData struct {
	SigningKey []byte
}
