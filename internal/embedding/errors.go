package embedding

import "errors"

// ErrUnavailable indicates the embedding provider could not be reached or
// rejected the request after retries. Errors returned by GenerateEmbeddings
// wrap this sentinel together with the underlying cause.
var ErrUnavailable = errors.New("embedding provider unavailable")
