package drill

import "context"

// UserResolver maps an opaque bearer token to a user identity. It is the
// narrow boundary to the auth collaborator; this module never inspects
// token contents itself.
type UserResolver interface {
	Resolve(ctx context.Context, token string) (userID string, err error)
}

// Transcriber converts candidate audio into text. It is best-effort and
// never fails its caller: an unconfigured or broken backend yields a fixed
// placeholder string instead of an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) string
}
