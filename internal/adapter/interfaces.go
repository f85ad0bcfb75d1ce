// Package adapter holds the outbound collaborators of the application:
// photo storage backends (local disk or a remote image host) and the
// password-reset email delivery client. Each collaborator is modeled as a
// small capability interface selected once at startup from configuration.
package adapter

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// PhotoUpload is an uploaded photo held in memory, decoded from a
// multipart form part.
type PhotoUpload struct {
	// Filename is the client-provided file name, used only as a naming
	// hint; stored names are always server-generated.
	Filename string

	// ContentType is the MIME type declared by the client.
	ContentType string

	// Data is the raw file content.
	Data []byte
}

// PhotoStore persists an uploaded photo and resolves it to a servable URL.
//
// Implementations must be all-or-nothing: either a URL to a fully written
// photo is returned, or an error — never a reference to a partial write.
type PhotoStore interface {
	Store(ctx context.Context, upload PhotoUpload) (string, error)
}

// Mailer delivers password-reset emails.
type Mailer interface {
	// SendResetEmail sends a reset link to the given address. A delivery
	// failure is wrapped in ErrSendingEmail so callers can classify it as
	// a dependency failure rather than a lookup failure.
	SendResetEmail(ctx context.Context, to, resetLink string) error
}
