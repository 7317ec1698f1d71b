package mailbox

import "context"

// Attachment describes one attachment part of a message.
type Attachment struct {
	// Filename is the original attachment name; not guaranteed unique.
	Filename string

	// ID is the store-assigned attachment identifier, valid together with
	// the message ID.
	ID string
}

// Message is the slice of a mail message the pipeline consumes.
type Message struct {
	ID string

	// Date is the raw Date header value.
	Date string

	// PDFAttachments lists the attachment parts whose filename ends in
	// ".pdf" (case-insensitive), in part order.
	PDFAttachments []Attachment
}

// Service is the mailbox surface consumed by the pipeline.
// This interface enables mocking and testing of mailbox functionality.
type Service interface {
	// ListMessageIDs returns the ids of all messages matching the query,
	// paging through every result.
	ListMessageIDs(ctx context.Context, query string) ([]string, error)

	// GetMessage fetches one full message.
	GetMessage(ctx context.Context, id string) (*Message, error)

	// GetAttachment fetches the decoded bytes of one attachment.
	GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error)
}
