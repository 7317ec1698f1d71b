package mailbox

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// gmailUser addresses the mailbox of the authorized user.
const gmailUser = "me"

// Client is the Gmail-backed Service implementation.
type Client struct {
	svc *gmail.Service

	// limit caps how many message ids one listing returns; zero means
	// page through everything.
	limit int
}

// NewClient builds a mailbox client on the session credential.
func NewClient(ctx context.Context, source oauth2.TokenSource, limit int) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &Client{svc: svc, limit: limit}, nil
}

// ListMessageIDs implements Service. It follows NextPageToken until the
// store is exhausted (or the configured cap is reached) rather than
// truncating at the default page size.
func (c *Client) ListMessageIDs(ctx context.Context, query string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		call := c.svc.Users.Messages.List(gmailUser).Q(query).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}

		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
			if c.limit > 0 && len(ids) >= c.limit {
				return ids, nil
			}
		}

		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken
	}
}

// GetMessage implements Service.
func (c *Client) GetMessage(ctx context.Context, id string) (*Message, error) {
	msg, err := c.svc.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}

	out := &Message{ID: id}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			if strings.EqualFold(h.Name, "Date") {
				out.Date = h.Value
				break
			}
		}
		collectPDFParts(msg.Payload, &out.PDFAttachments)
	}
	return out, nil
}

// collectPDFParts walks the part tree; multipart messages nest attachments
// arbitrarily deep.
func collectPDFParts(part *gmail.MessagePart, acc *[]Attachment) {
	if part == nil {
		return
	}
	if strings.HasSuffix(strings.ToLower(part.Filename), ".pdf") &&
		part.Body != nil && part.Body.AttachmentId != "" {
		*acc = append(*acc, Attachment{Filename: part.Filename, ID: part.Body.AttachmentId})
	}
	for _, p := range part.Parts {
		collectPDFParts(p, acc)
	}
}

// GetAttachment implements Service.
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	att, err := c.svc.Users.Messages.Attachments.Get(gmailUser, messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get attachment %s of message %s: %w", attachmentID, messageID, err)
	}

	data, err := decodeBase64URL(att.Data)
	if err != nil {
		return nil, fmt.Errorf("decode attachment %s of message %s: %w", attachmentID, messageID, err)
	}
	return data, nil
}

// decodeBase64URL handles both padded and unpadded web-safe base64; the API
// is inconsistent about padding.
func decodeBase64URL(s string) ([]byte, error) {
	if data, err := base64.URLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}

var _ Service = (*Client)(nil)
