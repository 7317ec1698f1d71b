package filestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Client is the Drive-backed API implementation.
type Client struct {
	svc *drive.Service
}

// NewClient builds a file-store client on the session credential.
func NewClient(ctx context.Context, source oauth2.TokenSource) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// FindFolder implements API.
func (c *Client) FindFolder(ctx context.Context, name string) (*Folder, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQueryValue(name), folderMimeType)

	resp, err := c.svc.Files.List().
		Q(query).
		Fields("files(id, name, webViewLink)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("find folder %q: %w", name, err)
	}

	if len(resp.Files) == 0 {
		return nil, nil
	}

	// The store may hold several folders with the same name; pick the
	// first by store-defined order, deterministically.
	f := resp.Files[0]
	return &Folder{ID: f.Id, Name: f.Name, Link: f.WebViewLink}, nil
}

// CreateFolder implements API.
func (c *Client) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	f, err := c.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}).Fields("id, name, webViewLink").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create folder %q: %w", name, err)
	}
	return &Folder{ID: f.Id, Name: f.Name, Link: f.WebViewLink}, nil
}

// UploadPDF implements API.
func (c *Client) UploadPDF(ctx context.Context, folderID, filename string, data []byte) (string, error) {
	f, err := c.svc.Files.Create(&drive.File{
		Name:    filename,
		Parents: []string{folderID},
	}).Media(bytes.NewReader(data)).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", filename, err)
	}
	return f.WebViewLink, nil
}

// escapeQueryValue escapes single quotes and backslashes for the store's
// query language.
func escapeQueryValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

var _ API = (*Client)(nil)
