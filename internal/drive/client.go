package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"docscan/internal/apperr"
	"docscan/internal/config"
	"docscan/internal/model"
)

// Client is a Drive v3 REST client scoped to read-only browsing of a
// document folder. One attempt per call; transport failures surface as
// storage-kind errors.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	token           string
	defaultFolderID string
	logger          *slog.Logger
}

var _ Source = (*Client)(nil)

// NewClient builds a Drive source from configuration.
func NewClient(cfg config.DriveConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:      httpClient,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		token:           cfg.AccessToken,
		defaultFolderID: cfg.DefaultFolderID,
		logger:          logger,
	}
}

type fileList struct {
	Files []model.File `json:"files"`
}

// errNotFound marks a 404 from the source API so callers can surface a
// not-found error instead of a generic storage failure.
var errNotFound = errors.New("not found")

// ListChildren lists the files directly under folderID, ordered by name.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]model.File, error) {
	if folderID == "" {
		folderID = c.defaultFolderID
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("'%s' in parents", folderID))
	q.Set("fields", "nextPageToken, files(id, name, mimeType, size)")
	q.Set("pageSize", "10")
	q.Set("orderBy", "name")

	body, _, err := c.get(ctx, "/files?"+q.Encode())
	if errors.Is(err, errNotFound) {
		return nil, apperr.NotFound("folder not found")
	}
	if err != nil {
		return nil, apperr.Storage("failed to get directory content", err)
	}

	var list fileList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, apperr.Storage("failed to decode directory content", err)
	}
	c.logger.Info("drive.list_children", "folder_id", folderID, "files", len(list.Files))
	return list.Files, nil
}

// GetMetadata fetches id, name, mimeType and size for a file.
func (c *Client) GetMetadata(ctx context.Context, fileID string) (*model.File, error) {
	q := url.Values{}
	q.Set("fields", "id, name, mimeType, size")

	body, _, err := c.get(ctx, "/files/"+url.PathEscape(fileID)+"?"+q.Encode())
	if errors.Is(err, errNotFound) {
		return nil, apperr.NotFound("file not found")
	}
	if err != nil {
		return nil, apperr.Storage("failed to fetch file metadata", err)
	}

	var f model.File
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, apperr.Storage("failed to decode file metadata", err)
	}
	return &f, nil
}

// GetContent downloads the raw bytes of a file. The returned File carries no
// name; the media type comes from the response Content-Type header.
func (c *Client) GetContent(ctx context.Context, fileID string) (*model.File, error) {
	body, header, err := c.get(ctx, "/files/"+url.PathEscape(fileID)+"?alt=media")
	if errors.Is(err, errNotFound) {
		return nil, apperr.NotFound("file not found")
	}
	if err != nil {
		return nil, apperr.Storage("failed to fetch file content", err)
	}
	if len(body) == 0 {
		return nil, apperr.Storage("failed to fetch file content", nil)
	}

	return &model.File{
		ID:       fileID,
		MimeType: header.Get("Content-Type"),
		Data:     body,
		Size:     header.Get("Content-Length"),
	}, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, errNotFound
	}
	if resp.StatusCode/100 != 2 {
		return nil, nil, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return body, resp.Header, nil
}
