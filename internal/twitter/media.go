// ABOUTME: v1.1 chunked media upload and alt-text metadata.
// ABOUTME: Polls STATUS until async video/gif processing completes.
package twitter

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/2389-research/twitter-mcp/internal/models"
)

const (
	uploadPath      = "/1.1/media/upload.json"
	metadataPath    = "/1.1/media/metadata/create.json"
	uploadChunkSize = 4 << 20
)

// statusPollInterval is the wait between STATUS checks when the API gives no hint.
var statusPollInterval = 2 * time.Second

// SupportedMediaTypes lists the MIME types accepted by UploadMedia.
var SupportedMediaTypes = []string{"image/jpeg", "image/png", "image/gif", "video/mp4"}

type processingInfo struct {
	State          string `json:"state"`
	CheckAfterSecs int    `json:"check_after_secs"`
	Error          *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type uploadResponse struct {
	models.Media
	ProcessingInfo *processingInfo `json:"processing_info,omitempty"`
}

func mediaCategory(mediaType string) string {
	switch {
	case mediaType == "image/gif":
		return "tweet_gif"
	case strings.HasPrefix(mediaType, "video/"):
		return "tweet_video"
	default:
		return "tweet_image"
	}
}

// UploadMedia uploads a local file with the chunked v1.1 upload flow
// (INIT, APPEND, FINALIZE) and waits for async processing to finish.
func (c *Client) UploadMedia(ctx context.Context, path, mediaType string) (*models.Media, error) {
	if !slices.Contains(SupportedMediaTypes, mediaType) {
		return nil, fmt.Errorf("unsupported media type %q (supported: %s)", mediaType, strings.Join(SupportedMediaTypes, ", "))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read media file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media file %s is empty", path)
	}

	var init uploadResponse
	err = c.postForm(ctx, url.Values{
		"command":        {"INIT"},
		"total_bytes":    {strconv.Itoa(len(data))},
		"media_type":     {mediaType},
		"media_category": {mediaCategory(mediaType)},
	}, &init)
	if err != nil {
		return nil, fmt.Errorf("media upload INIT: %w", err)
	}
	mediaID := init.MediaIDString
	if mediaID == "" {
		mediaID = strconv.FormatInt(init.MediaID, 10)
	}

	for segment, offset := 0, 0; offset < len(data); segment, offset = segment+1, offset+uploadChunkSize {
		end := min(offset+uploadChunkSize, len(data))
		if err := c.appendChunk(ctx, mediaID, segment, filepath.Base(path), data[offset:end]); err != nil {
			return nil, fmt.Errorf("media upload APPEND segment %d: %w", segment, err)
		}
	}

	var final uploadResponse
	if err := c.postForm(ctx, url.Values{"command": {"FINALIZE"}, "media_id": {mediaID}}, &final); err != nil {
		return nil, fmt.Errorf("media upload FINALIZE: %w", err)
	}
	if final.MediaIDString == "" {
		final.MediaIDString = mediaID
	}

	if err := c.awaitProcessing(ctx, mediaID, final.ProcessingInfo); err != nil {
		return nil, err
	}
	return &final.Media, nil
}

func (c *Client) awaitProcessing(ctx context.Context, mediaID string, info *processingInfo) error {
	for info != nil {
		switch info.State {
		case "succeeded", "":
			return nil
		case "failed":
			msg := "unknown error"
			if info.Error != nil && info.Error.Message != "" {
				msg = info.Error.Message
			}
			return fmt.Errorf("media processing failed: %s", msg)
		}

		wait := statusPollInterval
		if info.CheckAfterSecs > 0 {
			wait = time.Duration(info.CheckAfterSecs) * time.Second
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		q := url.Values{"command": {"STATUS"}, "media_id": {mediaID}}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uploadURL+uploadPath+"?"+q.Encode(), nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		var status uploadResponse
		if err := c.send(req, &status); err != nil {
			return fmt.Errorf("media upload STATUS: %w", err)
		}
		info = status.ProcessingInfo
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+uploadPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, out)
}

func (c *Client) appendChunk(ctx context.Context, mediaID string, segment int, filename string, chunk []byte) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("command", "APPEND")
	_ = w.WriteField("media_id", mediaID)
	_ = w.WriteField("segment_index", strconv.Itoa(segment))
	part, err := w.CreateFormFile("media", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(chunk); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+uploadPath, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, nil)
}

type altTextPayload struct {
	MediaID string `json:"media_id"`
	AltText struct {
		Text string `json:"text"`
	} `json:"alt_text"`
}

// SetMediaAltText attaches accessibility text to uploaded media.
func (c *Client) SetMediaAltText(ctx context.Context, mediaID, text string) error {
	payload := altTextPayload{MediaID: mediaID}
	payload.AltText.Text = text
	return c.doJSON(ctx, http.MethodPost, c.uploadURL+metadataPath, payload, nil)
}
