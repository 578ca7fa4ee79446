package detect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/ovasilenko/roomproof/internal/storage"
)

// HTTPDetector calls a remote object-detection capability and crops the
// reported bounding regions locally. Each crop is written to the blob
// store before the batch is returned.
type HTTPDetector struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	blobs      storage.BlobStore
}

func NewHTTPDetector(endpoint, apiKey string, blobs storage.BlobStore) *HTTPDetector {
	return &HTTPDetector{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		blobs: blobs,
	}
}

type detectRequest struct {
	Image imageContent `json:"image"`
}

type imageContent struct {
	Content string `json:"content"`
}

type detectResponse struct {
	Detections []detection `json:"detections"`
	Error      *apiError   `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type detection struct {
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Box        boundingBox `json:"box"`
}

type boundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (c *HTTPDetector) Detect(ctx context.Context, imageData []byte) ([]Object, error) {
	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding source image: %v", ErrDetectionFailed, err)
	}

	reqBody := detectRequest{
		Image: imageContent{
			Content: base64.StdEncoding.EncodeToString(imageData),
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", ErrDetectionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrDetectionFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetectionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrDetectionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: detector returned status %d", ErrDetectionFailed, resp.StatusCode)
	}

	var detectResp detectResponse
	if err := json.Unmarshal(body, &detectResp); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling response: %v", ErrDetectionFailed, err)
	}

	if detectResp.Error != nil {
		return nil, fmt.Errorf("%w: detector error: %s", ErrDetectionFailed, detectResp.Error.Message)
	}

	objects := make([]Object, 0, len(detectResp.Detections))
	for i, det := range detectResp.Detections {
		region := image.Rect(det.Box.X, det.Box.Y, det.Box.X+det.Box.Width, det.Box.Y+det.Box.Height)
		region = region.Intersect(src.Bounds())
		if region.Empty() {
			continue
		}

		cropped := imaging.Crop(src, region)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, cropped, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("%w: encoding crop %d: %v", ErrDetectionFailed, i, err)
		}

		url, err := c.blobs.PutBlob(fmt.Sprintf("crops/%s.jpg", uuid.New().String()), buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("%w: persisting crop %d: %v", ErrDetectionFailed, i, err)
		}

		objects = append(objects, Object{
			Label:      det.Label,
			Confidence: det.Confidence,
			ImageURL:   url,
		})
	}

	return objects, nil
}
