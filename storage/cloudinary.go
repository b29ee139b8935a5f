package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Cloudinary configuration via environment variables:
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET,
// CLOUDINARY_FOLDER (optional).

type UploadResult struct {
	URL      string
	PublicID string
}

// UploadBase64Image uploads a base64 image (raw or data-URL) to Cloudinary
// using a signed upload and returns the hosted URL plus the public ID the
// listing stores for later deletion.
func UploadBase64Image(base64Src string, publicID string) (UploadResult, error) {
	if base64Src == "" {
		return UploadResult{}, errors.New("empty image payload")
	}

	payload := base64Src
	if i := strings.Index(base64Src, ","); i != -1 {
		payload = base64Src[i+1:]
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	folder := os.Getenv("CLOUDINARY_FOLDER")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return UploadResult{}, errors.New("missing Cloudinary credentials")
	}

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", apiKey)
	form.Add("public_id", finalPublicID)

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)
	form.Add("signature", signRequest(finalPublicID, timestamp, apiSecret))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/upload"
	body, err := postForm(endpoint, form)
	if err != nil {
		return UploadResult{}, err
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		PublicID  string `json:"public_id"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary response: %w", err)
	}
	if cloudRes.Error.Message != "" {
		return UploadResult{}, errors.New("cloudinary: " + cloudRes.Error.Message)
	}

	out := cloudRes.SecureURL
	if out == "" {
		out = cloudRes.URL
	}
	if out == "" {
		return UploadResult{}, errors.New("cloudinary returned no URL")
	}
	return UploadResult{URL: out, PublicID: cloudRes.PublicID}, nil
}

// DestroyImage deletes an image by its stored public ID (already includes
// the folder prefix when one was configured at upload time).
func DestroyImage(publicID string) error {
	if publicID == "" {
		return errors.New("empty public ID")
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return errors.New("missing Cloudinary credentials")
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("public_id", publicID)
	form.Add("api_key", apiKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", signRequest(publicID, timestamp, apiSecret))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/destroy"
	body, err := postForm(endpoint, form)
	if err != nil {
		return err
	}

	var cloudRes struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return fmt.Errorf("cloudinary response: %w", err)
	}
	if cloudRes.Result != "ok" && cloudRes.Result != "not found" {
		return errors.New("cloudinary destroy failed: " + cloudRes.Result)
	}
	return nil
}

// Cloudinary signatures are SHA1 over the sorted params plus the secret.
func signRequest(publicID, timestamp, apiSecret string) string {
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, apiSecret)
	return fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))
}

func postForm(endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cloudinary request failed with status %d: %s", res.StatusCode, string(body))
	}
	return body, nil
}
