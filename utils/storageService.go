package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"time"

	"mft/config"

	"github.com/go-resty/resty/v2"
)

// UploadTransferDocument pushes an uploaded file to the external blob store and
// returns the object key to persist on the transfer. The store owns the bytes; this
// service only hands them over and keeps the key.
func UploadTransferDocument(file *multipart.FileHeader, referenceNumber string) (string, error) {
	if config.AppConfig.BlobStoreURL == "" {
		return "", fmt.Errorf("blob store is not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Unique object key per upload
	ext := filepath.Ext(file.Filename)
	objectKey := fmt.Sprintf("transfer_documents/%s_%s%s",
		referenceNumber, time.Now().Format("20060102150405"), ext)

	client := resty.New()
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.BlobStoreAPIKey).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(src).
		Put(config.AppConfig.BlobStoreURL + "/" + objectKey)
	if err != nil {
		return "", err
	}

	if resp.IsError() {
		return "", fmt.Errorf("blob store upload failed, code: %d", resp.StatusCode())
	}

	return objectKey, nil
}
