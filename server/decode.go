package server

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jtejido/fingerknuckle"
)

var acceptedMediaTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/bmp",
	"image/x-portable-graymap",
	"image/x-portable-anymap",
	"image/x-wsq",
	"image/wsq",
}

// decodeImage turns a base64 payload into an image without touching disk.
// A data URI prefix is optional; when present its media type must be one we
// can decode.
func decodeImage(field, payload string) (*fingerknuckle.Image, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, field+" is required")
	}
	if strings.HasPrefix(payload, "data:") {
		meta, data, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, fiber.NewError(fiber.StatusBadRequest, field+": invalid data URI")
		}
		if !acceptedMediaType(meta) {
			return nil, fiber.NewError(fiber.StatusUnsupportedMediaType, field+": unsupported image type")
		}
		payload = data
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, field+": failed to decode base64: "+err.Error())
	}
	img, err := fingerknuckle.LoadImageFromBytes(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnsupportedMediaType, field+": "+err.Error())
	}
	return img, nil
}

func acceptedMediaType(meta string) bool {
	meta = strings.ToLower(meta)
	for _, t := range acceptedMediaTypes {
		if strings.Contains(meta, t) {
			return true
		}
	}
	return false
}
