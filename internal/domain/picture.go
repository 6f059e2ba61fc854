package domain

import (
	"time"

	"github.com/google/uuid"
)

// StopPic is an uploaded photograph of one or more stops.
// Only DynMeta is editable after upload.
type StopPic struct {
	ID               int32          `json:"id"`
	OriginalFilename string         `json:"original_filename"`
	SHA1             string         `json:"sha1"`
	Tagged           bool           `json:"tagged"`
	Uploader         uuid.UUID      `json:"uploader"`
	UploadDate       time.Time      `json:"upload_date"`
	CaptureDate      *time.Time     `json:"capture_date"`
	Width            int32          `json:"width"`
	Height           int32          `json:"height"`
	CameraRef        *string        `json:"camera_ref"`
	DynMeta          StopPicDynMeta `json:"dyn_meta"`
}

// StopPicDynMeta is the mutable metadata of a StopPic.
type StopPicDynMeta struct {
	Public    bool     `json:"public"`
	Sensitive bool     `json:"sensitive"`
	Lon       *float64 `json:"lon"`
	Lat       *float64 `json:"lat"`
	Quality   int16    `json:"quality"`
	Tags      []string `json:"tags"`
	Attrs     []string `json:"attrs"`
	Notes     *string  `json:"notes"`
}

// StopAttrs links a picture to a stop with per-stop attributes.
type StopAttrs struct {
	ID    int32    `json:"id"`
	Attrs []string `json:"attrs"`
}
