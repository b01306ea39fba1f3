package utils

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"go.uber.org/zap"

	"github.com/camden-git/gallerymanifest/models"
)

const (
	exifDateLayout = "2006:01:02 15:04:05"
	isoDateLayout  = "2006-01-02T15:04:05.000Z"
)

// MetadataExtractor decodes capture metadata embedded in an image file. An
// image without usable metadata yields an empty Capture, never an error.
type MetadataExtractor interface {
	Extract(data []byte) models.Capture
}

// MetadataExtractorFunc adapts a plain function to MetadataExtractor.
type MetadataExtractorFunc func(data []byte) models.Capture

func (f MetadataExtractorFunc) Extract(data []byte) models.Capture {
	return f(data)
}

// ExifExtractor reads EXIF tags with goexif.
type ExifExtractor struct {
	Logger *zap.Logger
}

func NewExifExtractor(logger *zap.Logger) *ExifExtractor {
	return &ExifExtractor{Logger: logger}
}

// Extract decodes the standard capture tags from JPEG or TIFF encoded data.
func (e *ExifExtractor) Extract(data []byte) (capture models.Capture) {
	defer func() {
		// goexif can panic on truncated IFDs
		if r := recover(); r != nil {
			e.Logger.Debug("metadata: recovered from EXIF decoder panic", zap.Any("panic", r))
			capture = models.Capture{}
		}
	}()

	exifData, err := exif.Decode(bytes.NewReader(data))
	if exifData == nil || (err != nil && exif.IsCriticalError(err)) {
		// not a fault, the file may simply lack EXIF data
		e.Logger.Debug("metadata: no EXIF data found or error decoding EXIF", zap.Error(err))
		return models.Capture{}
	}
	if err != nil {
		e.Logger.Debug("metadata: partial EXIF decode", zap.Error(err))
	}

	capture = models.Capture{
		DateTaken:    getDateTaken(exifData),
		Camera:       getString(exifData, exif.Model),
		Lens:         getString(exifData, exif.LensModel),
		FocalLength:  formatFocalLength(getNumber(exifData, exif.FocalLength)),
		Aperture:     getNumber(exifData, exif.FNumber),
		ISO:          getISO(exifData),
		ShutterSpeed: getNumber(exifData, exif.ExposureTime),
	}
	return capture
}

// getNumber reads the first value of a numeric capture tag (FNumber,
// ExposureTime, FocalLength) as float64. Cameras disagree on the TIFF type
// used for these, so rational, integer and float encodings are all accepted.
func getNumber(exifData *exif.Exif, tagName exif.FieldName) *float64 {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil || tag.Count == 0 {
		return nil
	}
	var val float64
	switch tag.Format() {
	case tiff.RatVal:
		num, den, err := tag.Rat2(0)
		if err != nil || den == 0 {
			return nil
		}
		val = float64(num) / float64(den)
	case tiff.IntVal:
		n, err := tag.Int64(0)
		if err != nil {
			return nil
		}
		val = float64(n)
	case tiff.FloatVal:
		if val, err = tag.Float(0); err != nil {
			return nil
		}
	default:
		return nil
	}
	return &val
}

// getISO reads ISOSpeedRatings. The tag may list several speeds, the first
// one is the one the shot was taken at.
func getISO(exifData *exif.Exif) *int {
	tag, err := exifData.Get(exif.ISOSpeedRatings)
	if err != nil || tag == nil || tag.Count == 0 || tag.Format() != tiff.IntVal {
		return nil
	}
	iso, err := tag.Int(0)
	if err != nil || iso <= 0 {
		return nil
	}
	return &iso
}

// helper to safely get an ASCII tag; goexif already cuts at the NUL terminator
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val, err := tag.StringVal()
	if err != nil {
		return nil
	}
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	return &val
}

// getDateTaken reads DateTimeOriginal. EXIF stores wall-clock time without a
// zone, it is published as if it were UTC.
func getDateTaken(exifData *exif.Exif) *string {
	raw := getString(exifData, exif.DateTimeOriginal)
	if raw == nil {
		return nil
	}
	t, err := time.ParseInLocation(exifDateLayout, *raw, time.UTC)
	if err != nil {
		return nil
	}
	s := t.Format(isoDateLayout)
	return &s
}

func formatFocalLength(v *float64) *string {
	if v == nil {
		return nil
	}
	s := fmt.Sprintf("%smm", strconv.FormatFloat(*v, 'f', -1, 64))
	return &s
}
