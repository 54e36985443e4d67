package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // регистрирует декодер gif
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // регистрирует декодер webp
)

// Result - обработанное изображение
type Result struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Processor уменьшает фото мастеров до нужной ширины
type Processor struct {
	quality  int // JPEG quality (1-100)
	maxWidth int
}

func NewProcessor(quality, maxWidth int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxWidth <= 0 {
		maxWidth = 600
	}
	return &Processor{quality: quality, maxWidth: maxWidth}
}

// Process декодирует изображение, уменьшает его до maxWidth с сохранением
// пропорций (не увеличивает) и кодирует: png остается png, остальное - jpeg
func (p *Processor) Process(reader io.Reader) (*Result, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.resize(img)
	b := resized.Bounds()
	res := &Result{Width: b.Dx(), Height: b.Dy()}

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		res.ContentType, res.Ext = "image/png", ".png"
	} else {
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		res.ContentType, res.Ext = "image/jpeg", ".jpg"
	}
	res.Data = buf.Bytes()
	return res, nil
}

func (p *Processor) resize(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= p.maxWidth || width == 0 || height == 0 {
		return img
	}

	newWidth := p.maxWidth
	newHeight := int(float64(height) * float64(newWidth) / float64(width))
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
