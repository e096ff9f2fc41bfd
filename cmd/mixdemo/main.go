// Command mixdemo drives a Mixer through one identity-passthrough
// composite on the CPU path and writes the resulting BGRA frame to a PNG.
package main

import (
	"context"
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"

	"github.com/fieldcast/mixer"
)

func main() {
	var (
		width  = flag.Int("width", 640, "output width")
		height = flag.Int("height", 360, "output height")
		output = flag.String("output", "mixdemo.png", "output PNG path")
	)
	flag.Parse()

	m, err := mixer.New(*width, *height, mixer.WithAcceleratorPath(mixer.AcceleratorCPU))
	if err != nil {
		log.Fatalf("mixer.New: %v", err)
	}
	defer m.Close()

	m.BeginLayer(mixer.BlendNormal)
	m.Visit(solidFrame(*width, *height, 0x20, 0x80, 0xd0))
	m.EndLayer()

	ctx := context.Background()
	future, err := m.Render(ctx, mixer.VideoFormat{
		Width:     *width,
		Height:    *height,
		FieldMode: mixer.FieldProgressive,
	})
	if err != nil {
		log.Fatalf("Render: %v", err)
	}

	frame, err := future.Get(ctx)
	if err != nil {
		log.Fatalf("render future: %v", err)
	}

	if err := writePNG(*output, frame); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("wrote %s (%dx%d)\n", *output, frame.Width, frame.Height)
}

// solidFrame builds a one-plane packed BGRA frame filled with one color,
// used as a minimal stand-in for a real video source.
func solidFrame(width, height int, b, g, r byte) mixer.Frame {
	stride := width * 4
	pix := make([]byte, stride*height)
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = b
		pix[i+1] = g
		pix[i+2] = r
		pix[i+3] = 0xff
	}
	desc := mixer.PixelFormatDesc{
		Format: mixer.FormatBGRA,
		Planes: []mixer.Plane{{
			Width: width, Height: height,
			StrideBytesPerPixel: 4,
			LineStride:          stride,
			ByteSize:            len(pix),
		}},
		Alpha: mixer.AlphaPremultiplied,
	}
	return mixer.Frame{
		PixelFormatDesc: desc,
		BitDepth:        mixer.Bit8,
		Planes:          [][]byte{pix},
		Geometry:        mixer.DefaultGeometry(),
		FieldMode:       mixer.FieldProgressive,
		NaturalWidth:    width,
		NaturalHeight:   height,
	}
}

func writePNG(path string, frame mixer.RenderedFrame) error {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			i := (y*frame.Width + x) * 4
			b, g, r, a := frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2], frame.Pix[i+3]
			img.Set(x, y, color.RGBA{R: r, G: g, B: b, A: a})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
