// Command ggebitendemo renders gg vector graphics inside an Ebitengine
// window through the ggebiten surface backend.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/gogpu/gg/surface"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/ggebiten"
)

type game struct {
	width   int
	height  int
	tick    int
	pattern *ggebiten.ImagePattern

	// canvas is the off-screen ggebiten surface composited to the screen
	// every frame. The screen itself is write-only, so the software
	// fallback cannot render onto it directly.
	canvas *ggebiten.Surface
}

func (g *game) Update() error {
	g.tick++
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.canvas == nil {
		var err error
		g.canvas, err = ggebiten.New(g.width, g.height)
		if err != nil {
			log.Fatalf("create surface: %v", err)
		}
	}

	drawBackground(g.canvas, g.width, g.height)
	drawPatternStripe(g.canvas, g.pattern, g.width)
	drawShapes(g.canvas, g.tick)

	if err := g.canvas.Flush(); err != nil {
		log.Fatalf("flush: %v", err)
	}
	screen.DrawImage(g.canvas.Image(), nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// drawBackground fills the window with banded rectangles. Integral
// rectangles under source-over execute as native GPU fills.
func drawBackground(s *ggebiten.Surface, w, h int) {
	const steps = 16
	bandH := (h + steps - 1) / steps
	for i := 0; i < steps; i++ {
		t := float64(i) / steps
		p := surface.NewPath()
		p.Rectangle(0, float64(i*bandH), float64(w), float64(bandH))
		s.Fill(p, surface.FillStyle{Color: color.RGBA{
			R: uint8(20 + 80*t),
			G: uint8(30 + 60*t),
			B: uint8(80 + 100*t),
			A: 255,
		}})
	}
}

// drawPatternStripe fills a band with a repeating image pattern, the native
// tile-blit path.
func drawPatternStripe(s *ggebiten.Surface, pat *ggebiten.ImagePattern, w int) {
	p := surface.NewPath()
	p.Rectangle(0, 420, float64(w), 60)
	s.Fill(p, surface.FillStyle{Pattern: pat})
}

// drawShapes renders curved and stroked content, which runs through gg's
// software rasterizer and is uploaded on Flush.
func drawShapes(s *ggebiten.Surface, tick int) {
	angle := float64(tick) / 60

	// Orbiting circles.
	for i := 0; i < 3; i++ {
		a := angle + float64(i)*2*math.Pi/3
		cx := 400 + 120*math.Cos(a)
		cy := 220 + 120*math.Sin(a)

		p := surface.NewPath()
		p.Circle(cx, cy, 40)
		s.Fill(p, surface.FillStyle{Color: color.NRGBA{
			R: uint8(80 * (i + 1)),
			G: 200 - uint8(60*i),
			B: 120,
			A: 200,
		}})
	}

	// Stroked wave.
	wave := surface.NewPath()
	wave.MoveTo(40, 340)
	for x := 40.0; x <= 760; x += 8 {
		wave.LineTo(x, 340+24*math.Sin(x/40+angle))
	}
	s.Stroke(wave, surface.StrokeStyle{
		Color: color.RGBA{255, 220, 80, 255},
		Width: 4,
	})
}

// checkerboard builds the tile image for the pattern stripe.
func checkerboard(cell int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2*cell, 2*cell))
	dark := color.RGBA{40, 40, 60, 255}
	light := color.RGBA{200, 200, 220, 255}
	for y := 0; y < 2*cell; y++ {
		for x := 0; x < 2*cell; x++ {
			c := dark
			if (x/cell+y/cell)%2 == 0 {
				c = light
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func main() {
	var (
		width  = flag.Int("width", 800, "window width")
		height = flag.Int("height", 480, "window height")
	)
	flag.Parse()

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("ggebiten demo")
	ebiten.SetVsyncEnabled(true)

	g := &game{
		width:   *width,
		height:  *height,
		pattern: ggebiten.NewImagePattern(checkerboard(15), ggebiten.ExtendRepeat),
	}
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
