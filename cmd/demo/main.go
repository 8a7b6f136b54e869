// Command demo exercises the hello-world, styled-update, mouse, resize
// and paste paths end to end: it draws a banner, a line that toggles
// bold/red on keypress, and echoes the last mouse click and pasted text.
package main

import (
	"fmt"
	"os"

	"wisp"
	"wisp/config"
)

type demo struct {
	bold     bool
	lastMsg  string
	quitting bool
}

func (d *demo) Render(ctx *wisp.RenderContext) {
	style := wisp.Style{}
	if d.bold {
		style = style.WithAttr(wisp.AttrBold)
		style.Fg = wisp.RGB(255, 0, 0)
	}
	ctx.SetStyle(style)
	ctx.PutString(0, 0, []byte("Hi"))

	ctx.SetStyle(wisp.Style{})
	ctx.PutString(0, 2, []byte("press space to toggle style, q to quit, paste or click anywhere"))
	if d.lastMsg != "" {
		ctx.PutString(0, 4, []byte(d.lastMsg))
	}
}

func (d *demo) HandleEvent(ev wisp.Event) wisp.EventResult {
	switch e := ev.(type) {
	case wisp.KeyEvent:
		switch {
		case e.Key == wisp.KeyChar && e.Rune == 'q':
			return wisp.Quit
		case e.Key == wisp.KeyChar && e.Rune == 'c' && e.Modifiers.Has(wisp.ModCtrl):
			return wisp.Quit
		case e.Key == wisp.KeySpace:
			d.bold = !d.bold
			return wisp.NeedsRedraw
		}
	case wisp.MouseEvent:
		d.lastMsg = fmt.Sprintf("mouse %v at (%d,%d)", e.Kind, e.X, e.Y)
		return wisp.NeedsRedraw
	case wisp.PasteEvent:
		d.lastMsg = "pasted: " + e.Content
		return wisp.NeedsRedraw
	case wisp.ResizeEvent:
		d.lastMsg = fmt.Sprintf("resized to %dx%d", e.Cols, e.Rows)
		return wisp.NeedsRedraw
	}
	return wisp.Ignored
}

func main() {
	settings := config.Load()

	cfg := wisp.DefaultConfig()
	cfg.TargetFPS = settings.TargetFPS
	cfg.EnableTicks = settings.EnableTicks
	cfg.MouseEnabled = true
	cfg.PasteEnabled = true
	if capability, ok := wisp.ParseCapability(settings.ColorCapability); ok {
		cfg.ForceCapability = &capability
	}

	app, err := wisp.NewApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "wisp: setup failed:", err)
		os.Exit(1)
	}
	app.SetRoot(&demo{})

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "wisp:", err)
		os.Exit(1)
	}
}
