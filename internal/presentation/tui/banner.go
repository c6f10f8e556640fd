package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tourguide banner to w.
func PrintBanner(w io.Writer, profile termenv.Profile) {
	lines := []struct {
		text, color string
	}{
		{" _____                         _     _      ", "#818cf8"},
		{"|_   _|__  _   _ _ __ __ _ _  _(_) __| | ___ ", "#a78bfa"},
		{"  | |/ _ \\| | | | '__/ _` | || | |/ _` |/ _ \\", "#c084fc"},
		{"  | | (_) | |_| | | | (_| | || | | (_| |  __/", "#e879f9"},
		{"  |_|\\___/ \\__,_|_|  \\__, |\\_,_|_|\\__,_|\\___|", "#f472b6"},
		{"                     |___/                  ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, profile.String(l.text).Foreground(profile.Color(l.color)))
	}
	fmt.Fprintln(w)
}
