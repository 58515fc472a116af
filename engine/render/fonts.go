package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontMu   sync.Mutex
	fonts    = map[string]*opentype.Font{}
	faces    = map[faceKey]font.Face{}
	fontTTFs = map[string][]byte{"regular": goregular.TTF, "bold": gobold.TTF}
)

type faceKey struct {
	name string
	size float64
}

// Face returns a cached Go font face. name is "regular" or "bold".
func Face(name string, size float64) (font.Face, error) {
	fontMu.Lock()
	defer fontMu.Unlock()

	key := faceKey{name, size}
	if f, ok := faces[key]; ok {
		return f, nil
	}
	ft, ok := fonts[name]
	if !ok {
		ttf, known := fontTTFs[name]
		if !known {
			return nil, fmt.Errorf("render: unknown font %q", name)
		}
		var err error
		if ft, err = opentype.Parse(ttf); err != nil {
			return nil, fmt.Errorf("render: parse %s font: %w", name, err)
		}
		fonts[name] = ft
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("render: %s face: %w", name, err)
	}
	faces[key] = face
	return face, nil
}
