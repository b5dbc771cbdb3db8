package transform

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// readOrientation reads the EXIF orientation tag from the raw image bytes.
// Many images carry no exif data at all (png almost never does), so any
// failure to decode or find the tag yields the normal orientation.
func readOrientation(src []byte) int {

	x, err := exif.Decode(bytes.NewReader(src))
	if err != nil || x == nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil || tag == nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil || orientation < 1 || orientation > 8 {
		return 1
	}

	return orientation
}

// applyOrientation rotates or flips the decoded pixels so they display
// upright regardless of how the camera stored them. The renditions are
// re-encoded without exif data, so the pixels themselves must be corrected.
func applyOrientation(img image.Image, orientation int) image.Image {

	switch orientation {
	case 2: // mirror horizontal
		return imaging.FlipH(img)
	case 3: // rotate 180
		return imaging.Rotate180(img)
	case 4: // mirror vertical
		return imaging.FlipV(img)
	case 5: // mirror horizontal + rotate 270 clockwise
		return imaging.Transpose(img)
	case 6: // rotate 90 clockwise
		return imaging.Rotate270(img)
	case 7: // mirror horizontal + rotate 90 clockwise
		return imaging.Transverse(img)
	case 8: // rotate 270 clockwise
		return imaging.Rotate90(img)
	default: // 1 or unknown -> normal
		return img
	}
}
