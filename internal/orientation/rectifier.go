package orientation

import (
	"image"

	"github.com/scenetext/stdetect/internal/utils"
)

// Rectify classifies a batch of detected text crops and flips the ones
// predicted upside-down. The output slice aligns 1:1 with the input; crops
// at other angles are passed through unchanged since the detector already
// produces upright rotated crops.
func (c *Classifier) Rectify(crops []image.Image) ([]image.Image, []Result, error) {
	if len(crops) == 0 {
		return nil, nil, nil
	}
	results, err := c.BatchPredict(crops)
	if err != nil {
		return nil, nil, err
	}

	out := make([]image.Image, len(crops))
	for i, crop := range crops {
		if results[i].Angle == 180 {
			out[i] = utils.Rotate180(crop)
		} else {
			out[i] = crop
		}
	}
	return out, results, nil
}

// CorrectWholeImage estimates the rotation of a full page and undoes it
// before detection. Returns the corrected image and the angle that was
// applied, in degrees.
func (c *Classifier) CorrectWholeImage(img image.Image) (image.Image, float64, error) {
	res, err := c.Predict(img)
	if err != nil {
		return nil, 0, err
	}

	switch res.Angle {
	case 90:
		return utils.Rotate90(img), 90, nil
	case 180:
		return utils.Rotate180(img), 180, nil
	case 270:
		return utils.Rotate270(img), 270, nil
	default:
		return img, 0, nil
	}
}
