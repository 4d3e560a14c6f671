package detector

import (
	"errors"
	"fmt"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/esimov/ascii-fountain/fountain"
)

// minCascadeSize covers the cascade header: 8 reserved bytes, the tree depth
// and the tree count.
const minCascadeSize = 16

// ErrCascade is returned when a cascade file cannot be unpacked.
var ErrCascade = errors.New("detector: invalid cascade")

// Params tunes the face search.
type Params struct {
	MinSize     int
	MaxSize     int
	ShiftFactor float64
	ScaleFactor float64
	IoU         float64
	MinQuality  float32
}

// DefaultParams returns settings suited to a webcam frame.
func DefaultParams() Params {
	return Params{
		MinSize:     60,
		MaxSize:     1000,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		IoU:         0.1,
		MinQuality:  5,
	}
}

// Detector finds faces with a pigo cascade and turns them into emitter moves.
type Detector struct {
	classifier *pigo.Pigo
	params     Params
}

// New unpacks a facefinder cascade.
func New(cascade []byte) (d *Detector, err error) {
	if len(cascade) < minCascadeSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrCascade, len(cascade))
	}
	// Unpack indexes the packet without bounds checks of its own.
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("%w: %v", ErrCascade, r)
		}
	}()

	p := pigo.NewPigo()
	// Unpack the binary file. This will return the number of cascade trees,
	// the tree depth, the threshold and the prediction from tree's leaf nodes.
	classifier, err := p.Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCascade, err)
	}
	return &Detector{classifier: classifier, params: DefaultParams()}, nil
}

// Load reads and unpacks the cascade file at path.
func Load(path string) (*Detector, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("detector: reading cascade: %w", err)
	}
	return New(cascade)
}

// SetParams replaces the search settings.
func (d *Detector) SetParams(p Params) {
	d.params = p
}

// Detect runs the cascade over the frame and returns the clustered faces
// whose score reaches MinQuality.
func (d *Detector) Detect(f Frame) []pigo.Detection {
	img := pigo.ImageParams{
		Pixels: f.Pixels,
		Rows:   f.Height,
		Cols:   f.Width,
		Dim:    f.Width,
	}
	cp := pigo.CascadeParams{
		MinSize:     d.params.MinSize,
		MaxSize:     d.params.MaxSize,
		ShiftFactor: d.params.ShiftFactor,
		ScaleFactor: d.params.ScaleFactor,
		ImageParams: img,
	}

	// Run the classifier over the obtained leaf nodes and return the detection results.
	dets := d.classifier.RunCascade(cp, 0.0)
	// Calculate the intersection over union (IoU) of two clusters.
	dets = d.classifier.ClusterDetections(dets, d.params.IoU)

	faces := dets[:0]
	for _, det := range dets {
		if det.Q >= d.params.MinQuality {
			faces = append(faces, det)
		}
	}
	return faces
}

// Best returns the highest scoring detection.
func Best(dets []pigo.Detection) (pigo.Detection, bool) {
	if len(dets) == 0 {
		return pigo.Detection{}, false
	}
	best := dets[0]
	for _, det := range dets[1:] {
		if det.Q > best.Q {
			best = det
		}
	}
	return best, true
}

// Steer maps the column of a detection in a frame of the given width to an
// emitter x in [-extent, extent]. The image is mirrored, so a face on the
// left of the frame moves the emitter to the right.
func Steer(det pigo.Detection, width int, extent float32) float32 {
	if width <= 0 {
		return 0
	}
	frac := float32(det.Col) / float32(width)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return (0.5 - frac) * 2 * extent
}

// Action detects the best face in f and returns the emitter move it implies.
// z is kept as the emitter depth.
func (d *Detector) Action(f Frame, extent, z float32) (fountain.Action, bool) {
	best, ok := Best(d.Detect(f))
	if !ok {
		return fountain.Action{}, false
	}
	return fountain.Action{
		Kind: fountain.MoveTo,
		X:    Steer(best, f.Width, extent),
		Z:    z,
	}, true
}
