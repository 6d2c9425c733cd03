package params

import (
	"fmt"

	"github.com/robokit/handeye/pkg/calibration"
)

// expectedNames are the parameters a calibration daemon reads at startup.
// move_group_namespace and move_group are deliberately absent: they keep
// their defaults unless set by another path.
var expectedNames = []string{
	"name",
	"eye_in_hand",
	"robot_base_frame",
	"robot_effector_frame",
	"tracking_base_frame",
	"tracking_marker_frame",
	"freehand_robot_movement",
}

// Reader extracts calibration parameters from an injected Provider.
type Reader struct {
	provider Provider
}

func NewReader(provider Provider) *Reader {
	return &Reader{provider: provider}
}

// DeclareExpectedParameters registers the expected parameter names with the
// provider. Must be called before Read.
func (r *Reader) DeclareExpectedParameters() {
	for _, name := range expectedNames {
		r.provider.Declare(name)
	}
}

// Read fetches the current value of every expected parameter and assembles a
// calibration.Parameters. Provider failures propagate unchanged, wrapped with
// the parameter name.
func (r *Reader) Read() (calibration.Parameters, error) {
	var p calibration.Parameters
	var err error

	strings := map[string]*string{
		"name":                  &p.Name,
		"robot_base_frame":      &p.RobotBaseFrame,
		"robot_effector_frame":  &p.RobotEffectorFrame,
		"tracking_base_frame":   &p.TrackingBaseFrame,
		"tracking_marker_frame": &p.TrackingMarkerFrame,
	}
	bools := map[string]*bool{
		"eye_in_hand":             &p.EyeInHand,
		"freehand_robot_movement": &p.FreehandRobotMovement,
	}

	for name, dst := range strings {
		if *dst, err = r.provider.GetString(name); err != nil {
			return calibration.Parameters{}, fmt.Errorf("failed to read parameter %q: %w", name, err)
		}
	}
	for name, dst := range bools {
		if *dst, err = r.provider.GetBool(name); err != nil {
			return calibration.Parameters{}, fmt.Errorf("failed to read parameter %q: %w", name, err)
		}
	}

	return p.WithDefaults(), nil
}
