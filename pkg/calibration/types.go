package calibration

// Defaults applied whenever a Parameters value is built without explicit
// motion-planning identifiers.
const (
	DefaultMoveGroupNamespace = "/"
	DefaultMoveGroup          = "manipulator"
)

// Parameters describes a single hand-eye calibration setup.
//
// EyeInHand selects the mounting configuration: true means the sensor moves
// with the robot's end effector, false means the sensor is fixed in the world
// and observes a marker on the effector.
type Parameters struct {
	Name                  string `json:"name" yaml:"name"`
	EyeInHand             bool   `json:"eye_in_hand" yaml:"eye_in_hand"`
	RobotBaseFrame        string `json:"robot_base_frame" yaml:"robot_base_frame"`
	RobotEffectorFrame    string `json:"robot_effector_frame" yaml:"robot_effector_frame"`
	TrackingBaseFrame     string `json:"tracking_base_frame" yaml:"tracking_base_frame"`
	TrackingMarkerFrame   string `json:"tracking_marker_frame" yaml:"tracking_marker_frame"`
	FreehandRobotMovement bool   `json:"freehand_robot_movement" yaml:"freehand_robot_movement"`
	MoveGroupNamespace    string `json:"move_group_namespace" yaml:"move_group_namespace"`
	MoveGroup             string `json:"move_group" yaml:"move_group"`
}

// WithDefaults returns a copy of p with empty optional fields replaced by
// their defaults. The seven required fields are left as-is; the module does
// not enforce that they are non-empty.
func (p Parameters) WithDefaults() Parameters {
	if p.MoveGroupNamespace == "" {
		p.MoveGroupNamespace = DefaultMoveGroupNamespace
	}
	if p.MoveGroup == "" {
		p.MoveGroup = DefaultMoveGroup
	}
	return p
}

// Calibration is a computed hand-eye calibration: the setup parameters plus
// the estimated transform between the derived frame pair.
//
// FrameID and ChildFrameID are always derived from Parameters and are never
// set independently: the parent is the effector frame for eye-in-hand setups
// and the base frame otherwise, the child is always the tracking base frame.
// This makes the transform directly usable as a named edge in a frame graph.
type Calibration struct {
	Parameters   Parameters `json:"parameters"`
	Transform    Transform  `json:"transform"`
	FrameID      string     `json:"frame_id"`
	ChildFrameID string     `json:"child_frame_id"`
}

// New assembles a Calibration from parameters and a transform. A nil
// transform yields the identity. Frame ids are derived from the parameters.
func New(params Parameters, transform *Transform) *Calibration {
	params = params.WithDefaults()

	t := Identity()
	if transform != nil {
		t = *transform
	}

	c := &Calibration{
		Parameters: params,
		Transform:  t,
	}

	if params.EyeInHand {
		c.FrameID = params.RobotEffectorFrame
	} else {
		c.FrameID = params.RobotBaseFrame
	}
	c.ChildFrameID = params.TrackingBaseFrame

	return c
}
