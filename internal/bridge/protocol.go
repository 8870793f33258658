package bridge

// rosbridge v2 operations. Only the outbound half of the protocol is used:
// the console advertises and publishes, it never subscribes.

const (
	opAdvertise   = "advertise"
	opUnadvertise = "unadvertise"
	opPublish     = "publish"
)

type MessageKind int

const (
	KindPose MessageKind = iota
	KindText
)

func (k MessageKind) String() string {
	switch k {
	case KindPose:
		return "pose"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Topic is a named channel with a fixed message schema.
type Topic struct {
	Name string
	Kind MessageKind
}

// Type is the message type announced when the topic is advertised.
func (t Topic) Type() string {
	if t.Kind == KindText {
		return "std_msgs/String"
	}
	return "vrom_msgs/ObjectPose"
}

const (
	TopicTakeObject    = "take_object"
	TopicReleaseObject = "release_object"
	TopicAction1       = "action1"
	TopicAction2       = "action2"
)

// Topics is the fixed set advertised on every open.
var Topics = []Topic{
	{Name: TopicTakeObject, Kind: KindPose},
	{Name: TopicReleaseObject, Kind: KindPose},
	{Name: TopicAction1, Kind: KindText},
	{Name: TopicAction2, Kind: KindText},
}

func LookupTopic(name string) (Topic, bool) {
	for _, t := range Topics {
		if t.Name == name {
			return t, true
		}
	}
	return Topic{}, false
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Orientation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// PoseMessage is the payload of take_object and release_object.
type PoseMessage struct {
	FrameID     string      `json:"frame_id"`
	Position    Point       `json:"position"`
	Orientation Orientation `json:"orientation"`
}

// TextMessage is the payload of action1 and action2.
type TextMessage struct {
	Data string `json:"data"`
}

type advertiseOp struct {
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`
	Topic string `json:"topic"`
	Type  string `json:"type"`
}

type unadvertiseOp struct {
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`
	Topic string `json:"topic"`
}

type publishOp struct {
	Op    string `json:"op"`
	ID    string `json:"id,omitempty"`
	Topic string `json:"topic"`
	Msg   any    `json:"msg"`
}
