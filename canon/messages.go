package canon

import "sync"

// This file implements the downstream API of §6: the interpreter-list
// message shapes this core emits.  Design note §9 models "implicit
// polymorphism across message kinds" as tagged variants sharing a common
// Header, rather than the goto-laden switch of the source system: each
// concrete type implements Message by embedding Header, and appending is a
// single sum-type push onto an InterpreterList.

// MessageType discriminates the payload carried by a Message.
type MessageType string

// The full set of trajectory and auxiliary message types this core emits.
const (
	MsgLinearMove      MessageType = "LINEAR_MOVE"
	MsgTraverse        MessageType = "TRAVERSE"
	MsgCircularMove    MessageType = "CIRCULAR_MOVE"
	MsgRigidTap        MessageType = "RIGID_TAP"
	MsgProbe           MessageType = "PROBE"
	MsgDwell           MessageType = "DWELL"
	MsgSpindleOn       MessageType = "SPINDLE_ON"
	MsgSpindleOff      MessageType = "SPINDLE_OFF"
	MsgSpindleSpeed    MessageType = "SPINDLE_SPEED"
	MsgCoolant         MessageType = "COOLANT"
	MsgToolChange      MessageType = "TOOL_CHANGE"
	MsgToolPrepare     MessageType = "TOOL_PREPARE"
	MsgToolSetOffset   MessageType = "TOOL_SET_OFFSET"
	MsgToolSetNumber   MessageType = "TOOL_SET_NUMBER"
	MsgOperatorMessage MessageType = "OPERATOR_MESSAGE"
	MsgOperatorError   MessageType = "OPERATOR_ERROR"
	MsgSetTermCond     MessageType = "SET_TERM_COND"
	MsgOriginSet       MessageType = "ORIGIN_SET"
	MsgOffsetSet       MessageType = "OFFSET_SET"
	MsgSpindleSyncStart MessageType = "SPINDLE_SYNC_START"
	MsgSpindleSyncStop  MessageType = "SPINDLE_SYNC_STOP"
	MsgAdaptiveFeed    MessageType = "ADAPTIVE_FEED_ENABLE"
	MsgFeedOverride    MessageType = "FEED_OVERRIDE_ENABLE"
	MsgSpindleOverride MessageType = "SPINDLE_OVERRIDE_ENABLE"
	MsgFeedHold        MessageType = "FEED_HOLD_ENABLE"
	MsgDigitalOutput   MessageType = "DIGITAL_OUTPUT"
	MsgAnalogOutput    MessageType = "ANALOG_OUTPUT"
	MsgSyncInput       MessageType = "SYNC_INPUT"
	MsgInputWait       MessageType = "INPUT_WAIT"
	MsgNURBSBlock      MessageType = "NURBS_BLOCK"
	MsgProgramStop     MessageType = "PROGRAM_STOP"
	MsgProgramEnd      MessageType = "PROGRAM_END"
)

// Header is the common envelope carried by every Message.
type Header struct {
	Type MessageType
	Line int
}

// Message is implemented by every concrete trajectory/auxiliary payload.
type Message interface {
	header() Header
}

func (h Header) header() Header { return h }

// TermKind distinguishes a blended vs. exact-stop segment end.
type TermKind int

const (
	TermBlend TermKind = iota
	TermStop
)

// InputType and WaitKind describe a WAIT message's target and condition.
type InputType int

const (
	InputDigital InputType = iota
	InputAnalog
)

type WaitKind int

const (
	WaitRise WaitKind = iota
	WaitFall
	WaitHigh
	WaitLow
)

// LinearMove is a straight traverse or feed move, or a degraded/near-linear
// arc fused by the segment buffer.
type LinearMove struct {
	Header
	End          Pose
	Vel          float64
	IniMaxVel    float64
	Acc          float64
	IniMaxJerk   float64
	FeedMode     FeedMode
}

// CircularMove is a full arc move.
type CircularMove struct {
	Header
	End        Pose
	Center     Pose
	Normal     Pose
	Turn       int
	Vel        float64
	IniMaxVel  float64
	Acc        float64
	IniMaxJerk float64
	FeedMode   FeedMode
}

// RigidTap is a synchronized reciprocating move that returns to its start.
type RigidTap struct {
	Header
	End        Pose
	Vel        float64
	IniMaxVel  float64
	Acc        float64
	IniMaxJerk float64
}

// Probe carries the requested probe behavior along with the move.
type Probe struct {
	Header
	End        Pose
	ProbeType  ProbeType
	Vel        float64
	IniMaxVel  float64
	Acc        float64
	IniMaxJerk float64
}

// Dwell pauses motion for Seconds.
type Dwell struct {
	Header
	Seconds float64
}

// SpindleState turns the spindle on (with direction) or off.
type SpindleState struct {
	Header
	On        bool
	Clockwise bool
}

// SpindleSpeed sets the commanded spindle speed, and, when CSS is active,
// carries the CSS bookkeeping alongside it.
type SpindleSpeed struct {
	Header
	RPM          float64
	CSSMaximum   float64
	CSSNumerator float64
	XOffset      float64
}

// Coolant toggles flood and mist coolant independently.
type Coolant struct {
	Header
	Flood bool
	Mist  bool
}

// ToolChange commands an actual tool change at the spindle.
type ToolChange struct {
	Header
	Pocket int
}

// ToolPrepare selects a pocket for a subsequent ToolChange.
type ToolPrepare struct {
	Header
	Pocket int
}

// ToolSetOffset is emitted whenever the tool length offset changes, in
// externalized units, so the executor observes it in dispatch order.
type ToolSetOffset struct {
	Header
	Offset Pose
}

// ToolSetNumber reports the currently selected tool number.
type ToolSetNumber struct {
	Header
	Tool int
}

// OperatorMessage and OperatorError surface free-text to the operator.
type OperatorMessage struct {
	Header
	Text    string
	IsError bool
}

// SetTermCond sets the blend/stop behavior for subsequent segment ends.
type SetTermCond struct {
	Header
	Kind      TermKind
	Tolerance float64
}

// OriginSet is emitted whenever the work origin changes.
type OriginSet struct {
	Header
	Origin Pose
}

// OffsetSet is the generic tool length offset broadcast.  SetToolOffset
// emits it together with ToolSetOffset; work-origin changes are reported
// by OriginSet instead.
type OffsetSet struct {
	Header
	Offset Pose
}

// SpindleSync starts or stops speed/feed synchronization.
type SpindleSync struct {
	Header
	Start bool
}

// AdaptiveFeed, FeedOverride, SpindleOverride and FeedHold all carry a
// single enable bit toggling the named override.
type AdaptiveFeed struct {
	Header
	Enable bool
}

type FeedOverride struct {
	Header
	Enable bool
}

type SpindleOverride struct {
	Header
	Enable bool
}

type FeedHold struct {
	Header
	Enable bool
}

// DigitalOutput and AnalogOutput set an I/O bit or value, optionally
// motion-synchronized (Start/End bracket the synchronized window; Now is
// true for an immediate, non-synchronized write).
type DigitalOutput struct {
	Header
	Index int
	Value bool
	Start bool
	End   bool
	Now   bool
}

type AnalogOutput struct {
	Header
	Index int
	Value float64
	Start bool
	End   bool
	Now   bool
}

// SyncInput requests that subsequent synchronized I/O wait on an input.
type SyncInput struct {
	Header
	Index     int
	InputType InputType
}

// InputWait waits for an input to satisfy WaitKind within Timeout seconds.
type InputWait struct {
	Header
	Index     int
	InputType InputType
	WaitKind  WaitKind
	Timeout   float64
}

// NURBSBlock carries one control point or knot of a 3D NURBS move, plus
// the ordered block metadata every record in the move shares.
type NURBSBlock struct {
	Header
	ControlPointCount int
	KnotCount         int
	Order             int
	CurveLength       float64
	CurrentKnot       float64
	Weight            float64
	HasOverlay        bool
	Overlay           float64
	Point             Pose
	IsKnot            bool
}

// ProgramControl covers PROGRAM_STOP, OPTIONAL_PROGRAM_STOP and
// PROGRAM_END: Header.Type separates stop from end, and Optional marks an
// optional stop (which shares MsgProgramStop).
type ProgramControl struct {
	Header
	Optional bool
}

// InterpreterList is the append-only, ordered sink this core feeds.  The
// contract requires total ordering by append time; this core never
// reorders or removes a message once appended (§5).
type InterpreterList interface {
	Append(Message)
}

// SliceList is the simplest InterpreterList: an in-memory, ordered slice.
// It is concurrency-unsafe by design, matching the single-threaded
// dispatch model; wrap with a mutex at the call site if multiple
// goroutines must observe it (none should ever append to it).
type SliceList struct {
	messages []Message
}

// Append adds msg to the end of the list.
func (s *SliceList) Append(msg Message) {
	s.messages = append(s.messages, msg)
}

// Messages returns the accumulated messages in append order.
func (s *SliceList) Messages() []Message {
	return s.messages
}

// Len reports how many messages have been appended.
func (s *SliceList) Len() int {
	return len(s.messages)
}

// ChanList is an InterpreterList backed by a buffered channel, for the
// common deployment shape where a separate executor goroutine dequeues
// messages concurrently with dispatch.  Append blocks once the channel is
// full, applying natural backpressure to the interpreter.
type ChanList struct {
	ch chan Message

	closeOnce sync.Once
}

// NewChanList creates a ChanList with the given channel capacity.
func NewChanList(capacity int) *ChanList {
	return &ChanList{ch: make(chan Message, capacity)}
}

// Append sends msg to the channel, blocking if it is full.
func (c *ChanList) Append(msg Message) {
	c.ch <- msg
}

// Messages exposes the receive side of the channel for the executor.
func (c *ChanList) Messages() <-chan Message {
	return c.ch
}

// Close closes the channel; safe to call more than once.
func (c *ChanList) Close() {
	c.closeOnce.Do(func() { close(c.ch) })
}
