package engine

// DropReason is the closed set of reasons Step can silently drop an
// inbound frame without mutating state or producing a reply, making "why
// didn't we respond" observable without control-flow errors.
type DropReason int

// Drop reasons.
const (
	DropNone DropReason = iota
	DropTooShort
	DropBadCrc
	DropBadEtherType
	DropUnknownInterface
	DropBadHwType
	DropBadProtoType
	DropBadLens
	DropBadOp
	DropBroadcastSource
	DropMulticastSource
	DropZeroSource
	DropCrossSubnet
	DropRARPDisabled
	DropSelfConflictSilent
)

func (d DropReason) String() string {
	switch d {
	case DropNone:
		return "none"
	case DropTooShort:
		return "too_short"
	case DropBadCrc:
		return "bad_crc"
	case DropBadEtherType:
		return "bad_ethertype"
	case DropUnknownInterface:
		return "unknown_interface"
	case DropBadHwType:
		return "bad_hw_type"
	case DropBadProtoType:
		return "bad_proto_type"
	case DropBadLens:
		return "bad_lens"
	case DropBadOp:
		return "bad_op"
	case DropBroadcastSource:
		return "broadcast_source"
	case DropMulticastSource:
		return "multicast_source"
	case DropZeroSource:
		return "zero_source"
	case DropCrossSubnet:
		return "cross_subnet"
	case DropRARPDisabled:
		return "rarp_disabled"
	case DropSelfConflictSilent:
		return "self_conflict_silent"
	default:
		return "unknown"
	}
}

// Notice reports a non-dropping side effect worth surfacing to callers
// (logging/metrics), distinct from DropReason because in each case Step
// still ran to completion; a reply may still have been sent.
type Notice int

// Notice values.
const (
	NoticeNone Notice = iota
	NoticeStaticViolation
	NoticeCacheFull
	NoticeDadConflict
)

func (n Notice) String() string {
	switch n {
	case NoticeNone:
		return "none"
	case NoticeStaticViolation:
		return "static_violation"
	case NoticeCacheFull:
		return "cache_full"
	case NoticeDadConflict:
		return "dad_conflict"
	default:
		return "unknown"
	}
}
