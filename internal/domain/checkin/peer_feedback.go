package checkin

// Peer feedback entries have no identity beyond their position; every
// operation returns a fresh slice and leaves the input untouched.

func AddPeer(list []PeerFeedbackEntry) []PeerFeedbackEntry {
	out := make([]PeerFeedbackEntry, len(list), len(list)+1)
	copy(out, list)
	return append(out, PeerFeedbackEntry{})
}

func RemovePeer(list []PeerFeedbackEntry, index int) ([]PeerFeedbackEntry, error) {
	if index < 0 || index >= len(list) {
		return list, ErrPositionOutOfRange
	}
	out := make([]PeerFeedbackEntry, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...), nil
}

func UpdatePeer(list []PeerFeedbackEntry, index int, field, value string) ([]PeerFeedbackEntry, error) {
	if index < 0 || index >= len(list) {
		return list, ErrPositionOutOfRange
	}
	out := make([]PeerFeedbackEntry, len(list))
	copy(out, list)
	entry := &out[index]
	switch field {
	case PeerFieldName:
		entry.PeerName = value
	case PeerFieldCrushingIt:
		entry.CrushingIt = value
	case PeerFieldGrowthAreas:
		entry.GrowthAreas = value
	case PeerFieldOther:
		entry.Other = value
	default:
		return list, ErrUnknownField
	}
	return out, nil
}
