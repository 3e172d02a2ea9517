package engine

import "go.arpshield.dev/arpshield/internal/wire"

// merge implements the RFC 826 §2 merge algorithm for a validated,
// non-conflicting ARP Request or Reply. It returns the updated
// interface, an optional reply payload (only for Requests addressed to
// us), and any Notice worth surfacing.
func merge(iface Interface, pkt wire.Packet, now, dynTTLMs uint64) (Interface, *wire.Packet, Notice) {
	sip, smac := pkt.SenderIP, pkt.SenderMAC
	notice := NoticeNone
	mergeFlag := false

	cache, updated, staticViolation := iface.Cache.UpdateMAC(sip, smac, now)
	if staticViolation {
		notice = NoticeStaticViolation
	}
	if updated {
		iface.Cache = cache
		mergeFlag = true
		iface.NegCache = iface.NegCache.Remove(sip)
		iface.Pending = iface.Pending.Remove(sip)
	}

	forUs := pkt.TargetIP == iface.OwnIP

	if forUs && !mergeFlag && !staticViolation {
		newCache, ok := iface.Cache.Put(CacheEntry{
			IP:         sip,
			MAC:        smac,
			InsertedAt: now,
			TTL:        dynTTLMs,
			Kind:       KindDynamic,
		})
		if ok {
			iface.Cache = newCache
			iface.NegCache = iface.NegCache.Remove(sip)
			iface.Pending = iface.Pending.Remove(sip)
		} else {
			notice = NoticeCacheFull
		}
	}

	if pkt.Operation == wire.OpRequest && forUs {
		reply := wire.Packet{
			Operation: wire.OpReply,
			SenderMAC: iface.OwnMAC,
			SenderIP:  iface.OwnIP,
			TargetMAC: smac,
			TargetIP:  sip,
		}
		return iface, &reply, notice
	}

	return iface, nil, notice
}
