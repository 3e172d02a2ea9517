package ioadapter

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"go.arpshield.dev/arpshield/internal/engine"
	"go.arpshield.dev/arpshield/internal/metrics"
	"go.arpshield.dev/arpshield/internal/wire"
)

// LinkNames maps an engine interface ID to the operating system interface
// name it should bind to. Configurations name interfaces identically on
// both sides, so callers may leave this nil to use the ID as the OS name
// directly.
type LinkNames map[string]string

// Adapter owns the raw sockets for every configured interface and the one
// engine.State they all operate on, serialized behind a single mutex.
// Grounded on internal/layer2/arp.go's arpCoordinator, generalized from
// "one responder per discovered interface" to "one link per configured
// interface driving a shared pure-core state" and from ARP-only parsing
// to raw frame bytes.
type Adapter struct {
	logger  log.Logger
	metrics *metrics.Metrics

	tickInterval time.Duration
	linkNames    LinkNames

	mu    sync.Mutex
	state engine.State

	links map[string]*link
}

// New builds an Adapter around an already-initialized engine state. It does
// not open any sockets until Run is called.
func New(logger log.Logger, m *metrics.Metrics, initial engine.State, tickInterval time.Duration, linkNames LinkNames) *Adapter {
	return &Adapter{
		logger:       logger,
		metrics:      m,
		tickInterval: tickInterval,
		linkNames:    linkNames,
		state:        initial,
		links:        make(map[string]*link),
	}
}

func (a *Adapter) linkName(ifaceID string) string {
	if name, ok := a.linkNames[ifaceID]; ok {
		return name
	}
	return ifaceID
}

// Run opens a raw socket per configured interface, starts one read loop per
// link plus the periodic tick loop, and blocks until ctx is canceled or a
// link fails to open. All goroutines are stopped and every link closed
// before Run returns.
func (a *Adapter) Run(ctx context.Context) error {
	a.mu.Lock()
	ifaceIDs := make([]string, 0, len(a.state.Interfaces))
	for id := range a.state.Interfaces {
		ifaceIDs = append(ifaceIDs, id)
	}
	a.mu.Unlock()

	for _, id := range ifaceIDs {
		l, err := openLink(id, a.linkName(id))
		if err != nil {
			a.closeLinks()
			return err
		}
		a.links[id] = l
	}
	defer a.closeLinks()

	var wg sync.WaitGroup
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for id, l := range a.links {
		wg.Add(1)
		go func(id string, l *link) {
			defer wg.Done()
			a.readLoop(runCtx, id, l)
		}(id, l)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.tickLoop(runCtx)
	}()

	<-runCtx.Done()
	wg.Wait()
	return nil
}

func (a *Adapter) closeLinks() {
	for id, l := range a.links {
		if err := l.close(); err != nil {
			level.Warn(a.logger).Log("msg", "closing link", "iface", id, "err", err)
		}
	}
}

func (a *Adapter) readLoop(ctx context.Context, ifaceID string, l *link) {
	buf := make([]byte, maxFrame)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := l.readFrame(buf)
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return
			}
			level.Warn(a.logger).Log("msg", "reading frame", "iface", ifaceID, "err", err)
			continue
		}

		frame := make([]byte, n)
		copy(frame, buf[:n])
		a.step(ifaceID, frame)
	}
}

func (a *Adapter) step(ifaceID string, frame []byte) {
	now := nowMs()

	a.mu.Lock()
	next, outcome := engine.Step(a.state, ifaceID, frame, now)
	a.state = next
	l := a.links[ifaceID]
	a.mu.Unlock()

	isRARP := false
	if eth, err := wire.Decap(frame); err == nil {
		isRARP = eth.EtherType == wire.EtherTypeRARP
	}

	if a.metrics != nil {
		a.metrics.ObserveStep(ifaceID, outcome, isRARP)
	}

	if outcome.Drop != engine.DropNone {
		level.Debug(a.logger).Log("msg", "dropped frame", "iface", ifaceID, "reason", outcome.Drop.String())
		return
	}
	if outcome.Notice != engine.NoticeNone {
		level.Info(a.logger).Log("msg", "notice", "iface", ifaceID, "notice", outcome.Notice.String())
	}
	if outcome.Frame != nil && l != nil {
		if err := l.writeFrame(outcome.Frame); err != nil {
			level.Warn(a.logger).Log("msg", "writing reply frame", "iface", ifaceID, "err", err)
		}
	}
}

func (a *Adapter) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(a.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick()
		}
	}
}

func (a *Adapter) tick() {
	now := nowMs()

	a.mu.Lock()
	next, frames := engine.Tick(a.state, now)
	a.state = next
	links := make(map[string]*link, len(a.links))
	for id, l := range a.links {
		links[id] = l
	}
	a.mu.Unlock()

	sent := make(map[string]int, len(links))
	for _, f := range frames {
		if len(f) < 6 {
			continue
		}
		// Every interface shares a broadcast frame shape; route each frame
		// to every link since Tick doesn't tag frames with their owning
		// interface. Interfaces that aren't the frame's source silently
		// drop it on receipt (unknown source subnet), matching ordinary
		// broadcast domain behavior.
		for id, l := range links {
			if err := l.writeFrame(f); err != nil {
				level.Warn(a.logger).Log("msg", "writing tick frame", "iface", id, "err", err)
				continue
			}
			sent[id]++
		}
	}

	a.mu.Lock()
	state := a.state
	a.mu.Unlock()

	if a.metrics != nil {
		for id, n := range sent {
			a.metrics.ObserveRequestsSent(id, n)
		}
		a.metrics.ObserveState(state)
	}
}

// RequestNow issues an immediate ARP Request for targetIP on ifaceID,
// subject to engine.Request's flood control. Tick's later retransmissions
// of the pending entry are not flood-controlled.
func (a *Adapter) RequestNow(ifaceID string, targetIP wire.IPv4) error {
	now := nowMs()

	a.mu.Lock()
	next, frame := engine.Request(a.state, ifaceID, targetIP, now)
	a.state = next
	l := a.links[ifaceID]
	a.mu.Unlock()

	if frame == nil {
		return nil
	}
	if l == nil {
		return fmt.Errorf("ioadapter: no link open for interface %q", ifaceID)
	}
	if err := l.writeFrame(frame); err != nil {
		return err
	}
	if a.metrics != nil {
		a.metrics.ObserveRequestsSent(ifaceID, 1)
	}
	return nil
}

// Announce sends a gratuitous ARP request and reply for ifaceID's own bound
// address, for administrative re-announcement (e.g. after a failover)
// without restarting DAD probing. Grounded on the reference fleet's
// Announce.Gratuitous, generalized from an externally-owned VIP to an
// interface's own address.
func (a *Adapter) Announce(ifaceID string) error {
	a.mu.Lock()
	iface, ok := a.state.Interfaces[ifaceID]
	l := a.links[ifaceID]
	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("ioadapter: unknown interface %q", ifaceID)
	}
	if l == nil {
		return fmt.Errorf("ioadapter: no link open for interface %q", ifaceID)
	}

	for _, op := range []wire.Operation{wire.OpRequest, wire.OpReply} {
		pkt := wire.Packet{
			Operation: op,
			SenderMAC: iface.OwnMAC,
			SenderIP:  iface.OwnIP,
			TargetMAC: iface.OwnMAC,
			TargetIP:  iface.OwnIP,
		}
		frame := wire.Encap(wire.Frame{
			Destination: wire.Broadcast,
			Source:      iface.OwnMAC,
			VLAN:        iface.VLAN,
			EtherType:   wire.EtherTypeARP,
			Payload:     wire.Serialize(pkt),
		})
		if err := l.writeFrame(frame); err != nil {
			return err
		}
	}
	return nil
}

// SetReverseMap replaces the RARP reverse-lookup table wholesale, for a
// config reload without restarting listeners.
func (a *Adapter) SetReverseMap(entries []engine.ReverseEntry) {
	a.mu.Lock()
	a.state = engine.SetReverseMap(a.state, entries)
	a.mu.Unlock()
}

// StartDAD begins probing candidateIP on ifaceID for address conflicts.
func (a *Adapter) StartDAD(ifaceID string, candidateIP wire.IPv4, rngSeed uint64) {
	now := nowMs()

	a.mu.Lock()
	a.state = engine.StartDAD(a.state, ifaceID, candidateIP, now, rngSeed)
	a.mu.Unlock()
}

// Lookup reports the current resolution status of ip on ifaceID.
func (a *Adapter) Lookup(ifaceID string, ip wire.IPv4) engine.LookupResult {
	now := nowMs()

	a.mu.Lock()
	defer a.mu.Unlock()
	return engine.Lookup(a.state, ifaceID, ip, now)
}

// State returns a snapshot of the current engine state. State is
// value-semantic, so the returned copy is safe to inspect after the call.
func (a *Adapter) State() engine.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
