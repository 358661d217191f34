// Package switchbank maps a bank of aux outputs to machine functions.
// Each slot follows M62-M65 only, the spindle enable state, mist coolant
// or flood coolant, selected with settings $456-$459.
package switchbank

import (
	"errors"

	"switchbank/core"
)

// PortUnclaimed marks a slot without an aux output
const PortUnclaimed = core.PortUnclaimed

const (
	pluginInfo     = "[PLUGIN:SwitchBank plugin v0.01]"
	msgInitFailed  = "SwitchBank plugin failed to initialize!"
	msgPortsFailed = "SwitchBank plugin failed to claim all needed ports!"
	genericDescr   = "Switchbank pin"
	settingDescr   = "Connect Switchbank pin to this action"
)

// ErrInitFailed is returned by Init when the plugin stays disabled
var ErrInitFailed = errors.New("switchbank: initialization failed")

type initError struct {
	cause error
}

func (e *initError) Error() string {
	return ErrInitFailed.Error() + ": " + e.cause.Error()
}

func (e *initError) Unwrap() []error {
	return []error{ErrInitFailed, e.cause}
}

// Plugin is the state of an initialized switch bank
type Plugin struct {
	host        *core.Host
	settings    Settings
	ports       [Slots]uint8
	nPorts      int
	canMapPorts bool
	nvsAddr     core.NVSAddress
	details     *core.SettingDetails

	onReport  core.Subscription
	onSpindle core.Subscription
	onCoolant core.Subscription
	onReset   core.Subscription
}

// Init claims the aux outputs and storage the plugin needs and hooks it
// into the host. On failure a warning is queued for the command loop,
// nothing is registered and the error wraps ErrInitFailed.
func Init(h *core.Host) (*Plugin, error) {
	p := &Plugin{host: h}
	for i := range p.ports {
		p.ports[i] = PortUnclaimed
	}

	p.nPorts = h.Ports.Available(core.PortDigital, core.PortOutput)
	if p.nPorts <= Slots {
		return nil, p.fail(core.ErrInsufficientPorts)
	}

	p.canMapPorts = h.Ports.CanClaimExplicit()
	if !p.canMapPorts {
		p.claimGeneric()
	}

	addr, ok := h.NVS.Alloc(RecordSize)
	if !ok {
		p.releasePorts()
		return nil, p.fail(core.ErrNVSAlloc)
	}
	p.nvsAddr = addr

	p.details = p.settingDetails()
	h.Settings.Register(p.details)

	p.onReport = h.Events.ReportOptions.Subscribe(p.onReportOptions)
	p.onSpindle = h.Events.SpindleProgrammed.Subscribe(p.onSpindleProgrammed)
	p.onCoolant = h.Events.CoolantSetState.Subscribe(p.onCoolantSetState)
	p.onReset = h.Events.DriverReset.Subscribe(p.onDriverReset)

	return p, nil
}

// Settings returns the current slot assignment
func (p *Plugin) Settings() Settings {
	return p.settings
}

// Port returns the aux output bound to slot, or PortUnclaimed
func (p *Plugin) Port(slot int) uint8 {
	if slot < 0 || slot >= Slots {
		return PortUnclaimed
	}
	return p.ports[slot]
}

// Close detaches the plugin from the host and releases its ports
func (p *Plugin) Close() {
	h := p.host
	h.Events.ReportOptions.Unsubscribe(p.onReport)
	h.Events.SpindleProgrammed.Unsubscribe(p.onSpindle)
	h.Events.CoolantSetState.Unsubscribe(p.onCoolant)
	h.Events.DriverReset.Unsubscribe(p.onReset)
	h.Settings.Unregister(p.details)
	p.releasePorts()
}

func (p *Plugin) fail(cause error) error {
	h := p.host
	if !h.RT.Enqueue(func() { h.ReportMessage(msgInitFailed, core.MessageWarning) }) {
		core.DebugPrintln("[SWITCHBANK] realtime queue full, init warning dropped")
	}
	return &initError{cause: cause}
}

// claimGeneric lets the host pick the highest free ports, top slot first
func (p *Plugin) claimGeneric() {
	for idx := Slots - 1; idx >= 0; idx-- {
		if !p.host.Ports.Claim(core.PortDigital, core.PortOutput, &p.ports[idx], genericDescr) {
			p.ports[idx] = PortUnclaimed
		}
	}
}

// claimExplicit binds slot i to aux output i
func (p *Plugin) claimExplicit() {
	for idx := Slots - 1; idx >= 0; idx-- {
		descr := "SwitchBank " + core.Itoa(idx) + " pin"
		if p.ports[idx] != PortUnclaimed {
			if owner, ok := p.host.Ports.Owner(p.ports[idx]); ok && owner == descr {
				continue
			}
		}
		p.ports[idx] = uint8(idx)
		if !p.host.Ports.Claim(core.PortDigital, core.PortOutput, &p.ports[idx], descr) {
			p.ports[idx] = PortUnclaimed
		}
	}
}

func (p *Plugin) releasePorts() {
	for idx := range p.ports {
		if p.ports[idx] != PortUnclaimed {
			p.host.Ports.Release(p.ports[idx])
			p.ports[idx] = PortUnclaimed
		}
	}
}

func (p *Plugin) settingDetails() *core.SettingDetails {
	d := &core.SettingDetails{
		Groups: []core.SettingGroupDetail{
			{Parent: core.GroupRoot, ID: core.GroupAuxPorts, Name: "Aux ports"},
		},
		Save:    p.save,
		Load:    p.load,
		Restore: p.restore,
	}
	for i := 0; i < Slots; i++ {
		slot := i
		id := core.SettingUserDefined6 + core.SettingID(slot)
		d.Settings = append(d.Settings, core.SettingDetail{
			ID:      id,
			Group:   core.GroupAuxPorts,
			Name:    "Aux Output " + core.Itoa(slot) + " Function",
			Format:  core.FormatRadioButtons,
			Options: FunctionOptions,
			Get:     func() uint32 { return uint32(p.settings.Function[slot]) },
			Set:     func(v uint32) { p.settings.Function[slot] = Function(v) },
		})
		d.Descriptions = append(d.Descriptions, core.SettingDescr{ID: id, Description: settingDescr})
	}
	return d
}

// save writes the record with checksum
func (p *Plugin) save() {
	record, _ := p.settings.MarshalBinary()
	if p.host.NVS.Write(p.nvsAddr, record, true) != core.NVSTransferOK {
		core.DebugPrintln("[SWITCHBANK] settings write failed")
	}
}

// restore resets every slot to FunctionMCode and saves
func (p *Plugin) restore() {
	p.settings = DefaultSettings()
	p.save()
}

// load reads the record, falling back to defaults, then binds the slots
// to their aux outputs when the host supports explicit claiming
func (p *Plugin) load() {
	var record [RecordSize]byte
	if p.host.NVS.Read(record[:], p.nvsAddr, true) != core.NVSTransferOK ||
		p.settings.UnmarshalBinary(record[:]) != nil {
		p.restore()
	}

	if p.canMapPorts && p.nPorts >= Slots {
		p.claimExplicit()
		return
	}

	h := p.host
	if !h.RT.Enqueue(func() { h.ReportMessage(msgPortsFailed, core.MessageWarning) }) {
		core.DebugPrintln("[SWITCHBANK] realtime queue full, port warning dropped")
	}
}

func (p *Plugin) onReportOptions(newopt bool) {
	if !newopt {
		p.host.Stream.WriteLine(pluginInfo)
	}
}

func (p *Plugin) onDriverReset(struct{}) {
	core.DebugPrintln("[SWITCHBANK] reset")
}

func (p *Plugin) onSpindleProgrammed(ev core.SpindleEvent) {
	p.drive(FunctionSpindleActive, ev.State.On)
}

func (p *Plugin) onCoolantSetState(cs core.CoolantState) {
	p.drive(FunctionCoolantMistActive, cs.Mist)
	p.drive(FunctionCoolantFloodActive, cs.Flood)
}

// drive writes on to every claimed slot assigned fn, highest slot first
func (p *Plugin) drive(fn Function, on bool) {
	for idx := Slots - 1; idx >= 0; idx-- {
		if p.settings.Function[idx] != fn {
			continue
		}
		port := p.ports[idx]
		if port == PortUnclaimed {
			continue
		}
		if err := p.host.Ports.DigitalOut(port, on); err != nil {
			core.DebugAsync("[SWITCHBANK] port " + core.Itoa(int(port)) + " write failed: " + err.Error())
		}
	}
}
